package session

import (
	"sort"
	"sync"
	"time"

	"github.com/MasoodZaf/Seek-sub004/internal/models"
)

// Registry tracks every live connection. Connections are keyed by
// connection id; byUser points at the most recent connection per identity
// and drives directed delivery (forced disconnect).
type Registry struct {
	mu     sync.RWMutex
	conns  map[string]*Client
	byUser map[string]*Client
}

func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[string]*Client),
		byUser: make(map[string]*Client),
	}
}

// Register adds or overwrites the live-connection record. Idempotent per
// connection id.
func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[c.ID] = c
	r.byUser[c.Identity.ID] = c
}

// Unregister removes the record and returns the identity that was removed.
// No-ops silently on duplicate disconnect signals.
func (r *Registry) Unregister(connID string) (models.Identity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conns[connID]
	if !ok {
		return models.Identity{}, false
	}
	delete(r.conns, connID)
	if r.byUser[c.Identity.ID] == c {
		delete(r.byUser, c.Identity.ID)
	}
	return c.Identity, true
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Snapshot lists every live connection for the admin surface.
func (r *Registry) Snapshot() []models.PublicPresence {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.PublicPresence, 0, len(r.conns))
	for _, c := range r.conns {
		last, activity := c.Activity()
		out = append(out, models.PublicPresence{
			ID:              c.Identity.ID,
			Username:        c.Identity.Username,
			Email:           c.Identity.Email,
			ConnectedAt:     c.ConnectedAt,
			LastActivity:    last,
			CurrentActivity: activity,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ConnectedAt.Before(out[j].ConnectedAt) })
	return out
}

// BroadcastAll delivers a frame to every live connection.
func (r *Registry) BroadcastAll(frame models.WSFrame) {
	for _, c := range r.clients() {
		c.Send(frame)
	}
}

// Broadcast delivers a frame to every live connection except the one
// identified by exceptConnID.
func (r *Registry) Broadcast(exceptConnID string, frame models.WSFrame) {
	for _, c := range r.clients() {
		if c.ID == exceptConnID {
			continue
		}
		c.Send(frame)
	}
}

// BroadcastPresence emits the global online/offline event for an identity.
func (r *Registry) BroadcastPresence(identityID, status string) {
	r.BroadcastAll(models.WSFrame{
		Type: models.FrameUserStatusChange,
		Data: models.UserStatusChange{
			UserID:    identityID,
			Status:    status,
			Timestamp: time.Now(),
		},
	})
}

// ForceDisconnect sends a terminal notification to the identity's most
// recent connection and closes its transport. Returns false when the
// identity has no live connection.
func (r *Registry) ForceDisconnect(identityID, reason string) bool {
	r.mu.RLock()
	c, ok := r.byUser[identityID]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	c.Send(models.WSFrame{
		Type: models.FrameForceDisconnect,
		Data: models.ForceDisconnect{Reason: reason},
	})
	c.Close()
	return true
}

// Touch bumps a connection's last-activity bookkeeping.
func (r *Registry) Touch(connID, activity string) {
	r.mu.RLock()
	c, ok := r.conns[connID]
	r.mu.RUnlock()
	if ok {
		c.Touch(activity)
	}
}

// clients copies the connection list so sends happen outside the lock.
func (r *Registry) clients() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Client, 0, len(r.conns))
	for _, c := range r.conns {
		out = append(out, c)
	}
	return out
}
