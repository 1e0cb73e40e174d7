package session

import (
	"sync"

	"github.com/MasoodZaf/Seek-sub004/internal/metrics"
	"github.com/MasoodZaf/Seek-sub004/internal/models"
)

// Hub owns the set of active collaboration rooms. Rooms are created lazily
// on first join and destroyed as soon as their participant set is empty;
// nothing survives the process.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewHub() *Hub { return &Hub{rooms: make(map[string]*Room)} }

// GetOrCreate returns the existing room or creates a new empty one with the
// given default language.
func (h *Hub) GetOrCreate(id, language string) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.getOrCreateLocked(id, language)
}

// Join resolves the room and adds the client under a single hub lock, so a
// concurrent last-leave cannot delete the room between lookup and join and
// strand the joiner in an untracked room.
func (h *Hub) Join(roomID, language string, c *Client) (*Room, models.CollaborationState, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r := h.getOrCreateLocked(roomID, language)
	state, count := r.Join(c)
	return r, state, count
}

func (h *Hub) getOrCreateLocked(id, language string) *Room {
	if r, ok := h.rooms[id]; ok {
		return r
	}
	r := NewRoom(id, language)
	h.rooms[id] = r
	metrics.RoomOpened()
	return r
}

func (h *Hub) Get(id string) (*Room, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.rooms[id]
	return r, ok
}

// Leave removes the identity from the room and deletes the room outright
// when it empties. Returns the remaining count and whether the room existed.
func (h *Hub) Leave(roomID, identityID string) (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.rooms[roomID]
	if !ok {
		return 0, false
	}
	remaining := r.Leave(identityID)
	if remaining == 0 {
		delete(h.rooms, roomID)
		metrics.RoomClosed()
	}
	return remaining, true
}

// RoomsFor lists the rooms an identity currently participates in. Used for
// disconnect cleanup so collaborators are never left a stale entry.
func (h *Hub) RoomsFor(identityID string) []*Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var out []*Room
	for _, r := range h.rooms {
		if r.HasParticipant(identityID) {
			out = append(out, r)
		}
	}
	return out
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// Snapshot lists all live rooms for the admin surface.
func (h *Hub) Snapshot() []models.RoomListing {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]models.RoomListing, 0, len(h.rooms))
	for _, r := range h.rooms {
		out = append(out, r.Listing())
	}
	return out
}
