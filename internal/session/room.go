package session

import (
	"sync"
	"time"

	"github.com/MasoodZaf/Seek-sub004/internal/models"
)

// participant is one identity's membership in a room. Keyed by identity id:
// a user is in a room once, represented by the latest connection that joined.
type participant struct {
	client   *Client
	joinedAt time.Time
}

// Room is one ephemeral shared-editing context. The document text is a
// single authoritative string; concurrent edits resolve last-writer-wins
// with no merge, so the most recent accepted edit fully replaces the text.
type Room struct {
	ID string

	mu             sync.Mutex
	language       string
	code           string
	createdAt      time.Time
	lastModified   time.Time
	lastModifiedBy string
	participants   map[string]*participant
	cursors        map[string]models.CursorMark
	selections     map[string]models.SelectionMark
}

const DefaultLanguage = "javascript"

func NewRoom(id, language string) *Room {
	if language == "" {
		language = DefaultLanguage
	}
	return &Room{
		ID:           id,
		language:     language,
		createdAt:    time.Now(),
		participants: make(map[string]*participant),
		cursors:      make(map[string]models.CursorMark),
		selections:   make(map[string]models.SelectionMark),
	}
}

// Join adds or overwrites the participant entry for the client's identity
// and returns the full room state for the joiner to render immediately.
func (r *Room) Join(c *Client) (models.CollaborationState, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.participants[c.Identity.ID] = &participant{client: c, joinedAt: time.Now()}
	return r.stateLocked(), len(r.participants)
}

// Leave removes the participant and all advisory marks for the identity.
// Returns the remaining participant count.
func (r *Room) Leave(identityID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.participants, identityID)
	delete(r.cursors, identityID)
	delete(r.selections, identityID)
	return len(r.participants)
}

func (r *Room) HasParticipant(identityID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.participants[identityID]
	return ok
}

func (r *Room) ParticipantCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.participants)
}

// ApplyEdit overwrites the document text. Deliberately last-writer-wins:
// no merge, no server-side version enforcement.
func (r *Room) ApplyEdit(code string, editor models.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.code = code
	r.lastModified = time.Now()
	r.lastModifiedBy = editor.ID
}

func (r *Room) SetCursor(identity models.Identity, position interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursors[identity.ID] = models.CursorMark{
		Position:  position,
		User:      identity,
		Timestamp: time.Now(),
	}
}

func (r *Room) SetSelection(identity models.Identity, selection interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selections[identity.ID] = models.SelectionMark{
		Selection: selection,
		User:      identity,
		Timestamp: time.Now(),
	}
}

// Broadcast delivers a frame to every participant except excludeIdentityID.
// Pass an empty id to reach the whole room.
func (r *Room) Broadcast(excludeIdentityID string, frame models.WSFrame) {
	r.mu.Lock()
	targets := make([]*Client, 0, len(r.participants))
	for id, p := range r.participants {
		if id == excludeIdentityID {
			continue
		}
		targets = append(targets, p.client)
	}
	r.mu.Unlock()
	for _, c := range targets {
		c.Send(frame)
	}
}

func (r *Room) State() models.CollaborationState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stateLocked()
}

func (r *Room) Listing() models.RoomListing {
	r.mu.Lock()
	defer r.mu.Unlock()
	return models.RoomListing{
		ID:               r.ID,
		ParticipantCount: len(r.participants),
		Language:         r.language,
		CreatedAt:        r.createdAt,
		LastModified:     r.lastModified,
	}
}

func (r *Room) stateLocked() models.CollaborationState {
	participants := make([]models.Identity, 0, len(r.participants))
	for _, p := range r.participants {
		participants = append(participants, p.client.Identity)
	}
	cursors := make(map[string]models.CursorMark, len(r.cursors))
	for id, m := range r.cursors {
		cursors[id] = m
	}
	selections := make(map[string]models.SelectionMark, len(r.selections))
	for id, m := range r.selections {
		selections[id] = m
	}
	return models.CollaborationState{
		Code:         r.code,
		Language:     r.language,
		Participants: participants,
		Cursors:      cursors,
		Selections:   selections,
	}
}
