package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/MasoodZaf/Seek-sub004/internal/models"
)

// Client is one live, authenticated connection. An identity may hold
// several clients at once (multiple tabs/devices).
type Client struct {
	ID          string
	Identity    models.Identity
	ConnectedAt time.Time

	mu              sync.Mutex
	conn            *websocket.Conn
	hook            func(models.WSFrame)
	lastActivity    time.Time
	currentActivity string
}

func NewClient(conn *websocket.Conn, identity models.Identity) *Client {
	now := time.Now()
	return &Client{
		ID:           uuid.NewString(),
		Identity:     identity,
		ConnectedAt:  now,
		conn:         conn,
		lastActivity: now,
	}
}

// SetSendHook replaces the default WebSocket sender (used in tests).
func (c *Client) SetSendHook(fn func(models.WSFrame)) {
	c.mu.Lock()
	c.hook = fn
	c.mu.Unlock()
}

// Send delivers a frame best-effort: a failed write is never retried and
// never surfaces to the caller, so one slow peer can't stall a broadcast.
func (c *Client) Send(frame models.WSFrame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hook != nil {
		c.hook(frame)
		return
	}
	if c.conn == nil {
		return
	}
	_ = c.conn.WriteJSON(frame)
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// Touch records activity on the connection. An empty label only bumps the
// timestamp.
func (c *Client) Touch(activity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastActivity = time.Now()
	if activity != "" {
		c.currentActivity = activity
	}
}

func (c *Client) Activity() (time.Time, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActivity, c.currentActivity
}
