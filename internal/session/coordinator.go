package session

import (
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/MasoodZaf/Seek-sub004/internal/metrics"
	"github.com/MasoodZaf/Seek-sub004/internal/models"
)

// Coordinator owns the per-connection lifecycle: register and announce the
// connection, pump its events through the router, and on transport close
// walk every room the identity belonged to so collaborators are never left
// a stale participant entry. Credential verification has already happened
// by the time a connection reaches the coordinator; unauthenticated
// connections are rejected before the upgrade.
type Coordinator struct {
	registry *Registry
	hub      *Hub
	router   *Router
	log      *zap.Logger
}

func NewCoordinator(registry *Registry, hub *Hub, router *Router, log *zap.Logger) *Coordinator {
	return &Coordinator{registry: registry, hub: hub, router: router, log: log}
}

// HandleConnection runs the connection until its transport closes. Events
// are processed inline, preserving per-connection FIFO order.
func (co *Coordinator) HandleConnection(conn *websocket.Conn, identity models.Identity) {
	c := NewClient(conn, identity)
	co.connect(c)
	defer co.disconnect(c)

	for {
		var frame models.InboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		co.router.HandleFrame(c, frame)
	}
}

func (co *Coordinator) connect(c *Client) {
	co.registry.Register(c)
	metrics.ConnectionOpened()
	co.registry.BroadcastPresence(c.Identity.ID, "online")
	co.log.Info("user connected",
		zap.String("username", c.Identity.Username),
		zap.String("connectionId", c.ID))
}

// disconnect mirrors the explicit leave-collaboration path for every room
// the identity was in: one user-left broadcast per room, empty rooms
// destroyed, then the registry entry removed and offline announced.
func (co *Coordinator) disconnect(c *Client) {
	for _, room := range co.hub.RoomsFor(c.Identity.ID) {
		remaining, ok := co.hub.Leave(room.ID, c.Identity.ID)
		if !ok || remaining == 0 {
			continue
		}
		room.Broadcast(c.Identity.ID, models.WSFrame{
			Type: models.FrameUserLeft,
			Data: models.RoomNotice{User: c.Identity, ParticipantCount: remaining},
		})
	}

	if _, ok := co.registry.Unregister(c.ID); ok {
		metrics.ConnectionClosed()
		co.registry.BroadcastPresence(c.Identity.ID, "offline")
	}
	co.log.Info("user disconnected",
		zap.String("username", c.Identity.Username),
		zap.String("connectionId", c.ID))
}
