package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/MasoodZaf/Seek-sub004/internal/auth"
	"github.com/MasoodZaf/Seek-sub004/internal/metrics"
	"github.com/MasoodZaf/Seek-sub004/internal/models"
	"github.com/MasoodZaf/Seek-sub004/internal/session"
	"github.com/MasoodZaf/Seek-sub004/internal/utils"
)

// CredentialVerifier is what the WS handler needs from the auth package.
type CredentialVerifier interface {
	Verify(ctx context.Context, raw string) (*models.Identity, error)
}

type Handlers struct {
	log         *zap.Logger
	verifier    CredentialVerifier
	registry    *session.Registry
	hub         *session.Hub
	coordinator *session.Coordinator
	upgrader    websocket.Upgrader
}

func NewHandlers(log *zap.Logger, verifier CredentialVerifier, registry *session.Registry, hub *session.Hub, coordinator *session.Coordinator) *Handlers {
	return &Handlers{
		log:         log,
		verifier:    verifier,
		registry:    registry,
		hub:         hub,
		coordinator: coordinator,
		upgrader:    websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok"))
}

// CollabWS authenticates the handshake and hands the connection to the
// lifecycle coordinator. Verification happens before the upgrade so a
// rejected attempt gets a plain 401 and never enters the registry.
func (h *Handlers) CollabWS(w http.ResponseWriter, r *http.Request) {
	token, err := auth.TokenFromRequest(r)
	if err != nil {
		metrics.AuthRejected()
		utils.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	identity, err := h.verifier.Verify(ctx, token)
	cancel()
	if err != nil {
		metrics.AuthRejected()
		h.log.Warn("rejected connection attempt", zap.Error(err))
		utils.JSONError(w, http.StatusUnauthorized, authMessage(err))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	h.coordinator.HandleConnection(conn, *identity)
}

// Admin surface, consumed by the platform's management API.

func (h *Handlers) ListConnections(w http.ResponseWriter, _ *http.Request) {
	utils.JSON(w, http.StatusOK, h.registry.Snapshot())
}

func (h *Handlers) ListRooms(w http.ResponseWriter, _ *http.Request) {
	utils.JSON(w, http.StatusOK, h.hub.Snapshot())
}

type announceRequest struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

func (h *Handlers) Announce(w http.ResponseWriter, r *http.Request) {
	var req announceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		utils.JSONError(w, http.StatusBadRequest, "message is required")
		return
	}
	if req.Type == "" {
		req.Type = "info"
	}

	h.registry.BroadcastAll(models.WSFrame{
		Type: models.FrameSystemAnnouncement,
		Data: models.SystemAnnouncement{Message: req.Message, Type: req.Type, Timestamp: time.Now()},
	})
	utils.JSON(w, http.StatusOK, map[string]string{"status": "announced"})
}

type kickRequest struct {
	UserID string `json:"userId"`
	Reason string `json:"reason,omitempty"`
}

func (h *Handlers) Kick(w http.ResponseWriter, r *http.Request) {
	var req kickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		utils.JSONError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if req.Reason == "" {
		req.Reason = "disconnected by administrator"
	}

	if !h.registry.ForceDisconnect(req.UserID, req.Reason) {
		utils.JSONError(w, http.StatusNotFound, "user has no live connection")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "disconnected"})
}

func authMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, auth.ErrMissingCredential):
		return "authentication required"
	case errors.Is(err, auth.ErrUnknownSubject):
		return "user session expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		return "token revoked"
	default:
		return "invalid token"
	}
}
