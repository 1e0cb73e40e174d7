package session

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MasoodZaf/Seek-sub004/internal/metrics"
	"github.com/MasoodZaf/Seek-sub004/internal/models"
)

// Router dispatches inbound events from authenticated connections. Every
// payload is decoded into its typed struct and validated before any state
// is touched; malformed events come back as an error frame instead of
// silently degrading.
type Router struct {
	hub      *Hub
	registry *Registry
	log      *zap.Logger
}

func NewRouter(hub *Hub, registry *Registry, log *zap.Logger) *Router {
	return &Router{hub: hub, registry: registry, log: log}
}

// HandleFrame routes one inbound frame. Events from a single connection are
// handled inline on its read loop, so per-connection FIFO holds.
func (rt *Router) HandleFrame(c *Client, frame models.InboundFrame) {
	metrics.EventRouted(metricLabel(frame.Type))
	rt.registry.Touch(c.ID, "")

	switch frame.Type {
	case models.EventJoinCollaboration:
		rt.handleJoin(c, frame.Data)
	case models.EventLeaveCollaboration:
		rt.handleLeave(c, frame.Data)
	case models.EventCodeChange:
		rt.handleCodeChange(c, frame.Data)
	case models.EventCursorMove:
		rt.handleCursorMove(c, frame.Data)
	case models.EventSelectionChange:
		rt.handleSelectionChange(c, frame.Data)
	case models.EventStartExecution:
		rt.handleStartExecution(c, frame.Data)
	case models.EventExecutionResult:
		rt.handleExecutionResult(c, frame.Data)
	case models.EventSendMessage:
		rt.handleSendMessage(c, frame.Data)
	case models.EventTypingStart:
		rt.handleTyping(c, frame.Data, true)
	case models.EventTypingStop:
		rt.handleTyping(c, frame.Data, false)
	case models.EventUserActivity:
		rt.handleUserActivity(c, frame.Data)
	case models.EventShareCode:
		rt.handleShareCode(c, frame.Data)
	case models.EventRequestHelp:
		rt.handleRequestHelp(c, frame.Data)
	case models.EventAchievementEarned:
		rt.handleAchievementEarned(c, frame.Data)
	case models.EventChallengeCompleted:
		rt.handleChallengeCompleted(c, frame.Data)
	default:
		c.Send(errFrame("unknown_type"))
	}
}

func (rt *Router) handleJoin(c *Client, raw json.RawMessage) {
	var req models.JoinCollaboration
	if err := decode(raw, &req); err != nil || req.SessionID == "" {
		c.Send(errFrame("invalid_payload: join-collaboration requires sessionId"))
		return
	}

	room, state, count := rt.hub.Join(req.SessionID, req.Language, c)

	// Full snapshot to the joiner only, join notice to everyone else.
	c.Send(models.WSFrame{Type: models.FrameCollaborationState, Data: state})
	room.Broadcast(c.Identity.ID, models.WSFrame{
		Type: models.FrameUserJoined,
		Data: models.RoomNotice{User: c.Identity, ParticipantCount: count},
	})

	rt.log.Info("user joined collaboration session",
		zap.String("username", c.Identity.Username),
		zap.String("sessionId", req.SessionID))
}

func (rt *Router) handleLeave(c *Client, raw json.RawMessage) {
	var req models.LeaveCollaboration
	if err := decode(raw, &req); err != nil || req.SessionID == "" {
		c.Send(errFrame("invalid_payload: leave-collaboration requires sessionId"))
		return
	}

	room, ok := rt.hub.Get(req.SessionID)
	if !ok {
		return
	}
	remaining, _ := rt.hub.Leave(req.SessionID, c.Identity.ID)
	if remaining == 0 {
		rt.log.Info("collaboration session cleaned up", zap.String("sessionId", req.SessionID))
		return
	}
	room.Broadcast(c.Identity.ID, models.WSFrame{
		Type: models.FrameUserLeft,
		Data: models.RoomNotice{User: c.Identity, ParticipantCount: remaining},
	})
}

func (rt *Router) handleCodeChange(c *Client, raw json.RawMessage) {
	var req models.CodeChange
	if err := decode(raw, &req); err != nil || req.SessionID == "" {
		c.Send(errFrame("invalid_payload: code-change requires sessionId"))
		return
	}

	room, ok := rt.hub.Get(req.SessionID)
	if !ok {
		return
	}
	room.ApplyEdit(req.Code, c.Identity)
	// The sender applies its own edit locally; rebroadcast to everyone else.
	room.Broadcast(c.Identity.ID, models.WSFrame{
		Type: models.FrameCodeChanged,
		Data: models.CodeChanged{
			Code:      req.Code,
			Delta:     req.Delta,
			Version:   req.Version,
			Author:    c.Identity,
			Timestamp: time.Now(),
		},
	})
}

func (rt *Router) handleCursorMove(c *Client, raw json.RawMessage) {
	var req models.CursorMove
	if err := decode(raw, &req); err != nil || req.SessionID == "" {
		c.Send(errFrame("invalid_payload: cursor-move requires sessionId"))
		return
	}

	room, ok := rt.hub.Get(req.SessionID)
	if !ok {
		return
	}
	room.SetCursor(c.Identity, req.Position)
	room.Broadcast(c.Identity.ID, models.WSFrame{
		Type: models.FrameCursorMoved,
		Data: models.CursorMoved{UserID: c.Identity.ID, Position: req.Position, User: c.Identity},
	})
}

func (rt *Router) handleSelectionChange(c *Client, raw json.RawMessage) {
	var req models.SelectionChange
	if err := decode(raw, &req); err != nil || req.SessionID == "" {
		c.Send(errFrame("invalid_payload: selection-change requires sessionId"))
		return
	}

	room, ok := rt.hub.Get(req.SessionID)
	if !ok {
		return
	}
	room.SetSelection(c.Identity, req.Selection)
	room.Broadcast(c.Identity.ID, models.WSFrame{
		Type: models.FrameSelectionChanged,
		Data: models.SelectionChanged{UserID: c.Identity.ID, Selection: req.Selection, User: c.Identity},
	})
}

func (rt *Router) handleStartExecution(c *Client, raw json.RawMessage) {
	var req models.StartExecution
	if err := decode(raw, &req); err != nil || req.SessionID == "" {
		c.Send(errFrame("invalid_payload: start-execution requires sessionId"))
		return
	}

	room, ok := rt.hub.Get(req.SessionID)
	if !ok {
		return
	}
	room.Broadcast(c.Identity.ID, models.WSFrame{
		Type: models.FrameExecutionStarted,
		Data: models.ExecutionStarted{By: c.Identity, Language: req.Language, Timestamp: time.Now()},
	})
}

func (rt *Router) handleExecutionResult(c *Client, raw json.RawMessage) {
	var req models.ExecutionResult
	if err := decode(raw, &req); err != nil || req.SessionID == "" {
		c.Send(errFrame("invalid_payload: execution-result requires sessionId"))
		return
	}

	room, ok := rt.hub.Get(req.SessionID)
	if !ok {
		return
	}
	room.Broadcast(c.Identity.ID, models.WSFrame{
		Type: models.FrameExecutionCompleted,
		Data: models.ExecutionCompleted{
			Result:        req.Result,
			Success:       req.Success,
			ExecutionTime: req.ExecutionTime,
			By:            c.Identity,
			Timestamp:     time.Now(),
		},
	})
}

func (rt *Router) handleSendMessage(c *Client, raw json.RawMessage) {
	var req models.SendMessage
	if err := decode(raw, &req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.Send(errFrame("invalid_payload: send-message requires message"))
		return
	}
	if req.Type == "" {
		req.Type = "text"
	}

	msg := models.ChatMessage{
		ID:        uuid.NewString(),
		Message:   req.Message,
		Type:      req.Type,
		Author:    c.Identity,
		Timestamp: time.Now(),
	}

	if req.SessionID != "" {
		room, ok := rt.hub.Get(req.SessionID)
		if !ok {
			return
		}
		// Whole room including the sender, so its own message renders
		// through the same path.
		room.Broadcast("", models.WSFrame{Type: models.FrameMessageReceived, Data: msg})
		return
	}
	rt.registry.BroadcastAll(models.WSFrame{Type: models.FrameGlobalMessage, Data: msg})
}

func (rt *Router) handleTyping(c *Client, raw json.RawMessage, typing bool) {
	var req models.TypingIndicator
	if err := decode(raw, &req); err != nil || req.SessionID == "" {
		c.Send(errFrame("invalid_payload: typing indicator requires sessionId"))
		return
	}

	room, ok := rt.hub.Get(req.SessionID)
	if !ok {
		return
	}
	room.Broadcast(c.Identity.ID, models.WSFrame{
		Type: models.FrameUserTyping,
		Data: models.UserTyping{User: c.Identity, Typing: typing},
	})
}

func (rt *Router) handleUserActivity(c *Client, raw json.RawMessage) {
	var req models.UserActivity
	if err := decode(raw, &req); err != nil || req.Activity == "" {
		c.Send(errFrame("invalid_payload: user-activity requires activity"))
		return
	}

	rt.registry.Touch(c.ID, req.Activity)
	rt.registry.Broadcast(c.ID, models.WSFrame{
		Type: models.FrameUserActivityUpdate,
		Data: models.UserActivityUpdate{
			User:      c.Identity,
			Activity:  req.Activity,
			Metadata:  req.Metadata,
			Timestamp: time.Now(),
		},
	})
}

func (rt *Router) handleShareCode(c *Client, raw json.RawMessage) {
	var req models.ShareCode
	if err := decode(raw, &req); err != nil || req.Code == "" || req.Title == "" {
		c.Send(errFrame("invalid_payload: share-code requires code and title"))
		return
	}
	if req.Visibility == "" {
		req.Visibility = "public"
	}
	// Only public shares fan out; other visibilities have no audience here.
	if req.Visibility != "public" {
		return
	}

	rt.registry.Broadcast(c.ID, models.WSFrame{
		Type: models.FrameCodeShared,
		Data: models.CodeShared{
			ID:          uuid.NewString(),
			Code:        req.Code,
			Language:    req.Language,
			Title:       req.Title,
			Description: req.Description,
			Author:      c.Identity,
			Visibility:  req.Visibility,
			CreatedAt:   time.Now(),
		},
	})
}

func (rt *Router) handleRequestHelp(c *Client, raw json.RawMessage) {
	var req models.RequestHelp
	if err := decode(raw, &req); err != nil || req.Problem == "" {
		c.Send(errFrame("invalid_payload: request-help requires problem"))
		return
	}
	if req.Urgency == "" {
		req.Urgency = "normal"
	}

	rt.registry.Broadcast(c.ID, models.WSFrame{
		Type: models.FrameHelpRequested,
		Data: models.HelpRequested{
			ID:        uuid.NewString(),
			Code:      req.Code,
			Language:  req.Language,
			Problem:   req.Problem,
			Urgency:   req.Urgency,
			Requester: c.Identity,
			CreatedAt: time.Now(),
		},
	})
}

func (rt *Router) handleAchievementEarned(c *Client, raw json.RawMessage) {
	var req models.AchievementEarned
	if err := decode(raw, &req); err != nil || req.AchievementID == "" {
		c.Send(errFrame("invalid_payload: achievement-earned requires achievementId"))
		return
	}

	rt.registry.Broadcast(c.ID, models.WSFrame{
		Type: models.FrameAchievementEarned,
		Data: models.AchievementNotice{
			User: c.Identity,
			Achievement: models.Achievement{
				ID:     req.AchievementID,
				Name:   req.AchievementName,
				Points: req.Points,
			},
			Timestamp: time.Now(),
		},
	})
}

func (rt *Router) handleChallengeCompleted(c *Client, raw json.RawMessage) {
	var req models.ChallengeCompleted
	if err := decode(raw, &req); err != nil || req.ChallengeID == "" {
		c.Send(errFrame("invalid_payload: challenge-completed requires challengeId"))
		return
	}

	rt.registry.Broadcast(c.ID, models.WSFrame{
		Type: models.FrameChallengeCompleted,
		Data: models.ChallengeNotice{
			User: c.Identity,
			Challenge: models.Challenge{
				ID:             req.ChallengeID,
				Name:           req.ChallengeName,
				Difficulty:     req.Difficulty,
				TimeToComplete: req.TimeToComplete,
				Score:          req.Score,
			},
			Timestamp: time.Now(),
		},
	})
}

// metricLabel keeps the routed-events label set closed: client-chosen
// strings outside the event catalogue all count as "unknown".
func metricLabel(event string) string {
	switch event {
	case models.EventJoinCollaboration,
		models.EventLeaveCollaboration,
		models.EventCodeChange,
		models.EventCursorMove,
		models.EventSelectionChange,
		models.EventStartExecution,
		models.EventExecutionResult,
		models.EventSendMessage,
		models.EventTypingStart,
		models.EventTypingStop,
		models.EventUserActivity,
		models.EventShareCode,
		models.EventRequestHelp,
		models.EventAchievementEarned,
		models.EventChallengeCompleted:
		return event
	}
	return "unknown"
}

func decode(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return json.Unmarshal([]byte("{}"), out)
	}
	return json.Unmarshal(raw, out)
}

func errFrame(msg string) models.WSFrame { return models.WSFrame{Type: models.FrameError, Data: msg} }
