package models

import (
	"encoding/json"
	"time"
)

// Identity is the authenticated user snapshot attached to a connection.
// Resolved once at connect time and immutable afterwards.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type WSFrame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// InboundFrame keeps the payload raw so each handler can decode it into its
// own typed struct and reject it when required fields are missing.
type InboundFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

/*** Inbound event types ***/

const (
	EventJoinCollaboration  = "join-collaboration"
	EventLeaveCollaboration = "leave-collaboration"
	EventCodeChange         = "code-change"
	EventCursorMove         = "cursor-move"
	EventSelectionChange    = "selection-change"
	EventStartExecution     = "start-execution"
	EventExecutionResult    = "execution-result"
	EventSendMessage        = "send-message"
	EventTypingStart        = "typing-start"
	EventTypingStop         = "typing-stop"
	EventUserActivity       = "user-activity"
	EventShareCode          = "share-code"
	EventRequestHelp        = "request-help"
	EventAchievementEarned  = "achievement-earned"
	EventChallengeCompleted = "challenge-completed"
)

/*** Outbound frame types ***/

const (
	FrameCollaborationState = "collaboration-state"
	FrameUserJoined         = "user-joined"
	FrameUserLeft           = "user-left"
	FrameCodeChanged        = "code-changed"
	FrameCursorMoved        = "cursor-moved"
	FrameSelectionChanged   = "selection-changed"
	FrameExecutionStarted   = "execution-started"
	FrameExecutionCompleted = "execution-completed"
	FrameMessageReceived    = "message-received"
	FrameGlobalMessage      = "global-message"
	FrameUserTyping         = "user-typing"
	FrameUserStatusChange   = "user-status-change"
	FrameUserActivityUpdate = "user-activity-update"
	FrameCodeShared         = "code-shared"
	FrameHelpRequested      = "help-requested"
	FrameAchievementEarned  = "achievement-earned"
	FrameChallengeCompleted = "challenge-completed"
	FrameForceDisconnect    = "force-disconnect"
	FrameSystemAnnouncement = "system-announcement"
	FrameError              = "error"
)

/*** Inbound payloads ***/

type JoinCollaboration struct {
	SessionID string `json:"sessionId"`
	Language  string `json:"language"`
}

type LeaveCollaboration struct {
	SessionID string `json:"sessionId"`
}

type CodeChange struct {
	SessionID string      `json:"sessionId"`
	Code      string      `json:"code"`
	Delta     interface{} `json:"delta,omitempty"`
	Version   int64       `json:"version"`
}

type CursorMove struct {
	SessionID string      `json:"sessionId"`
	Position  interface{} `json:"position"`
}

type SelectionChange struct {
	SessionID string      `json:"sessionId"`
	Selection interface{} `json:"selection"`
}

type StartExecution struct {
	SessionID string `json:"sessionId"`
	Language  string `json:"language"`
}

type ExecutionResult struct {
	SessionID     string      `json:"sessionId"`
	Result        interface{} `json:"result"`
	Success       bool        `json:"success"`
	ExecutionTime float64     `json:"executionTime"`
}

// SendMessage is room-scoped when SessionID is set, otherwise global.
type SendMessage struct {
	SessionID string `json:"sessionId,omitempty"`
	Message   string `json:"message"`
	Type      string `json:"type,omitempty"`
}

type TypingIndicator struct {
	SessionID string `json:"sessionId"`
}

type UserActivity struct {
	Activity string      `json:"activity"`
	Metadata interface{} `json:"metadata,omitempty"`
}

type ShareCode struct {
	Code        string `json:"code"`
	Language    string `json:"language"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Visibility  string `json:"visibility,omitempty"`
}

type RequestHelp struct {
	Code     string `json:"code,omitempty"`
	Language string `json:"language"`
	Problem  string `json:"problem"`
	Urgency  string `json:"urgency,omitempty"`
}

type AchievementEarned struct {
	AchievementID   string `json:"achievementId"`
	AchievementName string `json:"achievementName"`
	Points          int    `json:"points"`
}

type ChallengeCompleted struct {
	ChallengeID    string  `json:"challengeId"`
	ChallengeName  string  `json:"challengeName"`
	Difficulty     string  `json:"difficulty"`
	TimeToComplete float64 `json:"timeToComplete"`
	Score          float64 `json:"score"`
}

/*** Collaboration room state ***/

// CursorMark and SelectionMark are advisory display state; they never
// affect the document text.
type CursorMark struct {
	Position  interface{} `json:"position"`
	User      Identity    `json:"user"`
	Timestamp time.Time   `json:"timestamp"`
}

type SelectionMark struct {
	Selection interface{} `json:"selection"`
	User      Identity    `json:"user"`
	Timestamp time.Time   `json:"timestamp"`
}

// CollaborationState is the full room snapshot sent to a joining client.
type CollaborationState struct {
	Code         string                   `json:"code"`
	Language     string                   `json:"language"`
	Participants []Identity               `json:"participants"`
	Cursors      map[string]CursorMark    `json:"cursors"`
	Selections   map[string]SelectionMark `json:"selections"`
}

/*** Outbound payloads ***/

// RoomNotice backs both user-joined and user-left frames.
type RoomNotice struct {
	User             Identity `json:"user"`
	ParticipantCount int      `json:"participantCount"`
}

type CodeChanged struct {
	Code      string      `json:"code"`
	Delta     interface{} `json:"delta,omitempty"`
	Version   int64       `json:"version"`
	Author    Identity    `json:"author"`
	Timestamp time.Time   `json:"timestamp"`
}

type CursorMoved struct {
	UserID   string      `json:"userId"`
	Position interface{} `json:"position"`
	User     Identity    `json:"user"`
}

type SelectionChanged struct {
	UserID    string      `json:"userId"`
	Selection interface{} `json:"selection"`
	User      Identity    `json:"user"`
}

type ExecutionStarted struct {
	By        Identity  `json:"by"`
	Language  string    `json:"language"`
	Timestamp time.Time `json:"timestamp"`
}

type ExecutionCompleted struct {
	Result        interface{} `json:"result"`
	Success       bool        `json:"success"`
	ExecutionTime float64     `json:"executionTime"`
	By            Identity    `json:"by"`
	Timestamp     time.Time   `json:"timestamp"`
}

type ChatMessage struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Author    Identity  `json:"author"`
	Timestamp time.Time `json:"timestamp"`
}

type UserTyping struct {
	User   Identity `json:"user"`
	Typing bool     `json:"typing"`
}

type UserStatusChange struct {
	UserID    string    `json:"userId"`
	Status    string    `json:"status"` // "online" or "offline"
	Timestamp time.Time `json:"timestamp"`
}

type UserActivityUpdate struct {
	User      Identity    `json:"user"`
	Activity  string      `json:"activity"`
	Metadata  interface{} `json:"metadata,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type CodeShared struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Language    string    `json:"language"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Author      Identity  `json:"author"`
	Visibility  string    `json:"visibility"`
	CreatedAt   time.Time `json:"createdAt"`
}

type HelpRequested struct {
	ID        string    `json:"id"`
	Code      string    `json:"code,omitempty"`
	Language  string    `json:"language"`
	Problem   string    `json:"problem"`
	Urgency   string    `json:"urgency"`
	Requester Identity  `json:"requester"`
	CreatedAt time.Time `json:"createdAt"`
}

type Achievement struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

type AchievementNotice struct {
	User        Identity    `json:"user"`
	Achievement Achievement `json:"achievement"`
	Timestamp   time.Time   `json:"timestamp"`
}

type Challenge struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Difficulty     string  `json:"difficulty"`
	TimeToComplete float64 `json:"timeToComplete"`
	Score          float64 `json:"score"`
}

type ChallengeNotice struct {
	User      Identity  `json:"user"`
	Challenge Challenge `json:"challenge"`
	Timestamp time.Time `json:"timestamp"`
}

type ForceDisconnect struct {
	Reason string `json:"reason"`
}

type SystemAnnouncement struct {
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

/*** Admin/diagnostic listings ***/

// PublicPresence is one row of the connected-users snapshot.
type PublicPresence struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	ConnectedAt     time.Time `json:"connectedAt"`
	LastActivity    time.Time `json:"lastActivity"`
	CurrentActivity string    `json:"currentActivity,omitempty"`
}

type RoomListing struct {
	ID               string    `json:"id"`
	ParticipantCount int       `json:"participantCount"`
	Language         string    `json:"language"`
	CreatedAt        time.Time `json:"createdAt"`
	LastModified     time.Time `json:"lastModified"`
}
