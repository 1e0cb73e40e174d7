package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/MasoodZaf/Seek-sub004/internal/models"
)

func newCoordinatorFixture() (*Coordinator, *routerFixture) {
	f := newRouterFixture()
	co := NewCoordinator(f.registry, f.hub, f.router, zap.NewNop())
	return co, f
}

func TestConnectRegistersAndAnnouncesOnline(t *testing.T) {
	co, f := newCoordinatorFixture()
	_, peerCap := f.connect("u2")

	c, _ := newHookedClient("u1")
	co.connect(c)

	if f.registry.Count() != 2 {
		t.Fatalf("expected registered connection, got %d", f.registry.Count())
	}
	got := lastFrame(t, peerCap)
	if got.Type != models.FrameUserStatusChange {
		t.Fatalf("expected presence broadcast, got %#v", got)
	}
	if status := got.Data.(models.UserStatusChange); status.UserID != "u1" || status.Status != "online" {
		t.Fatalf("unexpected presence payload: %#v", status)
	}
}

func TestDisconnectCleansUpEveryRoom(t *testing.T) {
	co, f := newCoordinatorFixture()

	u1, _ := newHookedClient("u1")
	co.connect(u1)
	u2, u2Cap := f.connect("u2")

	// u1 alone in r1, with u2 in r2.
	f.router.HandleFrame(u1, frame(t, models.EventJoinCollaboration, models.JoinCollaboration{SessionID: "r1"}))
	f.router.HandleFrame(u1, frame(t, models.EventJoinCollaboration, models.JoinCollaboration{SessionID: "r2"}))
	f.router.HandleFrame(u2, frame(t, models.EventJoinCollaboration, models.JoinCollaboration{SessionID: "r2"}))
	u2Cap.reset()

	co.disconnect(u1)

	if _, ok := f.hub.Get("r1"); ok {
		t.Fatalf("r1 should be destroyed with its last participant")
	}
	room, ok := f.hub.Get("r2")
	if !ok {
		t.Fatalf("r2 should survive with u2 in it")
	}
	if room.HasParticipant("u1") {
		t.Fatalf("no residual participant entry may remain")
	}

	var left, offline int
	for _, fr := range u2Cap.list() {
		switch fr.Type {
		case models.FrameUserLeft:
			left++
			if data := fr.Data.(models.RoomNotice); data.User.ID != "u1" || data.ParticipantCount != 1 {
				t.Fatalf("unexpected user-left payload: %#v", data)
			}
		case models.FrameUserStatusChange:
			offline++
			if data := fr.Data.(models.UserStatusChange); data.Status != "offline" {
				t.Fatalf("expected offline status, got %#v", data)
			}
		}
	}
	if left != 1 {
		t.Fatalf("expected exactly one user-left per shared room, got %d", left)
	}
	if offline != 1 {
		t.Fatalf("expected exactly one offline presence broadcast, got %d", offline)
	}

	if f.registry.Count() != 1 {
		t.Fatalf("expected only u2 to remain registered, got %d", f.registry.Count())
	}
}

func TestDisconnectTwiceEmitsOneOfflineBroadcast(t *testing.T) {
	co, f := newCoordinatorFixture()
	u1, _ := newHookedClient("u1")
	co.connect(u1)
	_, peerCap := f.connect("u2")
	peerCap.reset()

	co.disconnect(u1)
	co.disconnect(u1)

	var offline int
	for _, fr := range peerCap.list() {
		if fr.Type == models.FrameUserStatusChange {
			offline++
		}
	}
	if offline != 1 {
		t.Fatalf("duplicate disconnect must not re-broadcast, got %d", offline)
	}
}

func TestHandleConnectionOverWebSocket(t *testing.T) {
	co, f := newCoordinatorFixture()
	upgrader := websocket.Upgrader{}
	done := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		co.HandleConnection(conn, identity("u1"))
		close(done)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}

	join := models.WSFrame{
		Type: models.EventJoinCollaboration,
		Data: models.JoinCollaboration{SessionID: "r1", Language: "python"},
	}
	if err := conn.WriteJSON(join); err != nil {
		t.Fatalf("write join: %v", err)
	}

	// The client's own online presence broadcast may arrive first.
	var reply models.WSFrame
	for i := 0; i < 3; i++ {
		if err := conn.ReadJSON(&reply); err != nil {
			t.Fatalf("read reply: %v", err)
		}
		if reply.Type == models.FrameCollaborationState {
			break
		}
	}
	if reply.Type != models.FrameCollaborationState {
		t.Fatalf("expected collaboration-state, got %#v", reply)
	}
	if f.registry.Count() != 1 {
		t.Fatalf("expected a registered connection")
	}

	conn.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("connection handler did not finish after close")
	}

	if f.registry.Count() != 0 {
		t.Fatalf("registry should be empty after disconnect")
	}
	if _, ok := f.hub.Get("r1"); ok {
		t.Fatalf("room should be cleaned up after disconnect")
	}
}
