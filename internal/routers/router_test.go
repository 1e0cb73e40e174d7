package routers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/MasoodZaf/Seek-sub004/internal/api"
	"github.com/MasoodZaf/Seek-sub004/internal/models"
	"github.com/MasoodZaf/Seek-sub004/internal/session"
)

type rejectingVerifier struct{}

func (rejectingVerifier) Verify(context.Context, string) (*models.Identity, error) {
	return nil, http.ErrNoCookie
}

func newTestHandler() http.Handler {
	logger := zap.NewNop()
	registry := session.NewRegistry()
	hub := session.NewHub()
	router := session.NewRouter(hub, registry, logger)
	coordinator := session.NewCoordinator(registry, hub, router, logger)
	h := api.NewHandlers(logger, rejectingVerifier{}, registry, hub, coordinator)
	return New(h, []string{"*"})
}

func TestNewRouterHealthEndpoint(t *testing.T) {
	server := httptest.NewServer(newTestHandler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/healthz")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestNewRouterWSRequiresAuth(t *testing.T) {
	server := httptest.NewServer(newTestHandler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/ws/collab")
	if err != nil {
		t.Fatalf("ws request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestNewRouterAdminRoutes(t *testing.T) {
	server := httptest.NewServer(newTestHandler())
	defer server.Close()

	for _, path := range []string{"/api/v1/admin/connections", "/api/v1/admin/rooms"} {
		resp, err := http.Get(server.URL + path)
		if err != nil {
			t.Fatalf("request %s failed: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d", path, resp.StatusCode)
		}
	}
}
