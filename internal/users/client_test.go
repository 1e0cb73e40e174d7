package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/MasoodZaf/Seek-sub004/internal/models"
)

func newUserServer(t *testing.T, calls *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		switch r.URL.Path {
		case "/api/v1/users/user-1":
			json.NewEncoder(w).Encode(models.Identity{ID: "user-1", Username: "alice", Email: "alice@seek.dev"})
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestFindByIDSuccess(t *testing.T) {
	var calls int
	server := newUserServer(t, &calls)
	defer server.Close()

	client := NewClient(server.URL, nil, 0)
	identity, err := client.FindByID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.Username != "alice" {
		t.Fatalf("unexpected identity: %#v", identity)
	}
}

func TestFindByIDNotFound(t *testing.T) {
	var calls int
	server := newUserServer(t, &calls)
	defer server.Close()

	client := NewClient(server.URL, nil, 0)
	if _, err := client.FindByID(context.Background(), "gone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindByIDEmptyID(t *testing.T) {
	client := NewClient("http://localhost:0", nil, 0)
	if _, err := client.FindByID(context.Background(), ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindByIDUsesCache(t *testing.T) {
	var calls int
	server := newUserServer(t, &calls)
	defer server.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	client := NewClient(server.URL, rdb, 30*time.Second)
	ctx := context.Background()

	if _, err := client.FindByID(ctx, "user-1"); err != nil {
		t.Fatalf("first lookup failed: %v", err)
	}
	identity, err := client.FindByID(ctx, "user-1")
	if err != nil {
		t.Fatalf("second lookup failed: %v", err)
	}
	if identity.Username != "alice" {
		t.Fatalf("unexpected cached identity: %#v", identity)
	}
	if calls != 1 {
		t.Fatalf("expected cache hit to skip the user service, got %d calls", calls)
	}
}

func TestFindByIDCacheExpiry(t *testing.T) {
	var calls int
	server := newUserServer(t, &calls)
	defer server.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	client := NewClient(server.URL, rdb, time.Second)
	ctx := context.Background()

	if _, err := client.FindByID(ctx, "user-1"); err != nil {
		t.Fatalf("first lookup failed: %v", err)
	}
	mr.FastForward(2 * time.Second)
	if _, err := client.FindByID(ctx, "user-1"); err != nil {
		t.Fatalf("lookup after expiry failed: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected expired cache entry to refetch, got %d calls", calls)
	}
}
