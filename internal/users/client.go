package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MasoodZaf/Seek-sub004/internal/models"
)

// ErrNotFound means the subject id no longer corresponds to an existing user.
var ErrNotFound = errors.New("user not found")

const cachePrefix = "users:identity:"

// Client looks up identities against the user service, with a short-lived
// Redis cache in front so repeated reconnects don't hammer it.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *redis.Client
	ttl     time.Duration
}

// NewClient builds a directory client. cache may be nil to disable caching.
func NewClient(baseURL string, cache *redis.Client, ttl time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
		cache:   cache,
		ttl:     ttl,
	}
}

func (c *Client) FindByID(ctx context.Context, id string) (*models.Identity, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	if c.cache != nil {
		if payload, err := c.cache.Get(ctx, cachePrefix+id).Result(); err == nil {
			var identity models.Identity
			if err := json.Unmarshal([]byte(payload), &identity); err == nil {
				return &identity, nil
			}
		}
	}

	url := fmt.Sprintf("%s/api/v1/users/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build user lookup request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call user service: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("user service returned status %d", resp.StatusCode)
	}

	var identity models.Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}
	if identity.ID == "" {
		return nil, ErrNotFound
	}

	if c.cache != nil {
		if payload, err := json.Marshal(identity); err == nil {
			c.cache.Set(ctx, cachePrefix+id, payload, c.ttl)
		}
	}

	return &identity, nil
}
