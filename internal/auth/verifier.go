package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/MasoodZaf/Seek-sub004/internal/models"
)

// AccessTokenCookie is the cookie the web client stores its token in.
const AccessTokenCookie = "accessToken"

const denylistPrefix = "auth:revoked:"

var (
	ErrMissingCredential = errors.New("authentication required")
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenRevoked      = errors.New("token revoked")
	ErrUnknownSubject    = errors.New("user session expired")
)

// AccessTokenClaims mirrors the claims minted by the auth service.
type AccessTokenClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// Directory resolves a token subject to a current user identity.
type Directory interface {
	FindByID(ctx context.Context, id string) (*models.Identity, error)
}

// Verifier validates access tokens and resolves them to identities.
// It runs exactly once per connection, before the WebSocket upgrade.
type Verifier struct {
	secret   []byte
	users    Directory
	denylist *redis.Client
}

// NewVerifier builds a Verifier. denylist may be nil, in which case the
// revocation check is skipped.
func NewVerifier(secret []byte, users Directory, denylist *redis.Client) *Verifier {
	return &Verifier{secret: secret, users: users, denylist: denylist}
}

// TokenFromRequest extracts the raw token from the handshake request:
// cookie first, Authorization header as fallback.
func TokenFromRequest(r *http.Request) (string, error) {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value, nil
	}
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") && len(header) > 7 {
		return header[7:], nil
	}
	return "", ErrMissingCredential
}

// Verify checks signature, expiry and revocation, then resolves the subject
// against the user directory.
func (v *Verifier) Verify(ctx context.Context, raw string) (*models.Identity, error) {
	if raw == "" {
		return nil, ErrMissingCredential
	}

	token, err := jwt.ParseWithClaims(raw, &AccessTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*AccessTokenClaims)
	if !ok || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	if v.denylist != nil {
		n, err := v.denylist.Exists(ctx, denylistPrefix+tokenDigest(raw)).Result()
		// A denylist outage must not take down collaboration; only a
		// positive hit rejects the token.
		if err == nil && n > 0 {
			return nil, ErrTokenRevoked
		}
	}

	identity, err := v.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownSubject, err)
	}
	return identity, nil
}

// RevokeKey returns the denylist key for a raw token, so the auth service
// and tests agree on the format.
func RevokeKey(raw string) string {
	return denylistPrefix + tokenDigest(raw)
}

func tokenDigest(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
