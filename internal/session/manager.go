package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"expense-tracker/internal/domain"
)

const tokenBytes = 32

// Manager mints and resolves session tokens.
type Manager interface {
	Create(ctx context.Context, userID int64) (string, error)
	// Resolve returns ErrNotFound if the token is empty, unknown or expired.
	Resolve(ctx context.Context, token string) (int64, error)
	Destroy(ctx context.Context, token string) error
}

type manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// NewManager returns a Manager backed by store. A zero ttl keeps sessions
// until the store forgets them.
func NewManager(store Store, ttl time.Duration) Manager {
	return &manager{store: store, ttl: ttl, now: time.Now}
}

func (m *manager) Create(ctx context.Context, userID int64) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	sess := domain.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: m.now().UTC(),
	}
	if err := m.store.Save(ctx, sess, m.ttl); err != nil {
		return "", err
	}
	return token, nil
}

func (m *manager) Resolve(ctx context.Context, token string) (int64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, ErrNotFound
	}

	sess, err := m.store.Get(ctx, token)
	if err != nil {
		return 0, err
	}
	if sess.Expired(m.now(), m.ttl) {
		_ = m.store.Delete(ctx, token)
		return 0, ErrNotFound
	}
	return sess.UserID, nil
}

func (m *manager) Destroy(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return m.store.Delete(ctx, token)
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
