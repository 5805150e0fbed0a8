package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskhub/webcore/core/cookie"
	"github.com/taskhub/webcore/core/csrf"
	"github.com/taskhub/webcore/core/secpolicy"
	"github.com/taskhub/webcore/core/session"
	"github.com/taskhub/webcore/core/sessiontransport"
)

// memSessionStore is an in-memory session.Store shared by the middleware
// tests.
type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]session.Session
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]session.Session)}
}

func (s *memSessionStore) Lookup(_ context.Context, id string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || time.Now().After(sess.ExpiresAt) {
		return nil, session.ErrNotFound
	}
	return &sess, nil
}

func (s *memSessionStore) Upsert(_ context.Context, sess *session.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *sess
	stored.LastAccessedAt = time.Now()
	stored.ExpiresAt = time.Now().Add(ttl)
	s.sessions[sess.ID] = stored
	return nil
}

func (s *memSessionStore) Touch(_ context.Context, id string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.LastAccessedAt = time.Now()
		sess.ExpiresAt = time.Now().Add(ttl)
		s.sessions[id] = sess
	}
	return nil
}

func (s *memSessionStore) Rotate(_ context.Context, oldID, newID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[oldID]; ok {
		delete(s.sessions, oldID)
		sess.ID = newID
		s.sessions[newID] = sess
	}
	return nil
}

func (s *memSessionStore) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *memSessionStore) DeleteExpired(_ context.Context) (int64, error) {
	return 0, nil
}

func (s *memSessionStore) get(id string) (session.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// memCSRFStore is an in-memory csrf.Store for the middleware tests.
type memCSRFStore struct {
	mu      sync.Mutex
	records map[string]csrf.Token
}

func newMemCSRFStore() *memCSRFStore {
	return &memCSRFStore{records: make(map[string]csrf.Token)}
}

func (s *memCSRFStore) Insert(_ context.Context, tok csrf.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[tok.Token] = tok
	return nil
}

func (s *memCSRFStore) Lookup(_ context.Context, token, sessionID string) (*csrf.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, ok := s.records[token]
	if !ok || tok.SessionID != sessionID || time.Now().After(tok.ExpiresAt) {
		return nil, csrf.ErrNotFoundOrExpired
	}
	return &tok, nil
}

func (s *memCSRFStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, token)
	return nil
}

func (s *memCSRFStore) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	now := time.Now()
	for k, tok := range s.records {
		if now.After(tok.ExpiresAt) {
			delete(s.records, k)
			n++
		}
	}
	return n, nil
}

// stack bundles the wired security components for a test server.
type stack struct {
	store     *memSessionStore
	csrfStore *memCSRFStore
	manager   *session.Manager
	transport *sessiontransport.Cookie
	policy    *secpolicy.Policy
	guard     *csrf.Guard
}

func newStack(t *testing.T) *stack {
	t.Helper()

	store := newMemSessionStore()
	csrfStore := newMemCSRFStore()

	cookies, err := cookie.New([]string{"test-secret-key-minimum-32-characters-long"})
	require.NoError(t, err)

	policy, err := secpolicy.New(secpolicy.Config{
		CookieName:      "taskhub_session",
		CookieSameSite:  "lax",
		SessionTTL:      time.Hour,
		ActivityTimeout: 15 * time.Minute,
		TouchInterval:   5 * time.Minute,
		CSRFLifetime:    time.Hour,
		CSRFTokenLength: 32,
		LoginPath:       "/login",
		DefaultPath:     "/dashboard",
		FallbackPath:    "/",
		Headers:         "balanced",
	})
	require.NoError(t, err)

	manager := session.NewManager(store)
	return &stack{
		store:     store,
		csrfStore: csrfStore,
		manager:   manager,
		transport: sessiontransport.NewCookie(manager, cookies, policy, nil),
		policy:    policy,
		guard:     csrf.New(csrfStore, csrf.WithRandFloat(func() float64 { return 1.0 })),
	}
}

func findSessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "taskhub_session" {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}
