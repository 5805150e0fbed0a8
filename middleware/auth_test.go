package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/webcore/core/auth"
	"github.com/taskhub/webcore/core/session"
	"github.com/taskhub/webcore/middleware"
)

// staticUserStore serves a fixed user set without a database.
type staticUserStore struct {
	users map[uuid.UUID]*auth.User
}

func (s *staticUserStore) FindUser(_ context.Context, id uuid.UUID) (*auth.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, nil
}

func (s *staticUserStore) FindUserByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type staticPermissionStore struct {
	perms map[uuid.UUID][]string
}

func (s *staticPermissionStore) PermissionsFor(_ context.Context, userID uuid.UUID) ([]string, error) {
	return s.perms[userID], nil
}

type authStack struct {
	*stack
	guard *auth.Guard
	user  *auth.User
}

func newAuthStack(t *testing.T, perms []string) *authStack {
	t.Helper()

	st := newStack(t)
	user := &auth.User{
		ID:     uuid.New(),
		Email:  "alice@example.com",
		Name:   "Alice",
		Active: true,
	}

	guard := auth.New(st.manager,
		&staticUserStore{users: map[uuid.UUID]*auth.User{user.ID: user}},
		&staticPermissionStore{perms: map[uuid.UUID][]string{user.ID: perms}},
		auth.WithActivityTimeout(15*time.Minute),
	)

	return &authStack{stack: st, guard: guard, user: user}
}

// loginCookie seeds an authenticated session directly in the store and
// returns its cookie.
func (st *authStack) loginCookie(t *testing.T, lastActivity time.Time) *http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := st.transport.Load(r)
	require.NoError(t, err)

	sess.UserID = st.user.ID
	sess.SetData(session.Data{
		Version:      session.DataVersion,
		User:         &session.UserSnapshot{ID: st.user.ID, Email: st.user.Email, Name: st.user.Name},
		LastActivity: lastActivity,
	})
	require.NoError(t, st.transport.Save(w, r, &sess))
	return findSessionCookie(t, w)
}

func requireAuthHandler(st *authStack, reached *bool) http.Handler {
	return middleware.Chain(
		middleware.Session(st.transport),
		middleware.RequireAuth(middleware.AuthConfig{Guard: st.guard, Policy: st.policy}),
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*reached = true
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	t.Run("anonymous visitor is redirected to login", func(t *testing.T) {
		t.Parallel()

		st := newAuthStack(t, nil)
		var reached bool
		handler := requireAuthHandler(st, &reached)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		assert.False(t, reached)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))

		// The anonymous session carries the sign-in prompt.
		r2 := httptest.NewRequest(http.MethodGet, "/login", nil)
		r2.AddCookie(findSessionCookie(t, w))
		sess, err := st.transport.Load(r2)
		require.NoError(t, err)
		assert.Contains(t, sess.Data.Flash.Error, "sign in")
	})

	t.Run("authenticated principal passes", func(t *testing.T) {
		t.Parallel()

		st := newAuthStack(t, nil)
		var reached bool
		handler := requireAuthHandler(st, &reached)

		r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		r.AddCookie(st.loginCookie(t, time.Now()))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.True(t, reached)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("idle session is destroyed and redirected with a distinct message", func(t *testing.T) {
		t.Parallel()

		st := newAuthStack(t, nil)
		var reached bool
		handler := requireAuthHandler(st, &reached)

		r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		r.AddCookie(st.loginCookie(t, time.Now().Add(-time.Hour)))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.False(t, reached)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))

		// The destroyed session's successor carries the timeout message.
		r2 := httptest.NewRequest(http.MethodGet, "/login", nil)
		r2.AddCookie(findSessionCookie(t, w))
		sess, err := st.transport.Load(r2)
		require.NoError(t, err)
		assert.Contains(t, sess.Data.Flash.Error, "inactivity")
		assert.False(t, sess.IsAuthenticated())
	})

	t.Run("deactivated account is signed out", func(t *testing.T) {
		t.Parallel()

		st := newAuthStack(t, nil)
		st.user.Active = false
		var reached bool
		handler := requireAuthHandler(st, &reached)

		r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		r.AddCookie(st.loginCookie(t, time.Now()))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.False(t, reached)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})
}

func TestRequirePermission(t *testing.T) {
	t.Parallel()

	permHandler := func(st *authStack, reached *bool, mw middleware.Middleware) http.Handler {
		return middleware.Chain(middleware.Session(st.transport), mw)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				*reached = true
				w.WriteHeader(http.StatusOK)
			}))
	}

	t.Run("granted permission passes", func(t *testing.T) {
		t.Parallel()

		st := newAuthStack(t, []string{"project:write"})
		var reached bool
		handler := permHandler(st, &reached,
			middleware.RequirePermission(middleware.AuthConfig{Guard: st.guard, Policy: st.policy}, "project:write"))

		r := httptest.NewRequest(http.MethodPost, "/projects", nil)
		r.AddCookie(st.loginCookie(t, time.Now()))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.True(t, reached)
	})

	t.Run("missing permission redirects to the default page", func(t *testing.T) {
		t.Parallel()

		st := newAuthStack(t, []string{"project:read"})
		var reached bool
		handler := permHandler(st, &reached,
			middleware.RequirePermission(middleware.AuthConfig{Guard: st.guard, Policy: st.policy}, "admin"))

		r := httptest.NewRequest(http.MethodPost, "/admin", nil)
		r.AddCookie(st.loginCookie(t, time.Now()))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.False(t, reached)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	})

	t.Run("anonymous visitor goes to login, not the default page", func(t *testing.T) {
		t.Parallel()

		st := newAuthStack(t, nil)
		var reached bool
		handler := permHandler(st, &reached,
			middleware.RequirePermission(middleware.AuthConfig{Guard: st.guard, Policy: st.policy}, "admin"))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

		assert.False(t, reached)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})

	t.Run("any and all variants", func(t *testing.T) {
		t.Parallel()

		st := newAuthStack(t, []string{"project:read", "task:write"})

		var reachedAny bool
		anyHandler := permHandler(st, &reachedAny,
			middleware.RequireAnyPermission(middleware.AuthConfig{Guard: st.guard, Policy: st.policy}, "admin", "task:write"))

		r := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		r.AddCookie(st.loginCookie(t, time.Now()))
		anyHandler.ServeHTTP(httptest.NewRecorder(), r)
		assert.True(t, reachedAny)

		var reachedAll bool
		allHandler := permHandler(st, &reachedAll,
			middleware.RequireAllPermissions(middleware.AuthConfig{Guard: st.guard, Policy: st.policy}, "project:read", "admin"))

		r2 := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		r2.AddCookie(st.loginCookie(t, time.Now()))

		w := httptest.NewRecorder()
		allHandler.ServeHTTP(w, r2)
		assert.False(t, reachedAll)
		assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	})
}
