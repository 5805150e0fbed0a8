package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/webcore/middleware"
)

func TestSessionMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("hydrates and persists across requests", func(t *testing.T) {
		t.Parallel()

		st := newStack(t)
		handler := middleware.Session(st.transport)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := middleware.MustGetSession(r.Context())
			sess.FlashSuccess("welcome")
			w.WriteHeader(http.StatusOK)
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		c := findSessionCookie(t, w)

		// A second request with the cookie sees the persisted state.
		var flash string
		reader := middleware.Session(st.transport)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			flash = middleware.MustGetSession(r.Context()).Data.Flash.Success
		}))

		r2 := httptest.NewRequest(http.MethodGet, "/", nil)
		r2.AddCookie(c)
		reader.ServeHTTP(httptest.NewRecorder(), r2)

		assert.Equal(t, "welcome", flash)
	})

	t.Run("persists even when the handler writes nothing", func(t *testing.T) {
		t.Parallel()

		st := newStack(t)
		var sessID string
		handler := middleware.Session(st.transport)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := middleware.MustGetSession(r.Context())
			sess.MarkModified()
			sessID = sess.ID
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		_, ok := st.store.get(sessID)
		assert.True(t, ok, "session row persisted without a response write")
	})

	t.Run("persists before the first body write", func(t *testing.T) {
		t.Parallel()

		st := newStack(t)
		var persistedAtWrite bool
		var sessID string
		handler := middleware.Session(st.transport)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := middleware.MustGetSession(r.Context())
			sess.MarkModified()
			sessID = sess.ID

			_, _ = w.Write([]byte("page"))
			_, persistedAtWrite = st.store.get(sessID)
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.True(t, persistedAtWrite, "row visible as soon as the body starts")
		findSessionCookie(t, w)
	})

	t.Run("skip bypasses hydration", func(t *testing.T) {
		t.Parallel()

		st := newStack(t)
		handler := middleware.SessionWithConfig(middleware.SessionConfig{
			Transport: st.transport,
			Skip:      func(r *http.Request) bool { return r.URL.Path == "/healthz" },
		})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := middleware.GetSession(r.Context())
			assert.False(t, ok)
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("requires a transport", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() {
			middleware.SessionWithConfig(middleware.SessionConfig{})
		})
	})
}

func TestGetSession(t *testing.T) {
	t.Parallel()

	t.Run("absent from bare context", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		_, ok := middleware.GetSession(r.Context())
		assert.False(t, ok)
	})

	t.Run("must get panics outside the middleware", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Panics(t, func() {
			middleware.MustGetSession(r.Context())
		})
	})
}

func TestChain(t *testing.T) {
	t.Parallel()

	var order []string
	tag := func(name string) middleware.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := middleware.Chain(tag("outer"), tag("middle"), tag("inner"))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "middle", "inner", "handler"}, order)
}
