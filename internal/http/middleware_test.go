package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/campus-reservations/internal/application"
	"github.com/example/campus-reservations/internal/booking"
)

func TestPrincipalFromHeaders(t *testing.T) {
	logger := discardLogger()

	probe := func(captured *application.Principal, called *bool) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*called = true
			principal, _ := PrincipalFromContext(r.Context())
			*captured = principal
			w.WriteHeader(http.StatusOK)
		})
	}

	t.Run("resolves identity and role", func(t *testing.T) {
		var principal application.Principal
		var called bool
		handler := PrincipalFromHeaders(logger)(probe(&principal, &called))

		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		req.Header.Set("X-User-ID", "guard-1")
		req.Header.Set("X-User-Role", "guard")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if !called {
			t.Fatal("expected the wrapped handler to run")
		}
		if principal.UserID != "guard-1" || principal.Role != booking.RoleGuard {
			t.Fatalf("unexpected principal: %+v", principal)
		}
	})

	t.Run("rejects requests without an identity", func(t *testing.T) {
		var principal application.Principal
		var called bool
		handler := PrincipalFromHeaders(logger)(probe(&principal, &called))

		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if called {
			t.Fatal("the wrapped handler must not run without an identity")
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("unknown roles fall back to student", func(t *testing.T) {
		var principal application.Principal
		var called bool
		handler := PrincipalFromHeaders(logger)(probe(&principal, &called))

		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		req.Header.Set("X-User-ID", "alice")
		req.Header.Set("X-User-Role", "wizard")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if principal.Role != booking.RoleStudent {
			t.Fatalf("expected student fallback, got %s", principal.Role)
		}
	})
}

func TestRequestLogger(t *testing.T) {
	var sawLogger bool
	handler := RequestLogger(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawLogger = LoggerFromContext(r.Context()) != nil
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !sawLogger {
		t.Fatal("expected a request scoped logger in the context")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouterMethodHandling(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPatch, "/rooms", "admin-1", "admin", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow == "" {
		t.Fatal("expected an Allow header on 405 responses")
	}

	rec = env.do(t, http.MethodGet, "/rooms/abc/unknown", "alice", "student", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown subresources, got %d", rec.Code)
	}
}
