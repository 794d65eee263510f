package middleware_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Camille-Li-1022/demo-user-register-login/internal/domain"
	"github.com/Camille-Li-1022/demo-user-register-login/internal/token"
	"github.com/Camille-Li-1022/demo-user-register-login/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuthenticator struct {
	authenticate func(ctx context.Context, raw string) (*token.Claims, error)
}

func (f *fakeAuthenticator) Authenticate(ctx context.Context, raw string) (*token.Claims, error) {
	return f.authenticate(ctx, raw)
}

// newEngine protects GET /protected with the gate. The handler echoes the
// claims from context so we can assert they were set.
func newEngine(auth *fakeAuthenticator) *gin.Engine {
	r := gin.New()
	r.GET("/protected", middleware.Auth(auth, slog.Default()), func(c *gin.Context) {
		userID, _ := c.Get("userID")
		c.String(http.StatusOK, "%v %s", userID, c.GetString("email"))
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_MissingHeader_Returns401(t *testing.T) {
	w := doRequest(newEngine(&fakeAuthenticator{}), "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_NonBearerScheme_Returns401(t *testing.T) {
	w := doRequest(newEngine(&fakeAuthenticator{}), "Basic dXNlcjpwYXNz")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_InvalidToken_Returns401(t *testing.T) {
	auth := &fakeAuthenticator{
		authenticate: func(_ context.Context, _ string) (*token.Claims, error) {
			return nil, domain.ErrTokenInvalid
		},
	}
	w := doRequest(newEngine(auth), "Bearer not.a.jwt")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_CacheFault_Returns500(t *testing.T) {
	auth := &fakeAuthenticator{
		authenticate: func(_ context.Context, _ string) (*token.Claims, error) {
			return nil, errors.New("redis down")
		},
	}
	w := doRequest(newEngine(auth), "Bearer some.token.here")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestAuth_ValidToken_PassesAndSetsClaims(t *testing.T) {
	auth := &fakeAuthenticator{
		authenticate: func(_ context.Context, raw string) (*token.Claims, error) {
			if raw != "good-token" {
				return nil, domain.ErrTokenInvalid
			}
			return &token.Claims{UserID: 7, Email: "a@x.com"}, nil
		},
	}
	w := doRequest(newEngine(auth), "Bearer good-token")

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	want := fmt.Sprintf("%v %s", int64(7), "a@x.com")
	if got := w.Body.String(); got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}
