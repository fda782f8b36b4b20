package middleware

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/permkit/auth"
	"github.com/kbukum/permkit/logger"
	"github.com/kbukum/permkit/permission"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testMatrix = permission.Matrix[string, string]{
	"resourceA": {
		"ADMIN":         permission.LevelAdmin,
		"AUTHENTICATED": permission.LevelView,
	},
	"adminPanel": {
		"GUEST": permission.LevelNone,
	},
}

func newTestEngine(t *testing.T, matrix permission.MatrixProvider[string, string]) *permission.Engine[string, string] {
	t.Helper()
	resolver := auth.NewContextResolver("")
	engine, err := permission.New(permission.Options[string, string]{
		Matrix:   matrix,
		Classes:  resolver,
		Identity: resolver,
		Overrides: permission.MapOverrides(map[string]map[string]permission.Level{
			"u1": {"adminPanel": permission.LevelAdmin},
		}),
		Logger: logger.NewWriter(io.Discard, "authz"),
	})
	if err != nil {
		t.Fatalf("building engine: %v", err)
	}
	return engine
}

func newTestService(t *testing.T) *auth.Service {
	t.Helper()
	svc, err := auth.NewService(auth.Config{Secret: "test-secret"})
	if err != nil {
		t.Fatalf("building auth service: %v", err)
	}
	return svc
}

func newTestRouter(t *testing.T, engine *permission.Engine[string, string], svc *auth.Service) *gin.Engine {
	t.Helper()
	router := gin.New()
	router.Use(RequestID())
	router.Use(Recovery())
	router.Use(Auth(AuthConfig{Validator: svc.ValidatorFunc(), Optional: true}))

	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	router.GET("/resourceA", RequireLevel(engine, "resourceA", permission.LevelView), ok)
	router.GET("/admin", RequireLevel(engine, "adminPanel", permission.LevelAdmin), ok)
	router.GET("/boom", func(*gin.Context) { panic("kaboom") })
	return router
}

func bearerToken(t *testing.T, svc *auth.Service, subject, class string) string {
	t.Helper()
	token, err := svc.Generate(&auth.AccessClaims{
		RegisteredClaims: gojwt.RegisteredClaims{Subject: subject},
		Class:            class,
	})
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	return "Bearer " + token
}

func doRequest(router *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAnonymousDeniedByMatrix(t *testing.T) {
	engine := newTestEngine(t, permission.StaticMatrixProvider(testMatrix))
	svc := newTestService(t)
	router := newTestRouter(t, engine, svc)

	w := doRequest(router, "/resourceA", "")
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for anonymous caller, got %d", w.Code)
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Error.Code != "FORBIDDEN" {
		t.Errorf("expected FORBIDDEN body, got %q", body.Error.Code)
	}
}

func TestAuthenticatedAllowed(t *testing.T) {
	engine := newTestEngine(t, permission.StaticMatrixProvider(testMatrix))
	svc := newTestService(t)
	router := newTestRouter(t, engine, svc)

	w := doRequest(router, "/resourceA", bearerToken(t, svc, "u9", "AUTHENTICATED"))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for AUTHENTICATED caller, got %d", w.Code)
	}
}

func TestOverrideGrantsAdminPanel(t *testing.T) {
	engine := newTestEngine(t, permission.StaticMatrixProvider(testMatrix))
	svc := newTestService(t)
	router := newTestRouter(t, engine, svc)

	// u1 carries a GUEST class; only the override grants adminPanel.
	w := doRequest(router, "/admin", bearerToken(t, svc, "u1", "GUEST"))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 via override, got %d", w.Code)
	}

	w = doRequest(router, "/admin", bearerToken(t, svc, "u2", "GUEST"))
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 without override, got %d", w.Code)
	}
}

func TestInvalidTokenRejected(t *testing.T) {
	engine := newTestEngine(t, permission.StaticMatrixProvider(testMatrix))
	svc := newTestService(t)
	router := newTestRouter(t, engine, svc)

	w := doRequest(router, "/resourceA", "Bearer not-a-token")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for invalid token, got %d", w.Code)
	}

	w = doRequest(router, "/resourceA", "Basic dXNlcjpwYXNz")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for non-Bearer scheme, got %d", w.Code)
	}
}

func TestRequiredAuthRejectsMissingHeader(t *testing.T) {
	svc := newTestService(t)
	router := gin.New()
	router.Use(Auth(AuthConfig{Validator: svc.ValidatorFunc()}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doRequest(router, "/x", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without Authorization header, got %d", w.Code)
	}
}

func TestAuthSkipPaths(t *testing.T) {
	svc := newTestService(t)
	router := gin.New()
	router.Use(Auth(AuthConfig{Validator: svc.ValidatorFunc(), SkipPaths: []string{"/health"}}))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doRequest(router, "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected skip path to bypass auth, got %d", w.Code)
	}
}

func TestCollaboratorFailureIsNotADeny(t *testing.T) {
	failing := permission.MatrixProviderFunc[string, string](func(context.Context) (permission.Matrix[string, string], error) {
		return nil, stderrors.New("store unreachable")
	})
	engine := newTestEngine(t, failing)
	svc := newTestService(t)
	router := newTestRouter(t, engine, svc)

	w := doRequest(router, "/resourceA", bearerToken(t, svc, "u9", "AUTHENTICATED"))
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502 for collaborator failure, got %d", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	engine := newTestEngine(t, permission.StaticMatrixProvider(testMatrix))
	svc := newTestService(t)
	router := newTestRouter(t, engine, svc)

	w := doRequest(router, "/resourceA", bearerToken(t, svc, "u9", "AUTHENTICATED"))
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("expected a generated X-Request-Id header")
	}

	req := httptest.NewRequest(http.MethodGet, "/resourceA", nil)
	req.Header.Set("Authorization", bearerToken(t, svc, "u9", "AUTHENTICATED"))
	req.Header.Set("X-Request-Id", "fixed-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-Id"); got != "fixed-id" {
		t.Errorf("expected the provided request id to be preserved, got %q", got)
	}
}

func TestRecovery(t *testing.T) {
	engine := newTestEngine(t, permission.StaticMatrixProvider(testMatrix))
	svc := newTestService(t)
	router := newTestRouter(t, engine, svc)

	w := doRequest(router, "/boom", "")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 from recovered panic, got %d", w.Code)
	}
}
