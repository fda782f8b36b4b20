package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/permkit/auth"
	"github.com/kbukum/permkit/permission"
)

const testYAML = `
base:
  name: "authz-service"
logging:
  level: "debug"
  format: "json"
auth:
  secret: "file-secret"
  issuer: "permkit-test"
permissions:
  anonymous_class: "GUEST"
  user_cache_ttl_seconds: 120
  matrix:
    resourceA:
      ADMIN: admin
      AUTHENTICATED: view
    adminPanel:
      GUEST: none
  overrides:
    u1:
      adminPanel: ADMIN
`

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func loadTestConfig(t *testing.T) *Config {
	t.Helper()
	path := writeConfigFile(t, testYAML)

	var cfg Config
	if err := Load("authz-service", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	return &cfg
}

func TestLoadFromYAML(t *testing.T) {
	cfg := loadTestConfig(t)

	if cfg.Base.Name != "authz-service" {
		t.Errorf("expected service name, got %q", cfg.Base.Name)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}
	if cfg.Auth.Secret != "file-secret" {
		t.Errorf("expected auth secret from file, got %q", cfg.Auth.Secret)
	}
	if cfg.Permissions.UserCacheTTLSeconds != 120 {
		t.Errorf("expected user TTL 120, got %d", cfg.Permissions.UserCacheTTLSeconds)
	}
	// Untouched sections pick up defaults.
	if cfg.Permissions.DefaultCacheTTLSeconds != 600 {
		t.Errorf("expected default cache TTL 600, got %d", cfg.Permissions.DefaultCacheTTLSeconds)
	}
	if cfg.Base.Environment != "development" {
		t.Errorf("expected development default, got %q", cfg.Base.Environment)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, testYAML)
	t.Setenv("AUTH_SECRET", "env-secret")

	var cfg Config
	if err := Load("authz-service", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Auth.Secret != "env-secret" {
		t.Errorf("expected env override, got %q", cfg.Auth.Secret)
	}
}

func TestBuildMatrix(t *testing.T) {
	cfg := loadTestConfig(t)

	matrix, err := cfg.Permissions.BuildMatrix()
	if err != nil {
		t.Fatalf("BuildMatrix failed: %v", err)
	}
	if got := matrix.Lookup("resourceA", "ADMIN"); got != permission.LevelAdmin {
		t.Errorf("expected ADMIN, got %q", got)
	}
	if got := matrix.Lookup("resourceA", "AUTHENTICATED"); got != permission.LevelView {
		t.Errorf("expected VIEW, got %q", got)
	}
	if got := matrix.Lookup("adminPanel", "GUEST"); got != permission.LevelNone {
		t.Errorf("expected NONE, got %q", got)
	}
}

func TestValidateRejectsUnknownLevelName(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.Permissions.Matrix["resourceA"]["ADMIN"] = "OWNER"

	if err := cfg.Validate(); err == nil {
		t.Error("expected validation to reject an unknown level name")
	}
}

func TestValidateRejectsMissingName(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.Base.Name = ""

	if err := cfg.Validate(); err == nil {
		t.Error("expected validation to reject a missing service name")
	}
}

func TestEngineFromConfig(t *testing.T) {
	cfg := loadTestConfig(t)

	engine, err := cfg.Engine()
	if err != nil {
		t.Fatalf("Engine failed: %v", err)
	}
	ctx := context.Background()

	// Anonymous caller: GUEST has no grant on resourceA.
	allowed, err := engine.Authorize(ctx, "resourceA", permission.LevelView)
	if err != nil {
		t.Fatalf("Authorize failed: %v", err)
	}
	if allowed {
		t.Error("expected anonymous caller to be denied")
	}

	// Authenticated caller gets the matrix VIEW grant.
	authed := auth.WithClaims(ctx, &auth.AccessClaims{
		RegisteredClaims: gojwt.RegisteredClaims{Subject: "u9"},
		Class:            "AUTHENTICATED",
	})
	allowed, err = engine.Authorize(authed, "resourceA", permission.LevelView)
	if err != nil {
		t.Fatalf("Authorize failed: %v", err)
	}
	if !allowed {
		t.Error("expected AUTHENTICATED caller to view resourceA")
	}

	// The configured override grants u1 ADMIN on adminPanel despite the
	// GUEST matrix row saying NONE.
	u1 := auth.WithClaims(ctx, &auth.AccessClaims{
		RegisteredClaims: gojwt.RegisteredClaims{Subject: "u1"},
		Class:            "GUEST",
	})
	allowed, err = engine.Authorize(u1, "adminPanel", permission.LevelAdmin)
	if err != nil {
		t.Fatalf("Authorize failed: %v", err)
	}
	if !allowed {
		t.Error("expected the configured override to grant adminPanel")
	}
}
