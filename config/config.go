package config

import (
	"fmt"
	"time"

	"github.com/kbukum/permkit/auth"
	"github.com/kbukum/permkit/cache"
	"github.com/kbukum/permkit/errors"
	"github.com/kbukum/permkit/logger"
	"github.com/kbukum/permkit/permission"
	"github.com/kbukum/permkit/validation"
)

// BaseConfig contains essential fields that every service needs.
type BaseConfig struct {
	Name        string `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string `yaml:"environment" mapstructure:"environment" validate:"omitempty,oneof=development staging production"`
	Version     string `yaml:"version" mapstructure:"version"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`
}

// ApplyDefaults applies default values to base configuration.
func (c *BaseConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
}

// PermissionsConfig declares the matrix, overrides, and cache TTLs.
//
// Matrix and Overrides map level names (case-insensitive) that must belong
// to the closed level set; BuildMatrix and BuildOverrides reject anything
// else.
type PermissionsConfig struct {
	// AnonymousClass is assigned to callers without claims.
	AnonymousClass string `yaml:"anonymous_class" mapstructure:"anonymous_class"`
	// DefaultCacheTTLSeconds is the general-purpose cache entry lifetime.
	DefaultCacheTTLSeconds int `yaml:"default_cache_ttl_seconds" mapstructure:"default_cache_ttl_seconds" validate:"gte=0"`
	// UserCacheTTLSeconds is the lifetime of memoized per-user permission sets.
	UserCacheTTLSeconds int `yaml:"user_cache_ttl_seconds" mapstructure:"user_cache_ttl_seconds" validate:"gte=0"`
	// Matrix maps feature -> requester class -> level name.
	Matrix map[string]map[string]string `yaml:"matrix" mapstructure:"matrix"`
	// Overrides maps user ID -> feature -> level name.
	Overrides map[string]map[string]string `yaml:"overrides" mapstructure:"overrides"`
}

// ApplyDefaults applies default values to permissions configuration.
func (c *PermissionsConfig) ApplyDefaults() {
	if c.AnonymousClass == "" {
		c.AnonymousClass = auth.AnonymousClass
	}
	if c.DefaultCacheTTLSeconds == 0 {
		c.DefaultCacheTTLSeconds = int(cache.DefaultTTL / time.Second)
	}
	if c.UserCacheTTLSeconds == 0 {
		c.UserCacheTTLSeconds = int(permission.DefaultUserPermissionsTTL / time.Second)
	}
}

// BuildMatrix converts the declared level names into a permission matrix.
func (c *PermissionsConfig) BuildMatrix() (permission.Matrix[string, string], error) {
	matrix := make(permission.Matrix[string, string], len(c.Matrix))
	for feature, classes := range c.Matrix {
		row := make(map[string]permission.Level, len(classes))
		for class, name := range classes {
			level, ok := permission.ParseLevel(name)
			if !ok {
				return nil, errors.InvalidLevel(name).
					WithDetail("feature", feature).
					WithDetail("requester_class", class)
			}
			row[class] = level
		}
		matrix[feature] = row
	}
	return matrix, nil
}

// BuildOverrides converts the declared per-user overrides into an
// OverrideProvider. An empty declaration yields NoOverrides.
func (c *PermissionsConfig) BuildOverrides() (permission.OverrideProvider[string], error) {
	if len(c.Overrides) == 0 {
		return permission.NoOverrides[string](), nil
	}
	overrides := make(map[string]map[string]permission.Level, len(c.Overrides))
	for userID, features := range c.Overrides {
		row := make(map[string]permission.Level, len(features))
		for feature, name := range features {
			level, ok := permission.ParseLevel(name)
			if !ok {
				return nil, errors.InvalidLevel(name).
					WithDetail("user_id", userID).
					WithDetail("feature", feature)
			}
			row[feature] = level
		}
		overrides[userID] = row
	}
	return permission.MapOverrides(overrides), nil
}

// Config is the top-level service configuration.
type Config struct {
	Base        BaseConfig        `yaml:"base" mapstructure:"base"`
	Logging     logger.Config     `yaml:"logging" mapstructure:"logging"`
	Auth        auth.Config       `yaml:"auth" mapstructure:"auth"`
	Permissions PermissionsConfig `yaml:"permissions" mapstructure:"permissions"`
}

// ApplyDefaults applies defaults to every section.
func (c *Config) ApplyDefaults() {
	c.Base.ApplyDefaults()
	c.Logging.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Permissions.ApplyDefaults()
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := validation.Validate(c.Base); err != nil {
		return fmt.Errorf("base: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c.Permissions); err != nil {
		return fmt.Errorf("permissions: %w", err)
	}
	// Level names are validated eagerly so a bad config fails at startup,
	// not on the first decision.
	if _, err := c.Permissions.BuildMatrix(); err != nil {
		return err
	}
	if _, err := c.Permissions.BuildOverrides(); err != nil {
		return err
	}
	return nil
}

// Engine builds a permission engine from the configured matrix, overrides,
// and TTLs, with JWT-claims-backed classification and identity resolution.
func (c *Config) Engine() (*permission.Engine[string, string], error) {
	matrix, err := c.Permissions.BuildMatrix()
	if err != nil {
		return nil, err
	}
	overrides, err := c.Permissions.BuildOverrides()
	if err != nil {
		return nil, err
	}
	resolver := auth.NewContextResolver(c.Permissions.AnonymousClass)

	store := cache.New[map[string]permission.Level](
		cache.WithDefaultTTL[map[string]permission.Level](
			time.Duration(c.Permissions.DefaultCacheTTLSeconds) * time.Second,
		),
	)

	return permission.New(permission.Options[string, string]{
		Matrix:             permission.StaticMatrixProvider(matrix),
		Classes:            resolver,
		Identity:           resolver,
		Overrides:          overrides,
		Cache:              store,
		UserPermissionsTTL: time.Duration(c.Permissions.UserCacheTTLSeconds) * time.Second,
	})
}
