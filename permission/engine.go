package permission

import (
	"context"
	"maps"
	"time"

	"github.com/kbukum/permkit/cache"
	"github.com/kbukum/permkit/errors"
	"github.com/kbukum/permkit/logger"
	"github.com/kbukum/permkit/observability"
)

// UserPermissionsKeyPrefix is the cache key prefix for memoized per-user
// permission sets. All of one user's entries share the key
// UserPermissionsKeyPrefix + userID, so they can be invalidated together,
// and a flush of the whole prefix targets exactly the permission-related
// subset of a shared cache.
const UserPermissionsKeyPrefix = "user_permissions_"

// DefaultUserPermissionsTTL is the lifetime of a memoized per-user
// permission set.
const DefaultUserPermissionsTTL = 300 * time.Second

// Collaborator names used in failure reporting.
const (
	collaboratorMatrix    = "matrix provider"
	collaboratorClasses   = "classification resolver"
	collaboratorIdentity  = "identity resolver"
	collaboratorOverrides = "override provider"
	collaboratorLoader    = "bulk permission loader"
)

// Decision sources.
const (
	sourceOverride = "override"
	sourceMatrix   = "matrix"
)

// Options configures an Engine. Matrix, Classes, and Identity are required;
// the rest default as documented on each field.
type Options[F comparable, C comparable] struct {
	// Matrix supplies the permission matrix. Required.
	Matrix MatrixProvider[F, C]
	// Classes resolves the caller's requester class. Required.
	Classes ClassificationResolver[C]
	// Identity resolves the caller's user ID. Required.
	Identity IdentityResolver
	// Overrides supplies per-user overrides. Defaults to NoOverrides.
	Overrides OverrideProvider[F]
	// Loader computes bulk per-user permission sets. Optional; without it
	// UserPermissions returns a NOT_CONFIGURED error.
	Loader BulkPermissionLoader[F]
	// Cache memoizes bulk loads. Defaults to a fresh in-process store.
	Cache *cache.Store[map[F]Level]
	// UserPermissionsTTL is the lifetime of memoized per-user permission
	// sets. Defaults to DefaultUserPermissionsTTL.
	UserPermissionsTTL time.Duration
	// Logger receives decision and failure logs. Defaults to the global
	// logger tagged with the "authz" component.
	Logger *logger.Logger
	// Metrics, when set, records decision counts and durations, cache
	// hits/misses, and collaborator failures.
	Metrics *observability.Metrics
}

// Engine renders yes/no access decisions. It is stateless and reentrant:
// each call reads from collaborators and writes only to the cache under a
// key fully determined by its own arguments, so concurrent calls need no
// external locking. Collaborator failures propagate as errors and are
// never interpreted as a deny or a grant.
type Engine[F comparable, C comparable] struct {
	matrix    MatrixProvider[F, C]
	classes   ClassificationResolver[C]
	identity  IdentityResolver
	overrides OverrideProvider[F]
	loader    BulkPermissionLoader[F]
	cache     *cache.Store[map[F]Level]
	userTTL   time.Duration
	log       *logger.Logger
	metrics   *observability.Metrics
}

// New creates an Engine from the given collaborators.
func New[F comparable, C comparable](opts Options[F, C]) (*Engine[F, C], error) {
	if opts.Matrix == nil {
		return nil, errors.NotConfigured(collaboratorMatrix)
	}
	if opts.Classes == nil {
		return nil, errors.NotConfigured(collaboratorClasses)
	}
	if opts.Identity == nil {
		return nil, errors.NotConfigured(collaboratorIdentity)
	}
	if opts.Overrides == nil {
		opts.Overrides = NoOverrides[F]()
	}
	if opts.Cache == nil {
		opts.Cache = cache.New[map[F]Level]()
	}
	if opts.UserPermissionsTTL == 0 {
		opts.UserPermissionsTTL = DefaultUserPermissionsTTL
	}
	if opts.Logger == nil {
		opts.Logger = logger.WithComponent("authz")
	}

	return &Engine[F, C]{
		matrix:    opts.Matrix,
		classes:   opts.Classes,
		identity:  opts.Identity,
		overrides: opts.Overrides,
		loader:    opts.Loader,
		cache:     opts.Cache,
		userTTL:   opts.UserPermissionsTTL,
		log:       opts.Logger,
		metrics:   opts.Metrics,
	}, nil
}

// Validate rejects a required level outside the closed enumerated set.
// Feature-level validation is left to the application, since the engine
// is generic over the feature type.
func (e *Engine[F, C]) Validate(requiredLevel Level) error {
	if !IsValid(requiredLevel) {
		return errors.InvalidLevel(string(requiredLevel))
	}
	return nil
}

// HasPermission decides whether a caller of the given class, optionally
// identified by userID, holds requiredLevel for feature.
//
// When userID is non-empty the override provider is consulted first; a
// present override — including an explicit NONE — is authoritative and the
// matrix is never consulted. Otherwise the matrix-derived level decides,
// with absent (feature, class) pairs resolving to NONE.
func (e *Engine[F, C]) HasPermission(ctx context.Context, class C, feature F, requiredLevel Level, userID string) (bool, error) {
	if err := e.Validate(requiredLevel); err != nil {
		return false, err
	}
	start := time.Now()

	if userID != "" {
		level, ok, err := e.overrides.CustomPermission(ctx, userID, feature)
		if err != nil {
			return false, e.collaboratorFailure(ctx, collaboratorOverrides, err)
		}
		if ok {
			allowed := Satisfies(level, requiredLevel)
			e.recordDecision(ctx, sourceOverride, feature, class, level, requiredLevel, userID, allowed, start)
			return allowed, nil
		}
	}

	matrix, err := e.matrix.PermissionMatrix(ctx)
	if err != nil {
		return false, e.collaboratorFailure(ctx, collaboratorMatrix, err)
	}
	level := matrix.Lookup(feature, class)
	allowed := Satisfies(level, requiredLevel)
	e.recordDecision(ctx, sourceMatrix, feature, class, level, requiredLevel, userID, allowed, start)
	return allowed, nil
}

// Authorize resolves the current caller's class and identity via the
// configured resolvers and delegates to HasPermission. It never resolves
// classification or identity itself.
func (e *Engine[F, C]) Authorize(ctx context.Context, feature F, requiredLevel Level) (bool, error) {
	class, err := e.classes.RequesterClass(ctx)
	if err != nil {
		return false, e.collaboratorFailure(ctx, collaboratorClasses, err)
	}

	userID, ok, err := e.identity.UserID(ctx)
	if err != nil {
		return false, e.collaboratorFailure(ctx, collaboratorIdentity, err)
	}
	if !ok {
		userID = ""
	}

	return e.HasPermission(ctx, class, feature, requiredLevel, userID)
}

// UserPermissions returns the full permission set for one user, memoized
// under UserPermissionsKeyPrefix + userID with the configured TTL. The
// returned map is a snapshot; mutating it does not affect the cache.
func (e *Engine[F, C]) UserPermissions(ctx context.Context, userID string) (map[F]Level, error) {
	if e.loader == nil {
		return nil, errors.NotConfigured(collaboratorLoader)
	}

	key := UserPermissionsKeyPrefix + userID
	if cached, ok := e.cache.Get(key); ok {
		if e.metrics != nil {
			e.metrics.RecordCacheHit(ctx)
		}
		return maps.Clone(cached), nil
	}
	if e.metrics != nil {
		e.metrics.RecordCacheMiss(ctx)
	}

	perms, err := e.loader.LoadUserPermissions(ctx, userID)
	if err != nil {
		return nil, e.collaboratorFailure(ctx, collaboratorLoader, err)
	}

	e.cache.SetTTL(key, maps.Clone(perms), e.userTTL)
	return perms, nil
}

// InvalidateUserPermissions drops the memoized permission set for one user.
func (e *Engine[F, C]) InvalidateUserPermissions(userID string) {
	e.cache.ClearByPrefix(UserPermissionsKeyPrefix + userID)
}

// InvalidateAllUserPermissions drops the memoized permission sets for every
// user, leaving unrelated keys in a shared cache untouched.
func (e *Engine[F, C]) InvalidateAllUserPermissions() {
	e.cache.ClearByPrefix(UserPermissionsKeyPrefix)
}

func (e *Engine[F, C]) collaboratorFailure(ctx context.Context, collaborator string, cause error) error {
	if e.metrics != nil {
		e.metrics.RecordCollaboratorError(ctx, collaborator)
	}
	e.log.Error("collaborator call failed", logger.Fields(
		logger.FieldOperation, collaborator,
		logger.FieldError, cause.Error(),
	))
	return errors.CollaboratorFailure(collaborator, cause)
}

func (e *Engine[F, C]) recordDecision(ctx context.Context, source string, feature F, class C, level, requiredLevel Level, userID string, allowed bool, start time.Time) {
	duration := time.Since(start)
	if e.metrics != nil {
		e.metrics.RecordDecision(ctx, source, allowed, duration)
	}
	e.log.Debug("decision rendered", logger.Fields(
		logger.FieldSource, source,
		logger.FieldFeature, feature,
		logger.FieldClass, class,
		logger.FieldLevel, string(level),
		logger.FieldRequiredLevel, string(requiredLevel),
		logger.FieldUserID, userID,
		logger.FieldDecision, allowed,
		logger.FieldDuration, duration.Milliseconds(),
	))
}
