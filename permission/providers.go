package permission

import "context"

// MatrixProvider supplies the permission matrix. Implementations may hit a
// database or static configuration; the engine treats the result as a
// read-only snapshot per decision.
type MatrixProvider[F comparable, C comparable] interface {
	PermissionMatrix(ctx context.Context) (Matrix[F, C], error)
}

// MatrixProviderFunc is an adapter to use ordinary functions as MatrixProvider.
type MatrixProviderFunc[F comparable, C comparable] func(ctx context.Context) (Matrix[F, C], error)

// PermissionMatrix implements MatrixProvider.
func (f MatrixProviderFunc[F, C]) PermissionMatrix(ctx context.Context) (Matrix[F, C], error) {
	return f(ctx)
}

// StaticMatrixProvider returns a provider that serves the same matrix on
// every call. Useful for config-backed matrices and tests.
func StaticMatrixProvider[F comparable, C comparable](m Matrix[F, C]) MatrixProvider[F, C] {
	return MatrixProviderFunc[F, C](func(context.Context) (Matrix[F, C], error) {
		return m, nil
	})
}

// ClassificationResolver derives the caller's requester class from
// session/token state carried in the context.
type ClassificationResolver[C comparable] interface {
	RequesterClass(ctx context.Context) (C, error)
}

// ClassificationResolverFunc is an adapter to use ordinary functions as
// ClassificationResolver.
type ClassificationResolverFunc[C comparable] func(ctx context.Context) (C, error)

// RequesterClass implements ClassificationResolver.
func (f ClassificationResolverFunc[C]) RequesterClass(ctx context.Context) (C, error) {
	return f(ctx)
}

// IdentityResolver derives the caller's identity from session/token state.
// The boolean is false for anonymous callers.
type IdentityResolver interface {
	UserID(ctx context.Context) (string, bool, error)
}

// IdentityResolverFunc is an adapter to use ordinary functions as
// IdentityResolver.
type IdentityResolverFunc func(ctx context.Context) (string, bool, error)

// UserID implements IdentityResolver.
func (f IdentityResolverFunc) UserID(ctx context.Context) (string, bool, error) {
	return f(ctx)
}

// OverrideProvider supplies per-(user, feature) permission overrides.
// A present override — including an explicit NONE — fully replaces the
// matrix-derived level for that decision. The boolean is false when no
// override exists, which falls through to the matrix.
type OverrideProvider[F comparable] interface {
	CustomPermission(ctx context.Context, userID string, feature F) (Level, bool, error)
}

// OverrideProviderFunc is an adapter to use ordinary functions as
// OverrideProvider.
type OverrideProviderFunc[F comparable] func(ctx context.Context, userID string, feature F) (Level, bool, error)

// CustomPermission implements OverrideProvider.
func (f OverrideProviderFunc[F]) CustomPermission(ctx context.Context, userID string, feature F) (Level, bool, error) {
	return f(ctx, userID, feature)
}

// NoOverrides returns the default OverrideProvider: absent for every input.
func NoOverrides[F comparable]() OverrideProvider[F] {
	return OverrideProviderFunc[F](func(context.Context, string, F) (Level, bool, error) {
		return "", false, nil
	})
}

// MapOverrides returns an OverrideProvider backed by a static map of
// userID to per-feature levels. Useful for config-backed overrides and
// tests.
func MapOverrides[F comparable](overrides map[string]map[F]Level) OverrideProvider[F] {
	return OverrideProviderFunc[F](func(_ context.Context, userID string, feature F) (Level, bool, error) {
		features, ok := overrides[userID]
		if !ok {
			return "", false, nil
		}
		level, ok := features[feature]
		if !ok {
			return "", false, nil
		}
		return level, true, nil
	})
}

// BulkPermissionLoader computes the full permission set for one user,
// typically by running the matrix lookup across every known feature for
// that user's classification.
type BulkPermissionLoader[F comparable] interface {
	LoadUserPermissions(ctx context.Context, userID string) (map[F]Level, error)
}

// BulkPermissionLoaderFunc is an adapter to use ordinary functions as
// BulkPermissionLoader.
type BulkPermissionLoaderFunc[F comparable] func(ctx context.Context, userID string) (map[F]Level, error)

// LoadUserPermissions implements BulkPermissionLoader.
func (f BulkPermissionLoaderFunc[F]) LoadUserPermissions(ctx context.Context, userID string) (map[F]Level, error) {
	return f(ctx, userID)
}
