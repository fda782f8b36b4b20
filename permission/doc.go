// Package permission provides the permkit authorization engine.
//
// The model is a totally ordered set of grant levels (NONE < VIEW < EDIT <
// DELETE < ADMIN), a matrix mapping (feature, requester class) to a level,
// and an optional per-user override that fully replaces the matrix-derived
// level for one decision. The engine is generic over the feature and
// requester-class key types, so projects supply their own identifiers.
//
// Collaborators — matrix provider, classification and identity resolvers,
// override provider, bulk permission loader — are constructor-injected
// interfaces, each with a Func adapter for quick wiring and testing.
//
// Usage:
//
//	matrix := permission.Matrix[string, string]{
//	    "article": {"editor": permission.LevelEdit, "viewer": permission.LevelView},
//	}
//	engine, err := permission.New(permission.Options[string, string]{
//	    Matrix:   permission.StaticMatrixProvider(matrix),
//	    Classes:  resolver,
//	    Identity: resolver,
//	})
//	allowed, err := engine.Authorize(ctx, "article", permission.LevelEdit)
//
// Lookups for unknown features or classes resolve to NONE — deny by
// default, never an error. A failing collaborator is a distinct failure
// outcome, never an implicit deny or grant.
package permission
