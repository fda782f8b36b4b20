package auth

import "context"

// contextKey is an unexported type to prevent collisions with other packages.
type contextKey struct{}

// claimsKey is the single key used to store claims in context.
var claimsKey = contextKey{}

// WithClaims stores parsed access claims in the context.
// Typically called by authentication middleware.
func WithClaims(ctx context.Context, claims *AccessClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFrom retrieves access claims from the context.
// Returns false for callers without claims (anonymous requests).
func ClaimsFrom(ctx context.Context) (*AccessClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*AccessClaims)
	return claims, ok
}
