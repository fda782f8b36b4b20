package auth

import (
	"context"

	"github.com/kbukum/permkit/permission"
)

// AnonymousClass is the requester class assigned to callers without claims
// when no other anonymous class is configured.
const AnonymousClass = "GUEST"

// ContextResolver resolves the requester class and identity from access
// claims carried in the context. It implements both of the permission
// engine's resolver contracts.
type ContextResolver struct {
	// Anonymous is the class assigned to callers without claims.
	// Defaults to AnonymousClass.
	Anonymous string
}

// NewContextResolver creates a resolver with the given anonymous class.
func NewContextResolver(anonymous string) *ContextResolver {
	if anonymous == "" {
		anonymous = AnonymousClass
	}
	return &ContextResolver{Anonymous: anonymous}
}

// RequesterClass returns the class from the context claims, or the
// anonymous class when no claims (or no class) are present.
func (r *ContextResolver) RequesterClass(ctx context.Context) (string, error) {
	claims, ok := ClaimsFrom(ctx)
	if !ok || claims.Class == "" {
		return r.anonymous(), nil
	}
	return claims.Class, nil
}

func (r *ContextResolver) anonymous() string {
	if r.Anonymous == "" {
		return AnonymousClass
	}
	return r.Anonymous
}

// UserID returns the token subject, absent for anonymous callers.
func (r *ContextResolver) UserID(ctx context.Context) (string, bool, error) {
	claims, ok := ClaimsFrom(ctx)
	if !ok || claims.Subject == "" {
		return "", false, nil
	}
	return claims.Subject, true, nil
}

var (
	_ permission.ClassificationResolver[string] = (*ContextResolver)(nil)
	_ permission.IdentityResolver               = (*ContextResolver)(nil)
)
