// Package auth provides JWT-backed classification and identity resolution
// for the permission engine.
//
// A Service generates and parses access tokens whose claims carry the
// subject (user ID) and requester class. Middleware stores parsed claims in
// the request context with WithClaims; a ContextResolver then implements
// the engine's ClassificationResolver and IdentityResolver contracts by
// reading them back. Callers without claims resolve to the configured
// anonymous class and an absent identity.
package auth
