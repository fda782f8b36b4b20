// Package cache provides a typed in-process key/value store with per-entry
// TTL expiry and prefix-scoped bulk invalidation.
//
// It is a correctness-preserving memoization layer, not a bounded resource
// manager: there is no LRU or size bound, only TTL expiry. Expiry is lazy —
// expired entries read as absent and are purged on read.
//
// The permission engine uses a Store to memoize bulk per-user permission
// loads under keys following the "user_permissions_<userID>" convention, so
// one user's entries (or all permission entries) can be invalidated together
// with ClearByPrefix without disturbing unrelated keys in the same store.
//
// Usage:
//
//	store := cache.New[string]()
//	store.Set("greeting", "hello")
//	v, ok := store.Get("greeting")
package cache
