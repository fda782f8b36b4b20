// Package middleware provides Gin middleware for permkit services:
// Bearer-token authentication, permission gating backed by the permission
// engine, request IDs, panic recovery, and request logging.
//
// The permission gate is an edge convenience — the engine remains the
// authoritative decision point and handlers may re-check as needed.
package middleware
