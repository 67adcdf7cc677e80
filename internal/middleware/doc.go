// Package middleware provides HTTP middleware for the accounts API.
//
// # Available Middleware
//
//   - RequestID: assigns X-Request-ID
//   - Logger: structured request log including the tenant
//   - Recovery: turns panics into a 500 envelope
//   - CORS, Compress
//   - Tenant: resolves the tenant query parameter, defaulting it
//   - Auth, RequireAdmin: bearer token validation scoped to the tenant
//
// Order matters: Tenant must run before Auth so tokens can be checked
// against the resolved tenant.
//
// # Context Values
//
//   - tenant.FromContext(ctx): resolved tenant
//   - GetUserID(ctx), GetClaims(ctx): authenticated caller
//   - GetRequestID(ctx): unique request identifier
package middleware
