// Package server runs the short-lived local HTTP server that receives the identity provider's
// redirect after a browser sign in.
//
// # Router
//
// [BasicRouter] wraps [http.ServeMux] with method filtering and a [Middleware] stack. Middleware is applied
// in reverse order (last added executes first).
//
// # Callback
//
// [CallbackHandler] serves /callback. It checks the state parameter generated for the login attempt, reads
// the token parameter, and delivers exactly one [CallbackResult]. Later hits are rejected.
//
// [Serve] runs a router on an address until a callback result arrives or the context ends, then shuts the
// listener down.
package server
