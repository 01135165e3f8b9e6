// Package auth implements the SSO session: an in-memory [Store], the [Gateway] that talks to the
// identity provider, and the [Interceptor] that recovers the session after a 401.
//
// # Session Lifecycle
//
// A [Store] starts empty. Only the gateway mutates it:
//
//	Anonymous --SignIn--> Processing --> Authorized | RedirectPending | Failed
//	Authorized --SignOut--> Anonymous
//	Authorized --401--> Processing --> Authorized | Anonymous
//
// The token is a CSRF token issued by the identity provider for the provider session carried in
// the cookie jar. It lives only in memory; what survives between runs is the cookie jar.
//
// # Relaying
//
// [Gateway.RelayRequest] sends a credentialed request with the token attached: as the "token" body
// field for non-idempotent verbs, as the X-CSRF-Token header otherwise, and not at all when anonymous.
// [Gateway.RelayToOwnAPI] wraps a call to the lyrics API in an envelope posted to the provider's
// data-to-api endpoint, which forwards it with server-side credentials.
package auth
