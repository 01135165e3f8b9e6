// Package services wraps the hymnal lyrics API.
//
// # HTTP Client Wrapper
//
// [Client.Request] performs one call and returns either a [*Response] or a [*RequestError].
// Transport failures and non-2xx statuses are both converted to [*RequestError]; nothing
// is retried here. Credentialed requests carry the cookie jar (the identity provider's
// session cookies), anonymous ones never do.
//
// Observers registered with [Client.Observe] see every outcome before the caller does.
// The 401 interceptor in package auth is built on this hook.
//
// # Route Table
//
// [RouteTable] maps each logical operation to an absolute URL for one environment. It is
// built once by [NewRouteTable] and cannot change afterwards.
//
// # Catalog Services
//
// [BookService], [SongService] and [VerseService] decode API payloads into package models
// types. Public reads can go through a [Cache]. Favorite and admin operations go through a
// [Relayer] so that the identity provider vouches for the user.
//
// # Error Handling
//
// Services wrap sentinel errors from the shared package:
//   - [shared.ErrUnauthorized] : 401 from the API or identity provider
//   - [shared.ErrNotFound] : 404, re-tagged as [shared.ErrBookNotFound] or [shared.ErrSongNotFound] where known
//   - [shared.ErrForbidden] : 403, or a non-admin calling an admin operation
//   - [shared.ErrServiceUnavailable] : transport failure (status 0)
//   - [shared.ErrAPIRequest] : any other failure or an undecodable payload
package services
