// Package repositories implements SQLite persistence for the CLI.
//
// Key Implementations:
//   - [CatalogRepository] : read-through cache of public catalog payloads, keyed by request URL
//   - [CookieRepository] : identity provider cookies kept between runs
//
// The CSRF token is never written to the database; only the cookies that let the identity provider
// issue a new one are.
package repositories
