package services

import (
	"net/url"
	"strings"
)

// BookRoutes are the book read endpoints. ByID is a prefix the book id is appended to.
type BookRoutes struct {
	All  string
	ByID string
}

// SongReadRoutes are the song read endpoints. ByBookID and BySongID are prefixes.
type SongReadRoutes struct {
	All       string
	ByBookID  string
	BySongID  string
	Favorites string
}

// VerseRoutes are the verse read endpoints, both prefixes.
type VerseRoutes struct {
	BySongID  string
	ByVerseID string
}

// GetRoutes groups every GET endpoint.
type GetRoutes struct {
	Books    BookRoutes
	Songs    SongReadRoutes
	Verses   VerseRoutes
	SSOToken string
}

// SongWriteRoutes are the song POST endpoints.
type SongWriteRoutes struct {
	AddFavorite    string
	RemoveFavorite string
	AddOrUpdate    string
}

// PostRoutes groups every POST endpoint.
type PostRoutes struct {
	Songs                  SongWriteRoutes
	SSOSignInAuthRedirect  string
	SSOUser                string
	SSODataToAPI           string
	SSOSignOutAuthRedirect string
}

// DeleteRoutes groups every DELETE endpoint.
type DeleteRoutes struct {
	Song string
}

// RouteTable maps logical operations to absolute URLs for one environment.
//
// Its fields are unexported and the accessors return copies, so a table cannot change after [NewRouteTable].
type RouteTable struct {
	apiURL string
	ssoURL string
	get    GetRoutes
	post   PostRoutes
	del    DeleteRoutes
}

// NewRouteTable builds the routes for the given lyrics API and identity provider base URLs.
func NewRouteTable(apiURL, ssoURL string) RouteTable {
	api := strings.TrimRight(apiURL, "/")
	sso := strings.TrimRight(ssoURL, "/")

	return RouteTable{
		apiURL: api,
		ssoURL: sso,
		get: GetRoutes{
			Books: BookRoutes{
				All:  api + "/api/books",
				ByID: api + "/api/books/",
			},
			Songs: SongReadRoutes{
				All:       api + "/api/songs",
				ByBookID:  api + "/api/songs/book/",
				BySongID:  api + "/api/songs/",
				Favorites: api + "/api/songs/favorites",
			},
			Verses: VerseRoutes{
				BySongID:  api + "/api/verses/song/",
				ByVerseID: api + "/api/verses/",
			},
			SSOToken: sso + "/api/sso/token",
		},
		post: PostRoutes{
			Songs: SongWriteRoutes{
				AddFavorite:    api + "/api/songs/favorites/add",
				RemoveFavorite: api + "/api/songs/favorites/remove",
				AddOrUpdate:    api + "/api/songs/update",
			},
			SSOSignInAuthRedirect:  sso + "/api/sso",
			SSOUser:                sso + "/api/sso/user",
			SSODataToAPI:           sso + "/api/sso/data-to-api",
			SSOSignOutAuthRedirect: sso + "/api/sso/signout",
		},
		del: DeleteRoutes{
			Song: api + "/api/songs/delete",
		},
	}
}

// Get returns the GET routes of the catalog and the identity provider.
func (r RouteTable) Get() GetRoutes { return r.get }

// Post returns the POST routes, including the provider's relay and sign-out routes.
func (r RouteTable) Post() PostRoutes { return r.post }

// Delete returns the routes relayed with the DELETE method.
func (r RouteTable) Delete() DeleteRoutes { return r.del }

// APIURL returns the lyrics API base URL.
func (r RouteTable) APIURL() string { return r.apiURL }

// SSOURL returns the identity provider base URL.
func (r RouteTable) SSOURL() string { return r.ssoURL }

// WithID appends an escaped path segment to a prefix route.
func WithID(prefix, id string) string {
	return prefix + url.PathEscape(id)
}
