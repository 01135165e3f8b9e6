package session

import (
	"cmp"
	"maps"
	"slices"

	"github.com/desertthunder/hymn/internal/models"
)

// FavoriteSet is an immutable set of favorite songs keyed by song id.
//
// With and Without return new sets and leave the receiver untouched. The zero value is empty.
type FavoriteSet struct {
	songs map[string]models.Song
}

// NewFavoriteSet builds a set from songs. Later duplicates replace earlier ones.
func NewFavoriteSet(songs []models.Song) FavoriteSet {
	m := make(map[string]models.Song, len(songs))
	for _, s := range songs {
		m[s.ID] = s
	}
	return FavoriteSet{songs: m}
}

// Has reports whether the song id is a favorite.
func (f FavoriteSet) Has(songID string) bool {
	_, ok := f.songs[songID]
	return ok
}

// Get returns the favorite song with the given id.
func (f FavoriteSet) Get(songID string) (models.Song, bool) {
	s, ok := f.songs[songID]
	return s, ok
}

// Len returns the number of favorites.
func (f FavoriteSet) Len() int { return len(f.songs) }

// With returns a new set that also contains song.
func (f FavoriteSet) With(song models.Song) FavoriteSet {
	m := maps.Clone(f.songs)
	if m == nil {
		m = make(map[string]models.Song, 1)
	}
	m[song.ID] = song
	return FavoriteSet{songs: m}
}

// Without returns a new set without the song id.
func (f FavoriteSet) Without(songID string) FavoriteSet {
	m := maps.Clone(f.songs)
	delete(m, songID)
	return FavoriteSet{songs: m}
}

// Songs returns the favorites ordered by book id then number.
func (f FavoriteSet) Songs() []models.Song {
	songs := slices.Collect(maps.Values(f.songs))
	slices.SortFunc(songs, func(a, b models.Song) int {
		return cmp.Or(cmp.Compare(a.CatID, b.CatID), cmp.Compare(a.BookNum, b.BookNum), cmp.Compare(a.ID, b.ID))
	})
	return songs
}

// Equal reports whether both sets hold the same songs.
func (f FavoriteSet) Equal(o FavoriteSet) bool {
	return maps.Equal(f.songs, o.songs)
}
