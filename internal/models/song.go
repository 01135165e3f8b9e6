package models

import (
	"cmp"
	"slices"
)

// Song is the metadata of one song in a book. CatID is the id of its [Book].
type Song struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	SearchName  string `json:"searchName,omitempty"`
	CatID       string `json:"catId"`
	NumOfVerses int    `json:"numOfVerses"`
	BookNum     int    `json:"bookNum"`
	HasChorus   bool   `json:"hasChorus"`
	Lang        string `json:"lang"`
}

// SortSongs returns a copy of songs ordered by their number in the book.
func SortSongs(songs []Song) []Song {
	sorted := slices.Clone(songs)
	slices.SortStableFunc(sorted, func(a, b Song) int { return cmp.Compare(a.BookNum, b.BookNum) })
	return sorted
}

// FindSong returns the song with the given id.
func FindSong(songs []Song, id string) (Song, bool) {
	i := slices.IndexFunc(songs, func(s Song) bool { return s.ID == id })
	if i < 0 {
		return Song{}, false
	}
	return songs[i], true
}
