// Package models defines the entities consumed from the hymnal lyrics API and the payloads sent back to it.
//
// The package contains two categories of types:
//
// 1. Catalog entities returned by the public API
//   - [Book] : A hymnal with its language and song count
//   - [Song] : Song metadata, numbered within its book
//   - [Verse] : One verse (or the chorus) of a song
//
// 2. Session and admin payloads
//   - [UserProfile] : The signed-in user as reported by the identity provider
//   - [SongDraft] : Editable song built into a [SongUpdate] for the add-or-update route
//   - [DeleteSong] : Body of the admin delete route
//
// Sorting helpers ([SortBooks], [SortSongs], [SortVerses]) return new slices and never mutate their input.
package models
