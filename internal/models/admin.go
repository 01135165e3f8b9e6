package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDraftMissingName  = errors.New("song name is required")
	ErrDraftMissingBook  = errors.New("book is required")
	ErrDraftInvalidLang  = errors.New("language must be kr or fr")
	ErrDraftNoVerses     = errors.New("a song needs at least one verse")
	ErrDraftManyChoruses = errors.New("a song can have only one chorus")
)

// SongUpdateVerse is a verse as sent to the add-or-update route.
type SongUpdateVerse struct {
	VerseNum VerseNumber `json:"verseNum"`
	IsChorus bool        `json:"isChorus"`
	Text     string      `json:"verse"`
}

// SongUpdate is the body of the add-or-update route. A nil SongID adds a new song.
type SongUpdate struct {
	CatID       string            `json:"catId"`
	SongID      *string           `json:"songId"`
	NumOfVerses int               `json:"numOfVerses"`
	Name        string            `json:"name"`
	SearchName  string            `json:"searchName"`
	BookNum     int               `json:"bookNum"`
	HasChorus   bool              `json:"hasChorus"`
	Lang        string            `json:"lang"`
	Verses      []SongUpdateVerse `json:"verses"`
}

// DeleteSong is the body of the delete route.
type DeleteSong struct {
	SongID string `json:"songId"`
}

// SongDraft is an editable song, typically read from a JSON file by the admin commands.
type SongDraft struct {
	SongID     string       `json:"songId,omitempty"`
	CatID      string       `json:"catId"`
	Name       string       `json:"name"`
	SearchName string       `json:"searchName,omitempty"`
	BookNum    int          `json:"bookNum"`
	Lang       string       `json:"lang"`
	Verses     []DraftVerse `json:"verses"`
}

// DraftVerse is one verse of a [SongDraft].
type DraftVerse struct {
	VerseNum int    `json:"verseNum"`
	IsChorus bool   `json:"isChorus"`
	Text     string `json:"verse"`
}

// Build validates the draft and converts it to a [SongUpdate].
//
// Verse numbers below one are raised to one and the chorus is always numbered [ChorusVerseNumber].
// NumOfVerses counts the verses other than the chorus.
func (d SongDraft) Build() (SongUpdate, error) {
	name := strings.TrimSpace(d.Name)
	switch {
	case name == "":
		return SongUpdate{}, ErrDraftMissingName
	case strings.TrimSpace(d.CatID) == "":
		return SongUpdate{}, ErrDraftMissingBook
	case d.Lang != LangKreyol && d.Lang != LangFrench:
		return SongUpdate{}, fmt.Errorf("%w: got %q", ErrDraftInvalidLang, d.Lang)
	case len(d.Verses) == 0:
		return SongUpdate{}, ErrDraftNoVerses
	}

	update := SongUpdate{
		CatID:      d.CatID,
		Name:       name,
		SearchName: d.SearchName,
		BookNum:    d.BookNum,
		Lang:       d.Lang,
		Verses:     make([]SongUpdateVerse, 0, len(d.Verses)),
	}
	if update.SearchName == "" {
		update.SearchName = strings.ToLower(name)
	}
	if d.SongID != "" {
		id := d.SongID
		update.SongID = &id
	}

	for _, v := range d.Verses {
		num := VerseNumber(max(v.VerseNum, 1))
		if v.IsChorus {
			if update.HasChorus {
				return SongUpdate{}, ErrDraftManyChoruses
			}
			update.HasChorus = true
			num = ChorusVerseNumber
		}
		update.Verses = append(update.Verses, SongUpdateVerse{VerseNum: num, IsChorus: v.IsChorus, Text: v.Text})
	}

	update.NumOfVerses = len(update.Verses)
	if update.HasChorus {
		update.NumOfVerses--
	}

	return update, nil
}
