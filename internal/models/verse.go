package models

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// VerseNumber is a verse's position in a song.
//
// The API sends it either as a JSON number or as a numeric string; the chorus is stored as 1.5.
type VerseNumber float64

// ChorusVerseNumber is the number the chorus is saved under.
const ChorusVerseNumber VerseNumber = 1.5

// UnmarshalJSON accepts a number, a numeric string, or null.
func (n *VerseNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		data = []byte(s)
	}

	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid verse number %q: %w", string(data), err)
	}
	*n = VerseNumber(v)
	return nil
}

// String formats the number without a trailing fraction for whole numbers.
func (n VerseNumber) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// Verse is one verse of a song. Text lines are separated by "\n".
type Verse struct {
	ID       string      `json:"_id"`
	SongID   string      `json:"songId"`
	VerseNum VerseNumber `json:"verseNum"`
	IsChorus bool        `json:"isChorus"`
	Text     string      `json:"verse"`
}

// Lines splits the verse text into its lines.
func (v Verse) Lines() []string {
	return strings.Split(v.Text, "\n")
}

// SortVerses returns a copy of verses in ascending verse number order.
func SortVerses(verses []Verse) []Verse {
	sorted := slices.Clone(verses)
	slices.SortStableFunc(sorted, func(a, b Verse) int { return cmp.Compare(a.VerseNum, b.VerseNum) })
	return sorted
}

// VerseLabel is the heading shown above a verse: "Refrain" or "Kè" for the chorus depending on the
// song's language, otherwise the verse number followed by a period.
func VerseLabel(verse Verse, song Song) string {
	if verse.IsChorus {
		if song.Lang == LangFrench {
			return "Refrain"
		}
		return "Kè"
	}
	return verse.VerseNum.String() + "."
}
