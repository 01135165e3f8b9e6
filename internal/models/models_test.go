package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestVerseNumber(t *testing.T) {
	t.Run("UnmarshalJSON", func(t *testing.T) {
		tc := []struct {
			name string
			in   string
			want VerseNumber
		}{
			{"number", `3`, 3},
			{"string", `"4"`, 4},
			{"chorus", `1.5`, 1.5},
			{"padded string", `" 2 "`, 2},
			{"null", `null`, 0},
		}
		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				var n VerseNumber
				if err := json.Unmarshal([]byte(tt.in), &n); err != nil {
					t.Fatalf("unmarshal %s: %v", tt.in, err)
				}
				if n != tt.want {
					t.Errorf("got %v, want %v", n, tt.want)
				}
			})
		}

		var n VerseNumber
		if err := json.Unmarshal([]byte(`"x"`), &n); err == nil {
			t.Error("expected error for non-numeric string")
		}
	})

	t.Run("String", func(t *testing.T) {
		if got := VerseNumber(2).String(); got != "2" {
			t.Errorf("expected 2, got %s", got)
		}
		if got := ChorusVerseNumber.String(); got != "1.5" {
			t.Errorf("expected 1.5, got %s", got)
		}
	})
}

func TestSortVerses(t *testing.T) {
	var verses []Verse
	payload := `[
		{"_id":"c","songId":"s","verseNum":"3","isChorus":false,"verse":"third"},
		{"_id":"a","songId":"s","verseNum":1,"isChorus":false,"verse":"first"},
		{"_id":"k","songId":"s","verseNum":1.5,"isChorus":true,"verse":"chorus"},
		{"_id":"b","songId":"s","verseNum":"2","isChorus":false,"verse":"second"}
	]`
	if err := json.Unmarshal([]byte(payload), &verses); err != nil {
		t.Fatalf("failed to decode verses: %v", err)
	}

	sorted := SortVerses(verses)
	want := []string{"a", "k", "b", "c"}
	for i, id := range want {
		if sorted[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, sorted[i].ID, id)
		}
	}
	if verses[0].ID != "c" {
		t.Error("SortVerses must not reorder its input")
	}
}

func TestSortBooksAndSongs(t *testing.T) {
	books := SortBooks([]Book{{Name: "Chants d'Espérance"}, {Name: "Cantiques"}})
	if books[0].Name != "Cantiques" {
		t.Errorf("expected books sorted by name, got %v", books)
	}

	songs := SortSongs([]Song{{ID: "b", BookNum: 12}, {ID: "a", BookNum: 2}})
	if songs[0].ID != "a" {
		t.Errorf("expected songs sorted by number, got %v", songs)
	}

	if _, ok := FindSong(songs, "b"); !ok {
		t.Error("expected to find song b")
	}
	if _, ok := FindSong(nil, "b"); ok {
		t.Error("expected no song in nil slice")
	}
	if _, ok := FindBook(books, "missing"); ok {
		t.Error("expected no book for unknown id")
	}
}

func TestVerseLabel(t *testing.T) {
	tc := []struct {
		name  string
		verse Verse
		song  Song
		want  string
	}{
		{"numbered verse", Verse{VerseNum: 2}, Song{Lang: LangKreyol}, "2."},
		{"french chorus", Verse{IsChorus: true, VerseNum: 1.5}, Song{Lang: LangFrench}, "Refrain"},
		{"kreyol chorus", Verse{IsChorus: true, VerseNum: 1.5}, Song{Lang: LangKreyol}, "Kè"},
	}
	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerseLabel(tt.verse, tt.song); got != tt.want {
				t.Errorf("VerseLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBookLanguages(t *testing.T) {
	tc := []struct {
		lang, display, export string
	}{
		{LangFrench, "French", "Français"},
		{LangKreyol, "Kreyol", "Kréyol"},
		{LangKreyolFrench, "Kreyol and French", ""},
	}
	for _, tt := range tc {
		b := Book{Lang: tt.lang}
		if b.Language() != tt.display {
			t.Errorf("%s: Language() = %q, want %q", tt.lang, b.Language(), tt.display)
		}
		if b.ExportLanguage() != tt.export {
			t.Errorf("%s: ExportLanguage() = %q, want %q", tt.lang, b.ExportLanguage(), tt.export)
		}
	}
}

func TestUserProfileFullName(t *testing.T) {
	u := &UserProfile{FirstName: "jean", LastName: "BAPTISTE"}
	if got := u.FullName(); got != "Jean Baptiste" {
		t.Errorf("FullName() = %q", got)
	}

	var nilUser *UserProfile
	if nilUser.FullName() != "" {
		t.Error("expected empty name for nil user")
	}
}

func TestSongDraftBuild(t *testing.T) {
	base := func() SongDraft {
		return SongDraft{
			CatID:   "book-1",
			Name:    "Bondye Bon",
			BookNum: 7,
			Lang:    LangKreyol,
			Verses: []DraftVerse{
				{VerseNum: 0, Text: "one"},
				{VerseNum: 2, Text: "two"},
				{VerseNum: 9, IsChorus: true, Text: "chorus"},
			},
		}
	}

	t.Run("computes derived fields", func(t *testing.T) {
		update, err := base().Build()
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}

		if update.SongID != nil {
			t.Error("expected nil song id when adding")
		}
		if !update.HasChorus {
			t.Error("expected hasChorus")
		}
		if update.NumOfVerses != 2 {
			t.Errorf("expected numOfVerses 2, got %d", update.NumOfVerses)
		}
		if update.Verses[0].VerseNum != 1 {
			t.Errorf("expected verse number clamped to 1, got %v", update.Verses[0].VerseNum)
		}
		if update.Verses[2].VerseNum != ChorusVerseNumber {
			t.Errorf("expected chorus numbered 1.5, got %v", update.Verses[2].VerseNum)
		}
		if update.SearchName != "bondye bon" {
			t.Errorf("expected default search name, got %q", update.SearchName)
		}
	})

	t.Run("keeps song id on update", func(t *testing.T) {
		d := base()
		d.SongID = "song-1"
		update, err := d.Build()
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}

		data, _ := json.Marshal(update)
		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if decoded["songId"] != "song-1" {
			t.Errorf("expected songId in payload, got %v", decoded["songId"])
		}
	})

	t.Run("validation", func(t *testing.T) {
		tc := []struct {
			name   string
			mutate func(*SongDraft)
			want   error
		}{
			{"missing name", func(d *SongDraft) { d.Name = "  " }, ErrDraftMissingName},
			{"missing book", func(d *SongDraft) { d.CatID = "" }, ErrDraftMissingBook},
			{"bad language", func(d *SongDraft) { d.Lang = "kr-fr" }, ErrDraftInvalidLang},
			{"no verses", func(d *SongDraft) { d.Verses = nil }, ErrDraftNoVerses},
			{"two choruses", func(d *SongDraft) {
				d.Verses = append(d.Verses, DraftVerse{IsChorus: true, Text: "again"})
			}, ErrDraftManyChoruses},
		}
		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				d := base()
				tt.mutate(&d)
				if _, err := d.Build(); !errors.Is(err, tt.want) {
					t.Errorf("Build() error = %v, want %v", err, tt.want)
				}
			})
		}
	})
}
