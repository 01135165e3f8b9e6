package presenter

import (
	"context"
	"fmt"

	"github.com/desertthunder/hymn/internal/models"
)

// SlideKind tells slides apart.
type SlideKind int

const (
	IntroSlide SlideKind = iota
	VerseSlide
	ChorusSlide
)

// Slide is one screen of a [Deck].
//
// Repeat marks a chorus copy inserted after a verse.
type Slide struct {
	Kind    SlideKind
	Label   string
	Lines   []string
	VerseID string
	Repeat  bool
}

// Deck is the ordered list of slides of one song.
type Deck struct {
	Title  string
	Slides []Slide
}

// Len returns the number of slides.
func (d Deck) Len() int { return len(d.Slides) }

// Port shows a deck to the user and returns when the presentation is closed.
type Port interface {
	Present(ctx context.Context, deck Deck) error
}

// BuildDeck builds the slides of a song.
func BuildDeck(book models.Book, song models.Song, verses []models.Verse) Deck {
	title := fmt.Sprintf("#%d %s", song.BookNum, song.Name)
	deck := Deck{
		Title: title,
		Slides: []Slide{{
			Kind:  IntroSlide,
			Label: title,
			Lines: []string{book.Name, book.Language()},
		}},
	}

	var chorus *Slide
	for _, v := range models.SortVerses(verses) {
		slide := Slide{
			Kind:    VerseSlide,
			Label:   models.VerseLabel(v, song),
			Lines:   v.Lines(),
			VerseID: v.ID,
		}
		if v.IsChorus {
			slide.Kind = ChorusSlide
		}
		deck.Slides = append(deck.Slides, slide)

		if chorus != nil {
			repeat := *chorus
			repeat.Lines = append([]string(nil), chorus.Lines...)
			repeat.Repeat = true
			deck.Slides = append(deck.Slides, repeat)
		}

		if v.IsChorus && chorus == nil {
			saved := slide
			chorus = &saved
		}
	}

	return deck
}
