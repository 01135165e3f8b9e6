package models

import (
	"cmp"
	"slices"
)

// Language codes used by books and songs.
const (
	LangKreyol       = "kr"
	LangFrench       = "fr"
	LangKreyolFrench = "kr-fr"
)

// Book is a hymnal.
type Book struct {
	ID         string `json:"_id"`
	Name       string `json:"name"`
	Abbrv      string `json:"abbrv"`
	NumOfSongs int    `json:"numOfSongs"`
	Lang       string `json:"lang"`
}

// Language returns the display name of the book's language.
func (b Book) Language() string {
	switch b.Lang {
	case LangFrench:
		return "French"
	case LangKreyol:
		return "Kreyol"
	default:
		return "Kreyol and French"
	}
}

// ExportLanguage returns the language label written into exported files, empty for bilingual books.
func (b Book) ExportLanguage() string {
	switch b.Lang {
	case LangKreyol:
		return "Kréyol"
	case LangFrench:
		return "Français"
	default:
		return ""
	}
}

// SortBooks returns a copy of books ordered by name.
func SortBooks(books []Book) []Book {
	sorted := slices.Clone(books)
	slices.SortStableFunc(sorted, func(a, b Book) int { return cmp.Compare(a.Name, b.Name) })
	return sorted
}

// FindBook returns the book with the given id.
func FindBook(books []Book, id string) (Book, bool) {
	i := slices.IndexFunc(books, func(b Book) bool { return b.ID == id })
	if i < 0 {
		return Book{}, false
	}
	return books[i], true
}
