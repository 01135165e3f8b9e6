// package formatter renders songs for export (plain text, email, Markdown) and song lists as CSV
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/hymn/internal/models"
	"github.com/desertthunder/hymn/internal/shared"
)

// Format names accepted by [Render].
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatEmail    = "email"
)

// ValidateFormat reports [shared.ErrInvalidFlag] for a format [Render] does not know.
func ValidateFormat(format string) error {
	switch format {
	case FormatText, FormatMarkdown, FormatEmail, "":
		return nil
	}
	return fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, format)
}

// songTitle is "#N Name".
func songTitle(song models.Song) string {
	return fmt.Sprintf("#%d %s", song.BookNum, song.Name)
}

// SongText renders the plain-text download of a song: the book and language, the song title, then each verse
// under its label, separated by blank lines. Verses are written in verse number order.
func SongText(book models.Book, song models.Song, verses []models.Verse) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s %s\n", book.Name, book.ExportLanguage()))
	buf.WriteString(songTitle(song) + "\n\n\n")

	parts := make([]string, 0, len(verses))
	for _, v := range models.SortVerses(verses) {
		parts = append(parts, models.VerseLabel(v, song)+"\n"+v.Text)
	}
	buf.WriteString(strings.Join(parts, "\n\n"))

	return buf.Bytes()
}

// SongMailto builds a mailto URI whose subject names the song and whose body holds its verses.
func SongMailto(book models.Book, song models.Song, verses []models.Verse) string {
	subject := fmt.Sprintf("%s %s - %s", book.Name, book.ExportLanguage(), songTitle(song))

	parts := make([]string, 0, len(verses))
	for _, v := range models.SortVerses(verses) {
		parts = append(parts, models.VerseLabel(v, song)+"\n"+v.Text)
	}
	body := strings.Join(parts, "\n\n")

	return "mailto:?subject=" + mailtoEscape(subject) + "&body=" + mailtoEscape(body)
}

// mailtoEscape percent-encodes s for a mailto header value, with spaces as %20 rather than "+".
func mailtoEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// SongMarkdown renders a song as a Markdown document.
func SongMarkdown(book models.Book, song models.Song, verses []models.Verse) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", songTitle(song)))
	buf.WriteString(fmt.Sprintf("**Book**: %s (%s)\n\n", book.Name, book.Language()))

	for _, v := range models.SortVerses(verses) {
		buf.WriteString(fmt.Sprintf("### %s\n\n", models.VerseLabel(v, song)))
		for _, line := range v.Lines() {
			buf.WriteString(line + "  \n")
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// Render produces the export of a song in the named format.
func Render(format string, book models.Book, song models.Song, verses []models.Verse) ([]byte, error) {
	switch format {
	case FormatText, "":
		return SongText(book, song, verses), nil
	case FormatMarkdown:
		return SongMarkdown(book, song, verses), nil
	case FormatEmail:
		return []byte(SongMailto(book, song, verses)), nil
	default:
		return nil, ValidateFormat(format)
	}
}

// Extension returns the file extension for a format.
func Extension(format string) string {
	switch format {
	case FormatMarkdown:
		return "md"
	case FormatEmail:
		return "eml.txt"
	default:
		return "txt"
	}
}

// SongsCSV converts a song list to CSV with columns: Number, Name, ID, Book ID, Verses, Chorus, Language
func SongsCSV(songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Number", "Name", "ID", "Book ID", "Verses", "Chorus", "Language"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range songs {
		record := []string{
			strconv.Itoa(song.BookNum),
			song.Name,
			song.ID,
			song.CatID,
			strconv.Itoa(song.NumOfVerses),
			strconv.FormatBool(song.HasChorus),
			song.Lang,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// SongFileName returns "<song name>.<ext>" with path separators replaced.
func SongFileName(song models.Song, ext string) string {
	name := strings.TrimSpace(song.Name)
	if name == "" {
		name = song.ID
	}
	name = strings.NewReplacer("/", "-", "\\", "-").Replace(name)
	return name + "." + ext
}

// WriteFile writes data to path, creating parent directories. It returns the path written.
func WriteFile(path string, data []byte) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path, nil
}
