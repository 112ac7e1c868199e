// Package export writes track listings to spreadsheet-friendly CSV files.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/justestif/go-spotify-randomiser/internal/spotify"
)

// Header is the first CSV row.
var Header = []string{"ID", "Artists", "Title", "Album", "Release Date", "Popularity", "Duration", "Explicit", "URL", "Link"}

// Row is one exported track.
type Row struct {
	ID          string
	Artists     string // Comma-separated artist names
	Title       string
	Album       string
	ReleaseDate string
	Popularity  int
	DurationMs  int
	Explicit    bool
	URL         string
}

// Rows converts catalog records to rows. Nil records are skipped.
func Rows(tracks []*spotify.Track) []Row {
	rows := make([]Row, 0, len(tracks))
	for _, t := range tracks {
		if t == nil {
			continue
		}
		rows = append(rows, Row{
			ID:          string(t.ID),
			Artists:     spotify.JoinArtists(t.Artists),
			Title:       t.Name,
			Album:       t.Album.Name,
			ReleaseDate: t.Album.ReleaseDate,
			Popularity:  int(t.Popularity),
			DurationMs:  int(t.Duration),
			Explicit:    t.Explicit,
			URL:         t.ExternalURLs["spotify"],
		})
	}
	return rows
}

// SuggestionRows converts recommendations to rows. Only the fields a
// suggestion carries are filled.
func SuggestionRows(suggestions []spotify.Suggestion) []Row {
	rows := make([]Row, len(suggestions))
	for i, s := range suggestions {
		rows[i] = Row{
			ID:      s.ID,
			Artists: s.Artist,
			Title:   s.Name,
			URL:     "https://open.spotify.com/track/" + s.ID,
		}
	}
	return rows
}

func (r Row) record() []string {
	return []string{
		r.ID,
		r.Artists,
		r.Title,
		r.Album,
		r.ReleaseDate,
		strconv.Itoa(r.Popularity),
		FormatDuration(r.DurationMs),
		strconv.FormatBool(r.Explicit),
		r.URL,
		Hyperlink(r.URL, r.Title),
	}
}

// FormatDuration renders milliseconds as m:ss.
func FormatDuration(ms int) string {
	if ms < 0 {
		ms = 0
	}
	seconds := ms / 1000
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Hyperlink returns a spreadsheet HYPERLINK formula, or "" without a URL.
func Hyperlink(url, label string) string {
	if url == "" {
		return ""
	}
	quote := func(s string) string { return strings.ReplaceAll(s, `"`, `""`) }
	return fmt.Sprintf(`=HYPERLINK("%s","%s")`, quote(url), quote(label))
}

// ToCSV renders rows as CSV with Header first.
func ToCSV(rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(Header); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range rows {
		if err := writer.Write(r.record()); err != nil {
			return nil, fmt.Errorf("writing CSV record %s: %w", r.ID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flushing CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes rows as CSV to path.
func WriteFile(path string, rows []Row) error {
	data, err := ToCSV(rows)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
