// Package export renders journal entries as markdown documents and hands them
// to a Downloader.
package export

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"tableflip.dev/journal/pkg/entry"
)

const (
	// Separator joins entries in a combined export.
	Separator = "\n\n---\n\n"

	// UntitledTitle heads exported entries without a title.
	UntitledTitle = "Untitled Entry"

	layoutHuman = "January 2, 2006 3:04 PM"
	layoutDate  = "2006-01-02"
	fileExt     = ".md"
)

// ErrNothingToExport is returned when an export has no entries.
var ErrNothingToExport = errors.New("No entries to export")

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Format renders one entry as a markdown document.
func Format(e entry.Entry) string {
	return FormatIn(e, time.Local)
}

// FormatIn is Format with timestamps shown in loc.
func FormatIn(e entry.Entry, loc *time.Location) string {
	title := e.Title
	if title == "" {
		title = UntitledTitle
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "**Created:** %s\n", e.CreatedAt.In(loc).Format(layoutHuman))
	fmt.Fprintf(&b, "**Updated:** %s\n\n", e.UpdatedAt.In(loc).Format(layoutHuman))
	b.WriteString(e.Content)
	b.WriteString("\n")
	return b.String()
}

// FormatMany renders entries in order joined by Separator.
func FormatMany(entries []entry.Entry) string {
	return FormatManyIn(entries, time.Local)
}

// FormatManyIn is FormatMany with timestamps shown in loc.
func FormatManyIn(entries []entry.Entry, loc *time.Location) string {
	docs := make([]string, len(entries))
	for i, e := range entries {
		docs[i] = FormatIn(e, loc)
	}
	return strings.Join(docs, Separator)
}

// Split breaks a combined export back into its per-entry documents. It is
// the inverse of FormatMany as long as no content contains Separator.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, Separator)
}

// Slug lowercases s and collapses every run of characters outside [a-z0-9]
// into a single dash, trimming dashes at either end.
func Slug(s string) string {
	s = nonAlnum.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}

// Filename derives "<created date>-<slug>.md" for e.
func Filename(e entry.Entry) string {
	slug := Slug(e.Title)
	if slug == "" {
		slug = "untitled"
	}
	return e.CreatedAt.Date() + "-" + slug + fileExt
}

// BundleFilename names a combined export created at now.
func BundleFilename(now time.Time) string {
	return "journal-export-" + now.UTC().Format(layoutDate) + fileExt
}
