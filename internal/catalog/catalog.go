// Package catalog curates the novel library: it selects up to MaxBooks
// titles from the Gutenberg corpus, giving famous novels priority, and
// pairs each title with a Korean translation.
package catalog

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"fablelens.app/analyzer/internal/gutenberg"
)

const (
	// MinBookLength filters out prefaces, pamphlets and fragments.
	MinBookLength = 70000

	// SearchLimit caps how many corpus documents are scanned.
	SearchLimit = 50000

	// MaxBooks is the size of the curated library.
	MaxBooks = 50
)

// TitleRegex extracts the title from the Gutenberg header block.
var TitleRegex = regexp.MustCompile(`(?i)Title:\s*(.+)`)

// PriorityKeywords marks famous novels that should make the list ahead
// of whatever else the scan happens upon. Each keyword claims at most
// one book.
var PriorityKeywords = []string{
	"sherlock holmes", "scarlet", "baskervilles",
	"pride and prejudice", "frankenstein", "moby dick", "dracula",
	"huckleberry finn", "gatsby", "misérables", "miserables",
	"all quiet on the western front", "rebecca", "wizard of oz",
	"alice in wonderland", "peter pan",
}

// Entry is one curated novel.
type Entry struct {
	Title    string
	Text     string
	Priority bool
}

// Builder accumulates curated entries over a corpus scan.
type Builder struct {
	priority []Entry
	others   []Entry
	titles   map[string]struct{}
	consumed map[string]struct{}
	scanned  int
}

func NewBuilder() *Builder {
	return &Builder{
		titles:   make(map[string]struct{}),
		consumed: make(map[string]struct{}),
	}
}

// Consider inspects one corpus document and collects it when it
// qualifies. It returns false once the scan should stop: either the
// library is full or SearchLimit documents have been seen.
func (b *Builder) Consider(text string) bool {
	if !b.more() {
		return false
	}
	b.scanned++

	if len(text) < MinBookLength {
		return b.more()
	}

	match := TitleRegex.FindStringSubmatch(text)
	if match == nil {
		return b.more()
	}

	title := strings.TrimSpace(match[1])
	if title == "" {
		return b.more()
	}
	if _, seen := b.titles[title]; seen {
		return b.more()
	}

	normalized := NormalizeTitle(title)
	for _, kw := range PriorityKeywords {
		if _, used := b.consumed[kw]; used {
			continue
		}
		if strings.Contains(normalized, kw) {
			b.consumed[kw] = struct{}{}
			b.titles[title] = struct{}{}
			b.priority = append(b.priority, Entry{Title: title, Text: text, Priority: true})
			return b.more()
		}
	}

	if len(b.others) < MaxBooks-len(PriorityKeywords) {
		b.titles[title] = struct{}{}
		b.others = append(b.others, Entry{Title: title, Text: text})
	}

	return b.more()
}

// more reports whether the scan should keep going: the library is not
// full and the scan limit has not been reached.
func (b *Builder) more() bool {
	return !b.Full() && b.scanned < SearchLimit
}

// Books returns the curated entries: priority novels in discovery
// order, then the rest.
func (b *Builder) Books() []Entry {
	books := make([]Entry, 0, len(b.priority)+len(b.others))
	books = append(books, b.priority...)
	books = append(books, b.others...)
	return books
}

func (b *Builder) Full() bool {
	return len(b.priority)+len(b.others) >= MaxBooks
}

func (b *Builder) Scanned() int {
	return b.scanned
}

// NormalizeTitle lowercases a title and folds hyphens to spaces so
// keyword matching tolerates "Moby-Dick" style punctuation.
func NormalizeTitle(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), "-", " ")
}

// Streamer yields corpus documents in order. Implemented by the
// gutenberg client.
type Streamer interface {
	Stream(ctx context.Context, dataset, split string, fn func(text string) error) error
}

// Collect scans a corpus split through the builder and returns the
// curated entries.
func Collect(ctx context.Context, src Streamer, dataset, split string) ([]Entry, error) {
	builder := NewBuilder()

	err := src.Stream(ctx, dataset, split, func(text string) error {
		cont := builder.Consider(text)
		if builder.Scanned()%1000 == 0 {
			slog.InfoContext(ctx, "scanning corpus",
				"scanned", builder.Scanned(),
				"limit", SearchLimit,
				"collected", len(builder.Books()))
		}
		if !cont {
			return gutenberg.ErrStopIteration
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "scan complete",
		"scanned", builder.Scanned(),
		"collected", len(builder.Books()))

	return builder.Books(), nil
}
