package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	booksDataFile = "books_data.json"
	koreanMapFile = "korean_map.json"
)

// WriteExport writes the two JSON artifacts earlier tooling consumed:
// books_data.json maps English title to full text, korean_map.json
// maps Korean display title back to the English title. koreanTitles is
// aligned with entries by position.
func WriteExport(dir string, entries []Entry, koreanTitles []string) error {
	if len(koreanTitles) != len(entries) {
		return fmt.Errorf("korean title count %d does not match entry count %d", len(koreanTitles), len(entries))
	}

	booksData := make(map[string]string, len(entries))
	koreanMap := make(map[string]string, len(entries))
	for i, entry := range entries {
		booksData[entry.Title] = entry.Text
		koreanMap[koreanTitles[i]] = entry.Title
	}

	if err := writeJSON(filepath.Join(dir, booksDataFile), booksData); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, koreanMapFile), koreanMap)
}

func writeJSON(path string, data any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
