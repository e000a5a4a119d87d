// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

var ErrEmptyFile = errors.New("description file has no rows")

// Header names recognised for the key and text columns
var (
	keyHeaders  = []string{"filename", "file", "song", "song_id", "song_file"}
	textHeaders = []string{"description", "desc", "text", "generated_description"}
)

// Descriptions is the description lookup table: one filename → text map per
// source file. It is built once and never mutated, so it is safe to share.
type Descriptions struct {
	sources []map[string]string
}

// LoadDescriptions reads every CSV file in paths, in order. Zero paths
// yields an empty table.
func LoadDescriptions(paths ...string) (*Descriptions, error) {
	d := &Descriptions{sources: make([]map[string]string, 0, len(paths))}
	for _, path := range paths {
		m, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		d.sources = append(d.sources, m)
	}
	return d, nil
}

// NewDescriptions wraps already parsed sources.
func NewDescriptions(sources ...map[string]string) *Descriptions {
	return &Descriptions{sources: sources}
}

func loadFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open description file: %w", err)
	}
	defer f.Close()

	m, err := ParseDescriptions(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseDescriptions reads one CSV source. When the first row names a key
// column (filename, song_id, ...) it is treated as a header; otherwise the
// first column is the filename and the second the text. Later rows win on
// duplicate filenames.
func ParseDescriptions(r io.Reader) (map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}
	records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")

	keyCol, textCol := 0, 1
	if k, t, ok := headerColumns(records[0]); ok {
		keyCol, textCol = k, t
		records = records[1:]
	}

	m := make(map[string]string, len(records))
	for _, rec := range records {
		if len(rec) <= keyCol || len(rec) <= textCol {
			continue
		}
		key := strings.TrimSpace(rec[keyCol])
		if key == "" {
			continue
		}
		m[key] = strings.TrimSpace(rec[textCol])
	}
	return m, nil
}

func headerColumns(row []string) (keyCol, textCol int, ok bool) {
	keyCol, textCol = -1, -1
	for i, field := range row {
		name := strings.ToLower(strings.TrimSpace(field))
		switch {
		case keyCol < 0 && slices.Contains(keyHeaders, name):
			keyCol = i
		case textCol < 0 && slices.Contains(textHeaders, name):
			textCol = i
		}
	}
	if keyCol < 0 {
		return 0, 0, false
	}
	if textCol < 0 {
		textCol = keyCol + 1
	}
	return keyCol, textCol, true
}

// Sources is the number of loaded description files.
func (d *Descriptions) Sources() int {
	if d == nil {
		return 0
	}
	return len(d.sources)
}

// Lookup returns the text for song in the given source, or "" when the
// source or the song is unknown.
func (d *Descriptions) Lookup(source int, song string) string {
	if d == nil || source < 0 || source >= len(d.sources) {
		return ""
	}
	return d.sources[source][song]
}
