// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// ListSongs returns the names of the regular files in dir ending in ext,
// sorted. The suffix match is case-sensitive and dot files are included.
func ListSongs(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list audio dir: %w", err)
	}

	songs := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() {
			continue
		}
		if strings.HasSuffix(name, ext) {
			songs = append(songs, name)
		}
	}
	sort.Strings(songs)
	return songs, nil
}
