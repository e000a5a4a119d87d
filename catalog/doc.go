// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package catalog knows which songs exist and what was written about them.

# Songs

The song set is the audio directory listing, read on every call so clips
can be added without a restart:

	songs, err := catalog.ListSongs(cfg.AudioDir, cfg.AudioExt)

# Descriptions

Pre-generated per-song text comes from up to two CSV files keyed by
filename. They are loaded once at startup and never refreshed:

	descs, err := catalog.LoadDescriptions(cfg.DescriptionFiles...)
	text := descs.Lookup(0, "track1.wav") // "" when absent

Accepted layouts:

	filename,description
	track1.wav,calm

or headerless two-column rows.
*/
package catalog
