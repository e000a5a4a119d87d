// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Sources

Each setting is resolved in order, first hit wins:

 1. CLI flag
 2. Environment variable (a .env file is loaded first, without overriding)
 3. TOML survey file (-survey or SURVEY_CONFIG)
 4. Built-in default

# CLI Flags

	-p                Server port (PORT, default 3318)
	-d                Database URL or SQLite path (DATABASE_URL, default survey.db)
	-t                sqlite or postgres (DATABASE_TYPE, default sqlite)
	-audio-dir        Audio clip directory (AUDIO_DIR, default static/audio)
	-audio-ext        Audio extension (AUDIO_EXT, default .wav)
	-descriptions     Description CSV files, comma separated (DESCRIPTION_FILES)
	-cap              Response cap per song (RESPONSE_CAP, default 3, 0 disables)
	-progress-mode    login-required or auto-create (PROGRESS_MODE)
	-allow            Allowed user ids, comma separated (ALLOW_LIST)
	-reservation-ttl  Hold time for a served song (RESERVATION_TTL, default 10m)
	-cors-origin      Allowed origin (CORS_ORIGIN)
	-rate, -burst     Per-client rate limit (RATE_LIMIT, RATE_BURST)
	-trusted-proxy    Proxy IPs or CIDRs allowed to set X-Forwarded-For (TRUSTED_PROXY)
	-survey           TOML survey file (SURVEY_CONFIG)
	-env              dotenv file (ENV_FILE, default .env if present)

# Survey File

	response_cap = 3
	progress_mode = "login-required"
	allow_list = ["p01", "p02"]
	features = ["Soothing", "Playful"]
	description_files = ["descriptions.csv"]
	reservation_ttl = "10m"
*/
package cliparse
