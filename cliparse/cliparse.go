package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/danielhkuo/tune-survey/models"
)

const (
	DefaultPort           = 3318
	DefaultDatabaseURL    = "survey.db"
	DefaultAudioDir       = "static/audio"
	DefaultAudioExt       = ".wav"
	DefaultResponseCap    = 3
	DefaultReservationTTL = 10 * time.Minute
	DefaultCORSOrigin     = "http://localhost:3000"
	DefaultEnvFile        = ".env"

	// MaxDescriptionFiles is the number of description sources a song can carry.
	MaxDescriptionFiles = 2
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	AudioDir         string
	AudioExt         string
	DescriptionFiles []string

	ResponseCap    int
	ProgressMode   models.ProgressMode
	AllowList      []string
	Features       []string
	ReservationTTL time.Duration

	CORSOrigin     string
	RateLimit      float64
	RateBurst      int
	TrustedProxies []netip.Prefix

	SurveyFile string
	EnvFile    string
}

// SurveyFile is the optional TOML policy file. Any value it sets is used
// only when neither a flag nor an env variable supplies one.
type SurveyFile struct {
	ResponseCap      *int     `toml:"response_cap"`
	ProgressMode     string   `toml:"progress_mode"`
	AllowList        []string `toml:"allow_list"`
	Features         []string `toml:"features"`
	DescriptionFiles []string `toml:"description_files"`
	ReservationTTL   string   `toml:"reservation_ttl"`
}

// LoadSurveyFile decodes the TOML policy file at path.
func LoadSurveyFile(path string) (SurveyFile, error) {
	var sf SurveyFile
	if _, err := toml.DecodeFile(path, &sf); err != nil {
		return SurveyFile{}, fmt.Errorf("failed to parse survey config %s: %w", path, err)
	}
	return sf, nil
}

// ParseFlags validates flags and fills the rest from env, .env and the survey file
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("tune-survey", flag.ContinueOnError)

	var descFiles, allowList, mode, ttl, proxies string

	// Network and storage
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL or SQLite file path")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Assets
	fs.StringVar(&cfg.AudioDir, "audio-dir", "", "Directory holding the audio clips")
	fs.StringVar(&cfg.AudioExt, "audio-ext", "", "Audio file extension")
	fs.StringVar(&descFiles, "descriptions", "", "Comma separated description CSV files (at most 2)")

	// Survey policy
	fs.IntVar(&cfg.ResponseCap, "cap", -1, "Distinct responders per song before it is retired (0 disables)")
	fs.StringVar(&mode, "progress-mode", "", "login-required or auto-create")
	fs.StringVar(&allowList, "allow", "", "Comma separated allowed user ids (empty allows everyone)")
	fs.StringVar(&ttl, "reservation-ttl", "", "How long a served song stays reserved for its user (0 disables)")

	// HTTP extras
	fs.StringVar(&cfg.CORSOrigin, "cors-origin", "", "Allowed CORS origin")
	fs.Float64Var(&cfg.RateLimit, "rate", -1, "Requests per second per client (0 disables)")
	fs.IntVar(&cfg.RateBurst, "burst", 0, "Rate limiter burst size")
	fs.StringVar(&proxies, "trusted-proxy", "", "Comma separated proxy IPs or CIDRs whose X-Forwarded-For is believed")

	fs.StringVar(&cfg.SurveyFile, "survey", "", "TOML survey policy file")
	fs.StringVar(&cfg.EnvFile, "env", "", "dotenv file to load")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// .env never overrides variables already set in the process
	if cfg.EnvFile == "" {
		cfg.EnvFile = os.Getenv("ENV_FILE")
	}
	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil {
			return Config{}, fmt.Errorf("failed to load env file %s: %w", cfg.EnvFile, err)
		}
	} else if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", DefaultEnvFile, err)
	}

	if cfg.SurveyFile == "" {
		cfg.SurveyFile = os.Getenv("SURVEY_CONFIG")
	}
	var sf SurveyFile
	if cfg.SurveyFile != "" {
		var err error
		if sf, err = LoadSurveyFile(cfg.SurveyFile); err != nil {
			return Config{}, err
		}
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}
	cfg.DatabaseURL = firstNonEmpty(cfg.DatabaseURL, os.Getenv("DATABASE_URL"), DefaultDatabaseURL)
	cfg.DatabaseType = firstNonEmpty(cfg.DatabaseType, os.Getenv("DATABASE_TYPE"), "sqlite")
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	cfg.AudioDir = firstNonEmpty(cfg.AudioDir, os.Getenv("AUDIO_DIR"), DefaultAudioDir)
	cfg.AudioExt = firstNonEmpty(cfg.AudioExt, os.Getenv("AUDIO_EXT"), DefaultAudioExt)
	if !strings.HasPrefix(cfg.AudioExt, ".") {
		cfg.AudioExt = "." + cfg.AudioExt
	}

	cfg.DescriptionFiles = splitList(firstNonEmpty(descFiles, os.Getenv("DESCRIPTION_FILES")))
	if len(cfg.DescriptionFiles) == 0 {
		cfg.DescriptionFiles = sf.DescriptionFiles
	}
	if len(cfg.DescriptionFiles) > MaxDescriptionFiles {
		return Config{}, fmt.Errorf("at most %d description files are supported", MaxDescriptionFiles)
	}

	if cfg.ResponseCap < 0 {
		if capStr := os.Getenv("RESPONSE_CAP"); capStr != "" {
			n, err := strconv.Atoi(capStr)
			if err != nil || n < 0 {
				return Config{}, errors.New("invalid RESPONSE_CAP env variable")
			}
			cfg.ResponseCap = n
		} else if sf.ResponseCap != nil {
			if *sf.ResponseCap < 0 {
				return Config{}, errors.New("response_cap must not be negative")
			}
			cfg.ResponseCap = *sf.ResponseCap
		} else {
			cfg.ResponseCap = DefaultResponseCap
		}
	}

	cfg.ProgressMode = models.ProgressMode(firstNonEmpty(mode, os.Getenv("PROGRESS_MODE"), sf.ProgressMode, string(models.ProgressLoginRequired)))
	if !cfg.ProgressMode.Valid() {
		return Config{}, fmt.Errorf("invalid progress mode %q", cfg.ProgressMode)
	}

	cfg.AllowList = splitList(firstNonEmpty(allowList, os.Getenv("ALLOW_LIST")))
	if len(cfg.AllowList) == 0 {
		cfg.AllowList = sf.AllowList
	}

	cfg.Features = sf.Features
	if len(cfg.Features) == 0 {
		cfg.Features = models.DefaultFeatures
	}

	cfg.ReservationTTL = DefaultReservationTTL
	if ttlStr := firstNonEmpty(ttl, os.Getenv("RESERVATION_TTL"), sf.ReservationTTL); ttlStr != "" {
		d, err := time.ParseDuration(ttlStr)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("invalid reservation ttl %q", ttlStr)
		}
		cfg.ReservationTTL = d
	}

	cfg.CORSOrigin = firstNonEmpty(cfg.CORSOrigin, os.Getenv("CORS_ORIGIN"), DefaultCORSOrigin)

	if cfg.RateLimit < 0 {
		cfg.RateLimit = 0
		if rateStr := os.Getenv("RATE_LIMIT"); rateStr != "" {
			r, err := strconv.ParseFloat(rateStr, 64)
			if err != nil || r < 0 {
				return Config{}, errors.New("invalid RATE_LIMIT env variable")
			}
			cfg.RateLimit = r
		}
	}
	if cfg.RateBurst == 0 {
		if burstStr := os.Getenv("RATE_BURST"); burstStr != "" {
			b, err := strconv.Atoi(burstStr)
			if err != nil || b < 1 {
				return Config{}, errors.New("invalid RATE_BURST env variable")
			}
			cfg.RateBurst = b
		}
	}
	if cfg.RateLimit > 0 && cfg.RateBurst < 1 {
		cfg.RateBurst = max(1, int(cfg.RateLimit))
	}

	for _, p := range splitList(firstNonEmpty(proxies, os.Getenv("TRUSTED_PROXY"))) {
		prefix, err := parseProxy(p)
		if err != nil {
			return Config{}, fmt.Errorf("invalid trusted proxy %q: %w", p, err)
		}
		cfg.TrustedProxies = append(cfg.TrustedProxies, prefix)
	}

	return cfg, nil
}

// parseProxy accepts a bare address or a CIDR
func parseProxy(s string) (netip.Prefix, error) {
	if strings.Contains(s, "/") {
		prefix, err := netip.ParsePrefix(s)
		if err != nil {
			return netip.Prefix{}, err
		}
		return prefix.Masked(), nil
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, err
	}
	addr = addr.Unmap()
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
