// Package config loads encarview settings from .env files, the environment
// and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys. Each doubles as the environment variable name once upper-cased.
const (
	KeyAPIBaseURL    = "api_base_url"
	KeyAPITimeout    = "api_timeout"
	KeyAPIStrict     = "api_strict"
	KeyPageSize      = "page_size"
	KeyListenAddr    = "listen_addr"
	KeyOptionsTTL    = "options_ttl"
	KeyRateLimit     = "rate_limit"
	KeyRateBurst     = "rate_burst"
	KeyLogLevel      = "log_level"
	KeyLogFormat     = "log_format"
	KeyLogFile       = "log_file"
	KeyFluentEnabled = "fluentbit_enabled"
	KeyFluentHost    = "fluentbit_host"
	KeyFluentPort    = "fluentbit_port"
	KeyServiceName   = "otel_service_name"
)

// Config holds all settings.
type Config struct {
	APIBaseURL string
	APITimeout time.Duration
	APIStrict  bool
	PageSize   int

	ListenAddr string
	OptionsTTL time.Duration
	RateLimit  float64
	RateBurst  int

	LogLevel  string
	LogFormat string
	LogFile   string

	FluentEnabled bool
	FluentHost    string
	FluentPort    int

	ServiceName string
}

// New returns a viper instance with defaults set and the environment bound.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyAPIBaseURL, "http://localhost:8000/api")
	v.SetDefault(KeyAPITimeout, 10*time.Second)
	v.SetDefault(KeyAPIStrict, false)
	v.SetDefault(KeyPageSize, 20)
	v.SetDefault(KeyListenAddr, ":8080")
	v.SetDefault(KeyOptionsTTL, 10*time.Minute)
	v.SetDefault(KeyRateLimit, 50.0)
	v.SetDefault(KeyRateBurst, 100)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyLogFile, "encarview.log")
	v.SetDefault(KeyFluentEnabled, false)
	v.SetDefault(KeyFluentHost, "127.0.0.1")
	v.SetDefault(KeyFluentPort, 24224)
	v.SetDefault(KeyServiceName, "encarview")
	v.AutomaticEnv()
	return v
}

// LoadDotEnv loads the given .env files (default ".env") into the process
// environment. Missing files are skipped; existing variables win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"api-base-url": KeyAPIBaseURL,
	"api-timeout":  KeyAPITimeout,
	"strict":       KeyAPIStrict,
	"page-size":    KeyPageSize,
	"listen":       KeyListenAddr,
	"log-level":    KeyLogLevel,
	"log-format":   KeyLogFormat,
	"log-file":     KeyLogFile,
}

// RegisterFlags adds the shared flags to fs. Flag defaults are left zero so
// that an unset flag never shadows the environment.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("api-base-url", "", "catalog API base URL (env API_BASE_URL)")
	fs.Duration("api-timeout", 0, "catalog API request timeout (env API_TIMEOUT)")
	fs.Bool("strict", false, "reject list payloads that are not a bare array (env API_STRICT)")
	fs.Int("page-size", 0, "cars per page (env PAGE_SIZE)")
	fs.String("listen", "", "web listen address (env LISTEN_ADDR)")
	fs.String("log-level", "", "debug, info, warn or error (env LOG_LEVEL)")
	fs.String("log-format", "", "text or json (env LOG_FORMAT)")
	fs.String("log-file", "", "log file used by the terminal UI (env LOG_FILE)")
}

// BindFlags binds every registered flag present in fs to its key. Only
// flags the user actually set override other sources.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads and validates the settings held by v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		APIBaseURL:    strings.TrimSpace(v.GetString(KeyAPIBaseURL)),
		APITimeout:    v.GetDuration(KeyAPITimeout),
		APIStrict:     v.GetBool(KeyAPIStrict),
		PageSize:      v.GetInt(KeyPageSize),
		ListenAddr:    v.GetString(KeyListenAddr),
		OptionsTTL:    v.GetDuration(KeyOptionsTTL),
		RateLimit:     v.GetFloat64(KeyRateLimit),
		RateBurst:     v.GetInt(KeyRateBurst),
		LogLevel:      strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:     strings.ToLower(v.GetString(KeyLogFormat)),
		LogFile:       v.GetString(KeyLogFile),
		FluentEnabled: v.GetBool(KeyFluentEnabled),
		FluentHost:    v.GetString(KeyFluentHost),
		FluentPort:    v.GetInt(KeyFluentPort),
		ServiceName:   v.GetString(KeyServiceName),
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings for values the program cannot run with.
func (c Config) Validate() error {
	var errs []error
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("%s: %q is not an http(s) URL", strings.ToUpper(KeyAPIBaseURL), c.APIBaseURL))
	}
	if c.APITimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", strings.ToUpper(KeyAPITimeout)))
	}
	if c.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", strings.ToUpper(KeyPageSize)))
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		errs = append(errs, fmt.Errorf("%s and %s must not be negative", strings.ToUpper(KeyRateLimit), strings.ToUpper(KeyRateBurst)))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%s: unknown format %q", strings.ToUpper(KeyLogFormat), c.LogFormat))
	}
	if c.FluentEnabled && (c.FluentHost == "" || c.FluentPort <= 0) {
		errs = append(errs, fmt.Errorf("fluent bit enabled without host and port"))
	}
	return errors.Join(errs...)
}
