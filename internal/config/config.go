package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/thomas-vilte/prtriage/internal/errors"
	"github.com/thomas-vilte/prtriage/internal/filters"
	"github.com/thomas-vilte/prtriage/internal/scoring"
)

type (
	Config struct {
		Language     string          `toml:"language"`
		GitHubToken  string          `toml:"github_token,omitempty"`
		GitHubAPIURL string          `toml:"github_api_url,omitempty"`
		GitHubApp    GitHubAppConfig `toml:"github_app"`
		DefaultLimit int             `toml:"default_limit"`
		Cache        CacheConfig     `toml:"cache"`
		Filters      filters.Config  `toml:"filters"`
		Weights      scoring.Weights `toml:"weights"`
		Server       ServerConfig    `toml:"server"`

		PathFile string `toml:"-"`
		envToken string
		envAdmin string
	}

	// GitHubAppConfig authenticates as a GitHub App installation instead of a personal token.
	GitHubAppConfig struct {
		AppID          int64  `toml:"app_id,omitempty"`
		InstallationID int64  `toml:"installation_id,omitempty"`
		PrivateKeyPath string `toml:"private_key_path,omitempty"`
	}

	CacheConfig struct {
		Backend    string   `toml:"backend"`
		TTL        Duration `toml:"ttl"`
		MaxEntries int      `toml:"max_entries"`
		Path       string   `toml:"path,omitempty"`
	}

	ServerConfig struct {
		Addr                string   `toml:"addr"`
		ClientRatePerMinute int      `toml:"client_rate_per_minute"`
		GlobalRatePerMinute int      `toml:"global_rate_per_minute"`
		AdminToken          string   `toml:"admin_token,omitempty"`
		ShutdownTimeout     Duration `toml:"shutdown_timeout"`
	}
)

const (
	CacheMemory = "memory"
	CacheSQLite = "sqlite"
	CacheNone   = "none"

	DefaultLimit = 50
	MinLimit     = 1
	MaxLimit     = 1000

	defaultLang       = LangEN
	defaultCacheTTL   = 5 * time.Minute
	defaultCacheSize  = 100
	defaultAddr       = ":8080"
	defaultClientRate = 10
	defaultGlobalRate = 200
	configDirName     = ".prtriage"
	configFileName    = "config.toml"
)

// Duration is a time.Duration written as "5m" in TOML.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func Default() *Config {
	return &Config{
		Language:     defaultLang,
		DefaultLimit: DefaultLimit,
		Cache: CacheConfig{
			Backend:    CacheMemory,
			TTL:        Duration{defaultCacheTTL},
			MaxEntries: defaultCacheSize,
		},
		Filters: filters.DefaultConfig(),
		Weights: scoring.DefaultWeights(),
		Server: ServerConfig{
			Addr:                defaultAddr,
			ClientRatePerMinute: defaultClientRate,
			GlobalRatePerMinute: defaultGlobalRate,
			ShutdownTimeout:     Duration{10 * time.Second},
		},
	}
}

// DefaultPath returns ~/.prtriage/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error resolving home directory: %w", err)
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// Load reads the configuration at path, creating it with defaults when missing.
// An empty path means DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		cfg.PathFile = path
		if err := Save(cfg); err != nil {
			return nil, err
		}
		cfg.applyEnv()
		return cfg, nil
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, apperrors.ErrConfigInvalid.WithError(err).WithContext("path", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, apperrors.ErrConfigInvalid.
			WithContext("path", path).
			WithContext("detail", "unknown keys: "+strings.Join(keys, ", "))
	}

	cfg.PathFile = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// Save validates cfg and writes it to cfg.PathFile. The file may hold a token,
// so it is only readable by the owner.
func Save(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.PathFile == "" {
		return apperrors.ErrConfigMissing.WithContext("detail", "config path is not set")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.PathFile), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	f, err := os.OpenFile(cfg.PathFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	for _, name := range []string{"GITHUB_TOKEN", "GH_TOKEN"} {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			c.envToken = v
			break
		}
	}
	c.envAdmin = strings.TrimSpace(os.Getenv("PRTRIAGE_ADMIN_TOKEN"))
}

// Token returns the GitHub token, preferring GITHUB_TOKEN or GH_TOKEN over the file.
func (c *Config) Token() string {
	if c.envToken != "" {
		return c.envToken
	}
	return c.GitHubToken
}

func (c *Config) AdminToken() string {
	if c.envAdmin != "" {
		return c.envAdmin
	}
	return c.Server.AdminToken
}

func (c *Config) UsesGitHubApp() bool {
	return c.GitHubApp.AppID != 0
}

func (c *Config) Validate() error {
	invalid := func(detail string) error {
		return apperrors.ErrConfigInvalid.WithContext("detail", detail)
	}

	if !isSupportedLanguage(c.Language) {
		return invalid(fmt.Sprintf("language %q is not supported (use %s)", c.Language, strings.Join(supportedLanguages, ", ")))
	}
	if c.DefaultLimit < MinLimit || c.DefaultLimit > MaxLimit {
		return invalid(fmt.Sprintf("default_limit must be between %d and %d", MinLimit, MaxLimit))
	}

	switch c.Cache.Backend {
	case CacheMemory, CacheSQLite:
		if c.Cache.TTL.Duration <= 0 {
			return invalid("cache.ttl must be positive")
		}
		if c.Cache.MaxEntries <= 0 {
			return invalid("cache.max_entries must be positive")
		}
	case CacheNone:
	default:
		return invalid(fmt.Sprintf("cache.backend %q is not one of memory, sqlite, none", c.Cache.Backend))
	}

	w := c.Weights
	for name, v := range map[string]float64{
		"lines": w.Lines, "files": w.Files, "file_types": w.FileTypes, "deps": w.Deps,
		"tests": w.Tests, "docs": w.Docs, "cross_cutting": w.CrossCutting,
	} {
		if v < 0 {
			return invalid(fmt.Sprintf("weights.%s must not be negative", name))
		}
	}

	if c.Server.ClientRatePerMinute <= 0 || c.Server.GlobalRatePerMinute <= 0 {
		return invalid("server rate limits must be positive")
	}

	if c.GitHubApp.AppID != 0 && (c.GitHubApp.InstallationID == 0 || c.GitHubApp.PrivateKeyPath == "") {
		return invalid("github_app needs installation_id and private_key_path")
	}
	return nil
}

func isSupportedLanguage(lang string) bool {
	for _, l := range supportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// MaskSecret keeps the first and last four characters of long secrets.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 12 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
}
