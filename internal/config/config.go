// Package config loads hackfind settings.
//
// Settings are resolved in order, later sources winning:
//
//  1. built-in defaults (Default)
//  2. a YAML file, ~/.config/hackfind/config.yaml unless --config names another
//  3. a .env file in the working directory, then the process environment
//  4. command-line flags, applied by the cli package
//
// Validate is called once everything has been applied.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/hackfind/internal/api"
	"github.com/pfrederiksen/hackfind/internal/filter"
	"github.com/pfrederiksen/hackfind/internal/logger"
	"github.com/pfrederiksen/hackfind/internal/pager"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIURL   = "HACKFIND_API_URL"
	EnvDataDir  = "HACKFIND_DATA_DIR"
	EnvPageSize = "HACKFIND_PAGE_SIZE"
	EnvLogLevel = "HACKFIND_LOG_LEVEL"
	EnvGistID   = "HACKFIND_GIST_ID"
	EnvToken    = "GITHUB_TOKEN"
)

const (
	// DefaultDataDir holds bookmarks.json.
	DefaultDataDir = "~/.local/share/hackfind"
	// DefaultConfigPath is read when no --config flag is given.
	DefaultConfigPath = "~/.config/hackfind/config.yaml"
)

// Config holds every hackfind setting.
type Config struct {
	APIURL          string        `yaml:"api_url"`
	DataDir         string        `yaml:"data_dir"`
	PageSize        int           `yaml:"page_size"`
	ScrollThreshold int           `yaml:"scroll_threshold"`
	LogLevel        string        `yaml:"log_level"`
	Fetch           FetchConfig   `yaml:"fetch"`
	Sources         SourcesConfig `yaml:"sources"`
	Gist            GistConfig    `yaml:"gist"`
}

// FetchConfig controls how records are downloaded.
type FetchConfig struct {
	PageSize        int           `yaml:"page_size"`
	MaxPages        int           `yaml:"max_pages"`
	SortBy          string        `yaml:"sort_by"`
	Timeout         time.Duration `yaml:"timeout"`
	RequestInterval time.Duration `yaml:"request_interval"`
	MaxRetries      int           `yaml:"max_retries"`
}

// SourcesConfig controls the initial source selection.
type SourcesConfig struct {
	// Preferred sources are preselected on first load. Empty selects all.
	Preferred []string `yaml:"preferred"`
}

// GistConfig enables Gist-synced bookmarks. The token is only read from the
// environment.
type GistConfig struct {
	ID     string `yaml:"id"`
	APIURL string `yaml:"api_url"`
	Token  string `yaml:"-"`
}

// Enabled reports whether bookmarks should be stored in a Gist.
func (g GistConfig) Enabled() bool {
	return g.ID != ""
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		APIURL:          api.DefaultBaseURL,
		DataDir:         DefaultDataDir,
		PageSize:        pager.DefaultPageSize,
		ScrollThreshold: pager.DefaultThreshold,
		LogLevel:        "warn",
		Fetch: FetchConfig{
			PageSize:        api.DefaultPageSize,
			MaxPages:        api.DefaultMaxPages,
			SortBy:          api.DefaultSortBy,
			Timeout:         30 * time.Second,
			RequestInterval: 100 * time.Millisecond,
			MaxRetries:      api.DefaultRetryConfig.MaxRetries,
		},
		Sources: SourcesConfig{
			Preferred: append([]string(nil), filter.PreferredSources...),
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path and the
// environment. An empty path reads DefaultConfigPath if it exists; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	required := path != ""
	if path == "" {
		path = DefaultConfigPath
	}

	if err := cfg.LoadFile(path, required); err != nil {
		return nil, err
	}

	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFile merges the YAML file at path into c. Keys missing from the file
// keep their current values.
func (c *Config) LoadFile(path string, required bool) error {
	expanded, err := expandHome(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}

	logger.Debug("Loaded config file", logger.Fields{"path": expanded})
	return nil
}

// ApplyEnv overrides settings from environment variables looked up with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := getenv(EnvPageSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", EnvPageSize, v)
		}
		c.PageSize = n
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvGistID); v != "" {
		c.Gist.ID = v
	}
	if v := getenv(EnvToken); v != "" {
		c.Gist.Token = v
	}
	return nil
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api_url must be an http(s) URL, got %q", c.APIURL))
	}
	if strings.TrimSpace(c.DataDir) == "" {
		errs = append(errs, errors.New("data_dir is required"))
	}
	if c.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("page_size must be positive, got %d", c.PageSize))
	}
	if c.ScrollThreshold < 0 {
		errs = append(errs, fmt.Errorf("scroll_threshold cannot be negative, got %d", c.ScrollThreshold))
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.Fetch.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("fetch.page_size must be positive, got %d", c.Fetch.PageSize))
	}
	if c.Fetch.MaxPages <= 0 {
		errs = append(errs, fmt.Errorf("fetch.max_pages must be positive, got %d", c.Fetch.MaxPages))
	}
	if c.Fetch.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("fetch.timeout must be positive, got %s", c.Fetch.Timeout))
	}
	if c.Fetch.RequestInterval < 0 {
		errs = append(errs, fmt.Errorf("fetch.request_interval cannot be negative, got %s", c.Fetch.RequestInterval))
	}
	if c.Fetch.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("fetch.max_retries cannot be negative, got %d", c.Fetch.MaxRetries))
	}
	if c.Gist.Enabled() && c.Gist.Token == "" {
		errs = append(errs, fmt.Errorf("gist.id is set but %s is empty", EnvToken))
	}

	return errors.Join(errs...)
}

// Level returns the parsed log level, falling back to WARN.
func (c *Config) Level() logger.Level {
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return logger.LevelWarn
	}
	return level
}

// ClientOptions returns the api.Client options for the fetch settings.
func (c *Config) ClientOptions() []api.Option {
	return []api.Option{
		api.WithPageSize(c.Fetch.PageSize),
		api.WithMaxPages(c.Fetch.MaxPages),
		api.WithSortBy(c.Fetch.SortBy),
		api.WithRateLimit(c.Fetch.RequestInterval),
		api.WithRetry(api.RetryConfig{
			MaxRetries:  c.Fetch.MaxRetries,
			InitialWait: api.DefaultRetryConfig.InitialWait,
			MaxWait:     api.DefaultRetryConfig.MaxWait,
		}),
		api.WithTimeout(c.Fetch.Timeout),
	}
}

func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/")), nil
	}
	return path, nil
}
