// Package config manages application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/qepting91/reddit-leanback/internal/collector"
	"github.com/qepting91/reddit-leanback/internal/domain"
	"github.com/qepting91/reddit-leanback/internal/ingest"
	"github.com/qepting91/reddit-leanback/internal/playlist"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "leanback.yaml"

// subredditPathRegex accepts listing paths: /r/name, /r/a+b, /r/name/top
var subredditPathRegex = regexp.MustCompile(`^/r/[A-Za-z0-9_]{2,21}(\+[A-Za-z0-9_]{2,21})*(/[A-Za-z0-9_]+)*$`)

// Config holds everything a sync run needs.
type Config struct {
	// Playlists maps each playlist to its subreddits, in run order.
	Playlists []domain.PlaylistSpec `yaml:"-"`
	// PlaylistsCSV optionally names a playlist,subreddit CSV merged into Playlists
	PlaylistsCSV string `yaml:"playlists_csv"`

	// Feed settings
	CollectorMode string   `yaml:"collector_mode"`
	FeedBaseURL   string   `yaml:"feed_base_url"`
	UserAgent     string   `yaml:"user_agent"`
	ListingLimit  int      `yaml:"listing_limit"`
	Domains       []string `yaml:"domains"`

	// PaceDelay spaces consecutive playlist insertions
	PaceDelay      time.Duration `yaml:"pace_delay"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// KeyFile holds the OAuth client secrets for the video host
	KeyFile  string `yaml:"key_file"`
	TokenDir string `yaml:"token_dir"`
	Privacy  string `yaml:"privacy"`

	LogFormat string `yaml:"log_format"`

	// Reddit API credentials, only read from the environment
	RedditClientID     string `yaml:"-"`
	RedditClientSecret string `yaml:"-"`
	RedditUsername     string `yaml:"-"`
	RedditPassword     string `yaml:"-"`
}

// fileConfig is the on-disk shape; playlists are a name -> subreddits mapping.
type fileConfig struct {
	Config    `yaml:",inline"`
	Playlists map[string][]string `yaml:"playlists"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Playlists: []domain.PlaylistSpec{
			{Name: "Reddit Happy", Subreddits: []string{"/r/aww", "/r/funny"}},
			{Name: "Reddit Videos", Subreddits: []string{"/r/videos"}},
		},
		CollectorMode:  collector.ModePublic,
		FeedBaseURL:    collector.DefaultBaseURL,
		UserAgent:      "reddit-leanback/1.0",
		ListingLimit:   playlist.DefaultListingLimit,
		Domains:        slices.Clone(playlist.DefaultDomains),
		PaceDelay:      playlist.DefaultPaceDelay,
		RequestTimeout: 30 * time.Second,
		KeyFile:        filepath.Join(home, ".youtubeDevKey"),
		TokenDir:       filepath.Join(home, ".config", "reddit-leanback"),
		Privacy:        "private",
		LogFormat:      "json",
	}
}

// Load builds the configuration: defaults, then the YAML file at path (or
// DefaultPath / LEANBACK_CONFIG when empty), then environment overrides.
// A missing default file is fine; a missing explicit file is not.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("LEANBACK_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath
	}

	if err := cfg.loadFromFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if cfg.PlaylistsCSV != "" {
		specs, err := ingest.LoadPlaylists(cfg.PlaylistsCSV)
		if err != nil {
			return nil, fmt.Errorf("load playlists csv: %w", err)
		}
		cfg.Playlists = mergeSpecs(cfg.Playlists, specs)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fc := fileConfig{Config: *c}
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	*c = fc.Config
	if fc.Playlists != nil {
		c.Playlists = specsFromMap(fc.Playlists)
	}
	return nil
}

// specsFromMap orders playlists by name so runs are repeatable.
func specsFromMap(m map[string][]string) []domain.PlaylistSpec {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)

	specs := make([]domain.PlaylistSpec, 0, len(names))
	for _, name := range names {
		specs = append(specs, domain.PlaylistSpec{Name: name, Subreddits: slices.Clone(m[name])})
	}
	return specs
}

func mergeSpecs(base, extra []domain.PlaylistSpec) []domain.PlaylistSpec {
	out := slices.Clone(base)
	for _, e := range extra {
		i := slices.IndexFunc(out, func(s domain.PlaylistSpec) bool { return s.Name == e.Name })
		if i < 0 {
			out = append(out, e)
			continue
		}
		merged := slices.Clone(out[i].Subreddits)
		for _, sub := range e.Subreddits {
			if !slices.Contains(merged, sub) {
				merged = append(merged, sub)
			}
		}
		out[i].Subreddits = merged
	}
	return out
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("COLLECTOR_MODE"); v != "" {
		c.CollectorMode = v
	}
	if v := os.Getenv("REDDIT_USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv("LEANBACK_FEED_BASE_URL"); v != "" {
		c.FeedBaseURL = v
	}
	if v := os.Getenv("LEANBACK_LISTING_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ListingLimit = n
		}
	}
	if v := os.Getenv("LEANBACK_PACE_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.PaceDelay = d
		}
	}
	if v := os.Getenv("LEANBACK_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RequestTimeout = d
		}
	}
	if v := os.Getenv("LEANBACK_KEY_FILE"); v != "" {
		c.KeyFile = v
	}
	if v := os.Getenv("LEANBACK_TOKEN_DIR"); v != "" {
		c.TokenDir = v
	}
	if v := os.Getenv("LEANBACK_PLAYLISTS_CSV"); v != "" {
		c.PlaylistsCSV = v
	}
	if v := os.Getenv("LEANBACK_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	c.RedditClientID = os.Getenv("REDDIT_CLIENT_ID")
	c.RedditClientSecret = os.Getenv("REDDIT_CLIENT_SECRET")
	c.RedditUsername = os.Getenv("REDDIT_USERNAME")
	c.RedditPassword = os.Getenv("REDDIT_PASSWORD")
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if len(c.Playlists) == 0 {
		return fmt.Errorf("no playlists configured")
	}
	seen := make(map[string]bool, len(c.Playlists))
	for _, p := range c.Playlists {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("playlist name must not be empty")
		}
		if seen[p.Name] {
			return fmt.Errorf("playlist %q configured twice", p.Name)
		}
		seen[p.Name] = true
		if len(p.Subreddits) == 0 {
			return fmt.Errorf("playlist %q has no subreddits", p.Name)
		}
		for _, sub := range p.Subreddits {
			if !subredditPathRegex.MatchString(sub) {
				return fmt.Errorf("playlist %q: invalid subreddit path %q (want /r/name[+name][/listing])", p.Name, sub)
			}
		}
	}
	switch c.CollectorMode {
	case collector.ModePublic, collector.ModeAPI, collector.ModeMock:
	default:
		return fmt.Errorf("collector_mode must be public, api or mock, got %q", c.CollectorMode)
	}
	if c.ListingLimit <= 0 || c.ListingLimit > 100 {
		return fmt.Errorf("listing_limit must be between 1 and 100")
	}
	if len(c.Domains) == 0 {
		return fmt.Errorf("domains must not be empty")
	}
	if c.PaceDelay < 0 {
		return fmt.Errorf("pace_delay must be non-negative")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	switch c.Privacy {
	case "private", "unlisted", "public":
	default:
		return fmt.Errorf("privacy must be private, unlisted or public, got %q", c.Privacy)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("log_format must be json or text, got %q", c.LogFormat)
	}
	return nil
}

// CollectorOptions maps the feed settings onto collector options.
func (c *Config) CollectorOptions() collector.Options {
	return collector.Options{
		Mode:         c.CollectorMode,
		BaseURL:      c.FeedBaseURL,
		UserAgent:    c.UserAgent,
		Timeout:      c.RequestTimeout,
		ClientID:     c.RedditClientID,
		ClientSecret: c.RedditClientSecret,
		Username:     c.RedditUsername,
		Password:     c.RedditPassword,
	}
}
