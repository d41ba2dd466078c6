package config

import (
	"errors"
	"io"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultUserAgent is a desktop browser identification used for outbound
// page fetches; several platforms serve stripped pages to unknown agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

type ServerConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	LegacyRoutes *bool  `yaml:"legacyRoutes"`
}

// LegacyRoutesEnabled reports whether the per-platform endpoints
// (/insta-metadata, /yt-metadata) are mounted. Defaults to true.
func (s ServerConfig) LegacyRoutesEnabled() bool {
	return s.LegacyRoutes == nil || *s.LegacyRoutes
}

type ScraperConfig struct {
	UserAgent string `yaml:"userAgent"`
	TimeoutMs int    `yaml:"timeoutMs"`

	// Languages overrides the Accept-Language sent to generic pages.
	Languages []string          `yaml:"languages"`
	Headers   map[string]string `yaml:"headers"`
}

type RobotsConfig struct {
	Respect bool `yaml:"respect"`
}

type RodConfig struct {
	Enabled    bool   `yaml:"enabled"`
	BrowserURL string `yaml:"browserURL"`
}

type InstagramConfig struct {
	BaseURL   string `yaml:"baseURL"`
	DocID     string `yaml:"docID"`
	AppID     string `yaml:"appID"`
	TimeoutMs int    `yaml:"timeoutMs"`
}

// YouTubeConfig selects and parameterizes the YouTube fetch strategy.
type YouTubeConfig struct {
	// Strategy is one of "scrape", "innertube" or "api".
	Strategy string `yaml:"strategy"`

	APIKey      string `yaml:"apiKey"`
	APIEndpoint string `yaml:"apiEndpoint"`

	InnertubeURL   string   `yaml:"innertubeURL"`
	DebugDumps     bool     `yaml:"debugDumps"`
	DebugDir       string   `yaml:"debugDir"`
	DebugPatterns  []string `yaml:"debugPatterns"`
	CleanupDelayMs int      `yaml:"cleanupDelayMs"`

	TimeoutMs int `yaml:"timeoutMs"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	Robots    RobotsConfig    `yaml:"robots"`
	Rod       RodConfig       `yaml:"rod"`
	Instagram InstagramConfig `yaml:"instagram"`
	YouTube   YouTubeConfig   `yaml:"youtube"`
}

// Load reads the yaml config at path, applies defaults and environment
// overrides. A missing file yields the defaults; a malformed one is fatal.
func Load(path string) *Config {
	var cfg *Config

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		cfg, err = Parse(f)
		if err != nil {
			log.Fatalf("failed to decode config: %v", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		cfg = Default()
	default:
		log.Fatalf("failed to open config file: %v", err)
	}

	cfg.ApplyEnv(os.Getenv)
	return cfg
}

// Parse decodes yaml from r and fills in defaults for unset fields.
func Parse(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a config with every field at its default value.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Scraper.UserAgent == "" {
		c.Scraper.UserAgent = DefaultUserAgent
	}
	if c.Scraper.TimeoutMs <= 0 {
		c.Scraper.TimeoutMs = 10000
	}

	if c.Instagram.BaseURL == "" {
		c.Instagram.BaseURL = "https://www.instagram.com"
	}
	if c.Instagram.DocID == "" {
		c.Instagram.DocID = "8845758582119845"
	}
	if c.Instagram.AppID == "" {
		c.Instagram.AppID = "936619743392459"
	}
	if c.Instagram.TimeoutMs <= 0 {
		c.Instagram.TimeoutMs = 15000
	}

	c.YouTube.Strategy = normalizeStrategy(c.YouTube.Strategy)
	if c.YouTube.Strategy == "" {
		c.YouTube.Strategy = "api"
	}
	if c.YouTube.InnertubeURL == "" {
		c.YouTube.InnertubeURL = "https://www.youtube.com/youtubei/v1/player"
	}
	if c.YouTube.DebugDir == "" {
		c.YouTube.DebugDir = "."
	}
	if len(c.YouTube.DebugPatterns) == 0 {
		c.YouTube.DebugPatterns = []string{"*-player-script.json"}
	}
	if c.YouTube.CleanupDelayMs <= 0 {
		c.YouTube.CleanupDelayMs = 1000
	}
	if c.YouTube.TimeoutMs <= 0 {
		c.YouTube.TimeoutMs = 15000
	}
}

// ApplyEnv overlays environment variables on top of file values.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv("YOUTUBE_API_KEY")); v != "" {
		c.YouTube.APIKey = v
	}
	if v := normalizeStrategy(getenv("METAGRAB_YOUTUBE_STRATEGY")); v != "" {
		c.YouTube.Strategy = v
	}
	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Server.Port = port
		}
	}
}

func normalizeStrategy(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
