package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar names the variable pointing at an optional YAML file.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{"config.yaml", "/etc/photoalbum/config.yaml"}

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Photos    PhotosConfig    `koanf:"photos"`
	Site      SiteConfig      `koanf:"site"`
	Album     AlbumConfig     `koanf:"album"`
	Search    SearchConfig    `koanf:"search"`
	Session   SessionConfig   `koanf:"session"`
	Mail      MailConfig      `koanf:"mail"`
	Tagger    TaggerConfig    `koanf:"tagger"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Log       LogConfig       `koanf:"log"`
}

type ServerConfig struct {
	ListenAddr string `koanf:"listen_addr"`
	// BaseURL prefixes the links written into notification emails.
	BaseURL string `koanf:"base_url"`
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
}

type PhotosConfig struct {
	Backend string `koanf:"backend"`
	Path    string `koanf:"path"`
}

type SiteConfig struct {
	ID        int64    `koanf:"id"`
	Title     string   `koanf:"title"`
	Languages []string `koanf:"languages"`
	LoginURL  string   `koanf:"login_url"`
}

type AlbumConfig struct {
	PaginationLimit int  `koanf:"pagination_limit"`
	Comments        bool `koanf:"comments"`
}

type SearchConfig struct {
	Enabled  bool     `koanf:"enabled"`
	MaxLimit int      `koanf:"max_limit"`
	Locales  []string `koanf:"locales"`
}

type SessionConfig struct {
	Secret string        `koanf:"secret"`
	Cookie string        `koanf:"cookie"`
	Secure bool          `koanf:"secure"`
	TTL    time.Duration `koanf:"ttl"`
}

type MailConfig struct {
	Host          string        `koanf:"host"`
	Port          int           `koanf:"port"`
	Username      string        `koanf:"username"`
	Password      string        `koanf:"password"`
	UseTLS        bool          `koanf:"use_tls"`
	DefaultSender string        `koanf:"default_sender"`
	Timeout       time.Duration `koanf:"timeout"`
}

type TaggerConfig struct {
	Backend      string `koanf:"backend"`
	OllamaHost   string `koanf:"ollama_host"`
	OllamaModel  string `koanf:"ollama_model"`
	ClaudeAPIKey string `koanf:"claude_api_key"`
	ClaudeModel  string `koanf:"claude_model"`
}

// RateLimitConfig caps POST requests per client IP and minute.
type RateLimitConfig struct {
	Uploads  int `koanf:"uploads"`
	Comments int `koanf:"comments"`
}

type LogConfig struct {
	Level string `koanf:"level"`
	File  string `koanf:"file"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr: ":8080",
			BaseURL:    "http://localhost:8080",
		},
		Database: DatabaseConfig{Path: "/data/photoalbum.db"},
		Photos: PhotosConfig{
			Backend: "local",
			Path:    "/data/photos",
		},
		Site: SiteConfig{
			ID:        1,
			Title:     "Photo Album",
			Languages: []string{"en", "es", "ca"},
			LoginURL:  "/{lang}/login",
		},
		Album: AlbumConfig{
			PaginationLimit: 20,
			Comments:        true,
		},
		Search: SearchConfig{
			Enabled:  true,
			MaxLimit: 500,
			Locales:  []string{"en", "es", "ca"},
		},
		Session: SessionConfig{
			Cookie: "session",
			TTL:    24 * time.Hour,
		},
		Mail: MailConfig{
			Port:    25,
			Timeout: 30 * time.Second,
		},
		Tagger: TaggerConfig{
			OllamaHost:  "http://localhost:11434",
			OllamaModel: "moondream",
			ClaudeModel: "claude-opus-4-6",
		},
		RateLimit: RateLimitConfig{
			Uploads:  10,
			Comments: 30,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load layers configuration from built-in defaults, an optional YAML file,
// a .env file and finally environment variables, which win.
func Load() (*Config, error) {
	// A missing .env file is the normal case.
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate reports the first setting the service cannot start with.
func (c *Config) Validate() error {
	if c.Session.Secret == "" {
		return errors.New("session.secret is required")
	}
	if c.Site.ID <= 0 {
		return errors.New("site.id must be positive")
	}
	if len(c.Site.Languages) == 0 {
		return errors.New("site.languages must list at least one language")
	}
	if c.Album.PaginationLimit <= 0 {
		return errors.New("album.pagination_limit must be positive")
	}
	if c.Search.MaxLimit <= 0 {
		return errors.New("search.max_limit must be positive")
	}
	if c.Photos.Backend != "local" {
		return fmt.Errorf("unknown photos.backend %q", c.Photos.Backend)
	}
	switch c.Tagger.Backend {
	case "", "none", "ollama":
	case "claude":
		if c.Tagger.ClaudeAPIKey == "" {
			return errors.New("tagger.claude_api_key is required for the claude backend")
		}
	default:
		return fmt.Errorf("unknown tagger.backend %q", c.Tagger.Backend)
	}
	return nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"site.languages",
	"search.locales",
}

// processSliceFields splits comma separated env values for slice settings.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		var parts []string
		for _, p := range strings.Split(strVal, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"listen_addr": "server.listen_addr",
	"base_url":    "server.base_url",

	"db_path": "database.path",

	"photo_backend":    "photos.backend",
	"photo_local_path": "photos.path",

	"site_id":        "site.id",
	"site_title":     "site.title",
	"site_languages": "site.languages",
	"login_url":      "site.login_url",

	"pagination_limit":    "album.pagination_limit",
	"photoalbum_comments": "album.comments",

	"search_enabled":   "search.enabled",
	"search_max_limit": "search.max_limit",
	"search_locales":   "search.locales",

	"session_secret": "session.secret",
	"session_cookie": "session.cookie",
	"session_secure": "session.secure",
	"session_ttl":    "session.ttl",

	"smtp_host":           "mail.host",
	"smtp_port":           "mail.port",
	"smtp_username":       "mail.username",
	"smtp_password":       "mail.password",
	"smtp_use_tls":        "mail.use_tls",
	"smtp_timeout":        "mail.timeout",
	"mail_default_sender": "mail.default_sender",

	"tagger_backend": "tagger.backend",
	"ollama_host":    "tagger.ollama_host",
	"ollama_model":   "tagger.ollama_model",
	"claude_api_key": "tagger.claude_api_key",
	"claude_model":   "tagger.claude_model",

	"rate_limit_uploads":  "rate_limit.uploads",
	"rate_limit_comments": "rate_limit.comments",

	"log_level": "log.level",
	"log_file":  "log.file",
}

// envTransformFunc maps known environment variables to config paths and
// drops every other variable.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
