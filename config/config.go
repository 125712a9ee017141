package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/feedlink/backend/internal/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig          `mapstructure:"server"`
	Auth       AuthConfig            `mapstructure:"auth"`
	Fetch      FetchConfig           `mapstructure:"fetch"`
	Parsing    ParsingConfig         `mapstructure:"parsing"`
	BaseLinker BaseLinkerConfig      `mapstructure:"baselinker"`
	Feeds      map[string]FeedConfig `mapstructure:"feeds"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AuthConfig holds the shared access password; empty disables the gate
type AuthConfig struct {
	Password string `mapstructure:"password"`
}

// FetchConfig holds supplier feed download settings
type FetchConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// ParsingConfig holds feed parsing settings
type ParsingConfig struct {
	PreferredLanguage string `mapstructure:"preferred_language"`
}

// BaseLinkerConfig holds BaseLinker API configuration
type BaseLinkerConfig struct {
	Token             string        `mapstructure:"token"`
	BaseURL           string        `mapstructure:"base_url"`
	InventoryID       int           `mapstructure:"inventory_id"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// FeedConfig describes one supplier feed
type FeedConfig struct {
	Name        string `mapstructure:"name"`
	URL         string `mapstructure:"url"`
	Dialect     string `mapstructure:"dialect"`
	Description string `mapstructure:"description"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/feedlink/")

	// Environment variable settings
	v.SetEnvPrefix("FEEDLINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	v.SetDefault("auth.password", "")

	// Fetch defaults
	v.SetDefault("fetch.timeout", "30s")
	v.SetDefault("fetch.user_agent", "FeedLink/1.0")
	v.SetDefault("fetch.max_body_bytes", 64<<20)

	v.SetDefault("parsing.preferred_language", "pol")

	// BaseLinker defaults
	v.SetDefault("baselinker.token", "")
	v.SetDefault("baselinker.base_url", "https://api.baselinker.com")
	v.SetDefault("baselinker.inventory_id", 81501)
	v.SetDefault("baselinker.requests_per_minute", 100)
	v.SetDefault("baselinker.timeout", "30s")

	v.SetDefault("feeds", defaultFeeds())
}

// defaultFeeds lists the public supplier feeds
func defaultFeeds() map[string]interface{} {
	feed := func(name, url, dialect, description string) map[string]interface{} {
		return map[string]interface{}{
			"name":        name,
			"url":         url,
			"dialect":     dialect,
			"description": description,
		}
	}
	return map[string]interface{}{
		"jabadabadoo":       feed("Jabadabadoo", "https://jabadabado.pl/module/xmlfeeds/api?id=7", domain.DialectTagSoteshop, "Jabadabadoo wooden toys"),
		"kids-inspirations": feed("Kids Inspirations", "https://kidsinspirations.pl/module/xmlfeeds/api?id=11", domain.DialectTagIOF, "Multiple toy producers"),
		"solution-bc":       feed("Solution BC", "https://hurtownia.solutionbc.pl/module/xmlfeeds/api?id=11", domain.DialectTagIOF, "Lilliputiens, Janod, EZPZ"),
		"btoys":             feed("B.toys", "https://btoys.com.pl/module/xmlfeeds/api?id=7", domain.DialectTagSoteshop, "B.toys products"),
		"maxima":            feed("Maxima", "https://maxima-zabawki.pl/xml/xml7.xml", domain.DialectTagMaxima, "Maxima toys"),
		"bristle-blocks":    feed("Bristle Blocks", "https://bristleblocks.pl/module/xmlfeeds/api?id=7", domain.DialectTagSoteshop, "Bristle Blocks construction toys"),
	}
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got: %s", config.Fetch.Timeout)
	}

	if config.Parsing.PreferredLanguage == "" {
		return fmt.Errorf("preferred language is required")
	}

	if config.BaseLinker.InventoryID <= 0 {
		return fmt.Errorf("BaseLinker inventory id must be positive, got: %d", config.BaseLinker.InventoryID)
	}

	if config.BaseLinker.RequestsPerMinute <= 0 {
		return fmt.Errorf("BaseLinker requests per minute must be positive, got: %d", config.BaseLinker.RequestsPerMinute)
	}

	for key, feed := range config.Feeds {
		if feed.URL == "" {
			return fmt.Errorf("feed %q has no url", key)
		}
		if _, err := domain.ParseDialect(feed.Dialect); err != nil {
			return fmt.Errorf("feed %q: %w", key, err)
		}
	}

	return nil
}

// FeedSources converts the feed map to domain sources ordered by key
func (c *Config) FeedSources() []domain.FeedSource {
	keys := make([]string, 0, len(c.Feeds))
	for key := range c.Feeds {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	sources := make([]domain.FeedSource, 0, len(keys))
	for _, key := range keys {
		feed := c.Feeds[key]
		dialect, err := domain.ParseDialect(feed.Dialect)
		if err != nil {
			continue
		}
		name := feed.Name
		if name == "" {
			name = key
		}
		sources = append(sources, domain.FeedSource{
			Key:         key,
			Name:        name,
			URL:         feed.URL,
			Dialect:     dialect,
			Description: feed.Description,
		})
	}
	return sources
}
