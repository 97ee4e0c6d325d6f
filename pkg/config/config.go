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
)

// Config holds all configuration options for the relay
type Config struct {
	// Instagram credentials and client identity
	Instagram InstagramConfig `yaml:"instagram" json:"instagram"`

	// Normalizing relay listener
	Server ServerConfig `yaml:"server" json:"server"`

	// Generic proxy listener
	Proxy ProxyConfig `yaml:"proxy" json:"proxy"`

	// Outbound client settings
	Upstream UpstreamConfig `yaml:"upstream" json:"upstream"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// InstagramConfig holds the secrets and identity sent to Instagram
type InstagramConfig struct {
	SessionCookie string `yaml:"session_cookie" json:"session_cookie"`
	AppID         string `yaml:"app_id" json:"app_id"`
	UserAgent     string `yaml:"user_agent" json:"user_agent"`
}

// ServerConfig holds the normalizing relay listener configuration
type ServerConfig struct {
	Port              int           `yaml:"port" json:"port"`
	AllowedOrigin     string        `yaml:"allowed_origin" json:"allowed_origin"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" json:"read_header_timeout"`
}

// ProxyConfig holds the generic proxy listener configuration
type ProxyConfig struct {
	Port          int    `yaml:"port" json:"port"`
	AllowedOrigin string `yaml:"allowed_origin" json:"allowed_origin"`
}

// UpstreamConfig holds outbound request settings
type UpstreamConfig struct {
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
	APIBaseURL string        `yaml:"api_base_url" json:"api_base_url"`
	WebBaseURL string        `yaml:"web_base_url" json:"web_base_url"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Instagram: InstagramConfig{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		},
		Server: ServerConfig{
			Port:              5000,
			AllowedOrigin:     "*",
			ReadHeaderTimeout: 10 * time.Second,
		},
		Proxy: ProxyConfig{
			Port:          3001,
			AllowedOrigin: "*",
		},
		Upstream: UpstreamConfig{
			Timeout:    30 * time.Second,
			APIBaseURL: "https://i.instagram.com",
			WebBaseURL: "https://www.instagram.com",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	// Secrets
	if cookie := os.Getenv("INSTAGRAM_COOKIE"); cookie != "" {
		c.Instagram.SessionCookie = cookie
	}
	if appID := os.Getenv("INSTAGRAM_APP_ID"); appID != "" {
		c.Instagram.AppID = appID
	}
	if userAgent := os.Getenv("IGRELAY_USER_AGENT"); userAgent != "" {
		c.Instagram.UserAgent = userAgent
	}

	// Listeners
	if port := os.Getenv("PORT"); port != "" {
		val, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		c.Server.Port = val
	}
	if port := os.Getenv("PROXY_PORT"); port != "" {
		val, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PROXY_PORT %q: %w", port, err)
		}
		c.Proxy.Port = val
	}
	if origin := os.Getenv("FRONTEND_URL"); origin != "" {
		c.Server.AllowedOrigin = origin
	}
	if origin := os.Getenv("PROXY_ALLOWED_ORIGIN"); origin != "" {
		c.Proxy.AllowedOrigin = origin
	}

	// Upstream
	if timeout := os.Getenv("IGRELAY_UPSTREAM_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid IGRELAY_UPSTREAM_TIMEOUT %q: %w", timeout, err)
		}
		c.Upstream.Timeout = d
	}

	// Logging
	if logLevel := os.Getenv("IGRELAY_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("IGRELAY_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".igrelay.yaml",
		".igrelay.yml",
		filepath.Join(home, ".config", "igrelay", "config.yaml"),
		filepath.Join(home, ".config", "igrelay", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid.
// Missing secrets are reported by the diagnostic route, not here.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server port %d out of range", c.Server.Port))
	}
	if c.Proxy.Port <= 0 || c.Proxy.Port > 65535 {
		errs = append(errs, fmt.Errorf("proxy port %d out of range", c.Proxy.Port))
	}
	if c.Server.AllowedOrigin == "" {
		errs = append(errs, errors.New("server allowed origin is required"))
	}
	if c.Proxy.AllowedOrigin == "" {
		errs = append(errs, errors.New("proxy allowed origin is required"))
	}

	if c.Upstream.Timeout <= 0 {
		errs = append(errs, errors.New("upstream timeout must be positive"))
	}
	for name, raw := range map[string]string{
		"api_base_url": c.Upstream.APIBaseURL,
		"web_base_url": c.Upstream.WebBaseURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("upstream %s must be an absolute URL", name))
		}
	}

	if c.Instagram.UserAgent == "" {
		errs = append(errs, errors.New("user agent is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Redacted returns a copy safe to print, with secrets masked
func (c *Config) Redacted() *Config {
	cp := *c
	cp.Instagram.SessionCookie = MaskSecret(c.Instagram.SessionCookie)
	cp.Instagram.AppID = MaskSecret(c.Instagram.AppID)
	return &cp
}

// MaskSecret masks all but the first 4 and last 4 characters of a string
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if port, ok := flags["port"].(int); ok && port > 0 {
		c.Server.Port = port
	}
	if port, ok := flags["proxy-port"].(int); ok && port > 0 {
		c.Proxy.Port = port
	}
	if origin, ok := flags["allowed-origin"].(string); ok && origin != "" {
		c.Server.AllowedOrigin = origin
		c.Proxy.AllowedOrigin = origin
	}
	if timeout, ok := flags["timeout"].(time.Duration); ok && timeout > 0 {
		c.Upstream.Timeout = timeout
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env values never override variables already set in the process
	_ = godotenv.Load(".env")

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
