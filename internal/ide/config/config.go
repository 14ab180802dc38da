package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"ojide/internal/ide/judge/judge0"
	"ojide/internal/ide/judge/oj"
	"ojide/internal/ide/poll"
	"ojide/internal/ide/store"
	appErr "ojide/pkg/errors"
	"ojide/pkg/utils/logger"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBackend       = judge0.Name
	DefaultJudge0BaseURL = "http://127.0.0.1:2358"
	DefaultOJBaseURL     = "http://oj.cust.edu.cn"
	DefaultTimeout       = 10 * time.Second
	DefaultPollTimeout   = 2 * time.Minute
	DefaultServerAddr    = ":8088"
	DefaultMaxRuns       = 8
	DefaultLanguageName  = "C++"
)

// Environment variables that override the config file.
const (
	EnvBaseURL     = "OJIDE_BASE_URL"
	EnvBackend     = "OJIDE_BACKEND"
	EnvAuthToken   = "OJIDE_AUTH_TOKEN"
	EnvRapidAPIKey = "OJIDE_RAPIDAPI_KEY"
)

// Config holds IDE configuration.
type Config struct {
	Backend         string        `yaml:"backend"`
	BaseURL         string        `yaml:"baseURL"`
	Timeout         time.Duration `yaml:"timeout"`
	Judge0          Judge0Config  `yaml:"judge0"`
	Poll            PollConfig    `yaml:"poll"`
	Languages       []Language    `yaml:"languages"`
	DefaultLanguage string        `yaml:"defaultLanguage"`
	Store           store.Config  `yaml:"store"`
	Log             logger.Config `yaml:"log"`
	Server          ServerConfig  `yaml:"server"`
}

type Judge0Config struct {
	AuthToken    string `yaml:"authToken"`
	RapidAPIKey  string `yaml:"rapidAPIKey"`
	RapidAPIHost string `yaml:"rapidAPIHost"`
	Base64       *bool  `yaml:"base64"`
	Wait         *bool  `yaml:"wait"`
}

type PollConfig struct {
	Interval    time.Duration `yaml:"interval"`
	MaxAttempts int           `yaml:"maxAttempts"`
	Timeout     time.Duration `yaml:"timeout"`
}

type ServerConfig struct {
	Addr              string        `yaml:"addr"`
	MaxConcurrentRuns int64         `yaml:"maxConcurrentRuns"`
	ReadTimeout       time.Duration `yaml:"readTimeout"`
	WriteTimeout      time.Duration `yaml:"writeTimeout"`
	CORS              CORSConfig    `yaml:"cors"`
}

// CORSConfig lets a browser front-end on another origin call the server.
type CORSConfig struct {
	Enabled          bool     `yaml:"enabled"`
	AllowedOrigins   []string `yaml:"allowedOrigins"`
	AllowedMethods   []string `yaml:"allowedMethods"`
	AllowedHeaders   []string `yaml:"allowedHeaders"`
	ExposedHeaders   []string `yaml:"exposedHeaders"`
	AllowCredentials bool     `yaml:"allowCredentials"`
	MaxAge           string   `yaml:"maxAge"`
}

// Language is one entry of the language selector. ID is what the judge
// expects and Mode is the editor mode label.
type Language struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Mode string `yaml:"mode" json:"mode"`
}

// Load reads path, applies environment overrides and fills defaults. An
// empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file failed: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file failed: %w", err)
		}
	}
	applyEnv(&cfg, os.LookupEnv)
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadDotEnv loads the given .env files into the process environment.
// Missing files are skipped and variables already set win.
func LoadDotEnv(files ...string) error {
	for _, file := range files {
		if _, err := os.Stat(file); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("load env file %s failed: %w", file, err)
		}
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvBackend); ok && v != "" {
		cfg.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		cfg.BaseURL = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvAuthToken); ok && v != "" {
		cfg.Judge0.AuthToken = v
	}
	if v, ok := lookup(EnvRapidAPIKey); ok && v != "" {
		cfg.Judge0.RapidAPIKey = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Backend == "" {
		cfg.Backend = DefaultBackend
	}
	if cfg.BaseURL == "" {
		if cfg.Backend == oj.Name {
			cfg.BaseURL = DefaultOJBaseURL
		} else {
			cfg.BaseURL = DefaultJudge0BaseURL
		}
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Judge0.Base64 == nil {
		value := true
		cfg.Judge0.Base64 = &value
	}
	if cfg.Judge0.Wait == nil {
		value := false
		cfg.Judge0.Wait = &value
	}
	if cfg.Poll.Interval == 0 {
		cfg.Poll.Interval = poll.DefaultInterval
	}
	if cfg.Poll.Timeout == 0 {
		cfg.Poll.Timeout = DefaultPollTimeout
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = DefaultLanguages(cfg.Backend)
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = DefaultLanguageName
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = store.DriverFile
	}
	if cfg.Store.Driver == store.DriverFile && cfg.Store.Path == "" {
		cfg.Store.Path = store.DefaultFilePath
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.OutputPath == "" {
		cfg.Log.OutputPath = "stderr"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if cfg.Server.MaxConcurrentRuns == 0 {
		cfg.Server.MaxConcurrentRuns = DefaultMaxRuns
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = cfg.Poll.Timeout + cfg.Timeout
	}
	if cfg.Server.CORS.Enabled {
		cors := &cfg.Server.CORS
		if len(cors.AllowedMethods) == 0 {
			cors.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
		}
		if len(cors.AllowedHeaders) == 0 {
			cors.AllowedHeaders = []string{"Content-Type", "X-Trace-Id", "X-Request-Id"}
		}
		if len(cors.ExposedHeaders) == 0 {
			cors.ExposedHeaders = []string{"X-Trace-Id", "X-Request-Id"}
		}
	}
}

// Validate checks the fields a backend cannot work without.
func (c Config) Validate() error {
	if c.Backend != judge0.Name && c.Backend != oj.Name {
		return appErr.Newf(appErr.ValidationFailed, "unknown backend %q, want %s or %s", c.Backend, judge0.Name, oj.Name)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return appErr.Newf(appErr.ValidationFailed, "invalid baseURL %q", c.BaseURL)
	}
	if c.Poll.Interval < 0 || c.Poll.MaxAttempts < 0 || c.Poll.Timeout < 0 {
		return appErr.New(appErr.ValidationFailed).WithMessage("poll settings must not be negative")
	}
	if _, ok := c.Language(c.DefaultLanguage); !ok {
		return appErr.Newf(appErr.ValidationFailed, "default language %q is not configured", c.DefaultLanguage)
	}
	return nil
}

// Language finds a configured language by name or id, ignoring case.
func (c Config) Language(nameOrID string) (Language, bool) {
	nameOrID = strings.TrimSpace(nameOrID)
	for _, lang := range c.Languages {
		if strings.EqualFold(lang.Name, nameOrID) || strings.EqualFold(lang.ID, nameOrID) {
			return lang, true
		}
	}
	return Language{}, false
}

// PollOptions converts the poll section for the poll loop.
func (c Config) PollOptions() poll.Options {
	return poll.Options{
		Interval:    c.Poll.Interval,
		MaxAttempts: c.Poll.MaxAttempts,
		Timeout:     c.Poll.Timeout,
	}
}

// Judge0Headers returns the authentication headers for a Judge0 endpoint.
// The RapidAPI host defaults to the host of BaseURL.
func (c Config) Judge0Headers() map[string]string {
	headers := map[string]string{}
	if c.Judge0.AuthToken != "" {
		headers["X-Auth-Token"] = c.Judge0.AuthToken
	}
	if c.Judge0.RapidAPIKey != "" {
		headers["X-RapidAPI-Key"] = c.Judge0.RapidAPIKey
		host := c.Judge0.RapidAPIHost
		if host == "" {
			if u, err := url.Parse(c.BaseURL); err == nil {
				host = u.Host
			}
		}
		headers["X-RapidAPI-Host"] = host
	}
	return headers
}

// WithBackend returns a copy of c targeting backend. Default base URLs and
// the language list follow the backend; a custom base URL is kept.
func (c Config) WithBackend(backend string) Config {
	next := c
	next.Backend = backend
	next.Languages = DefaultLanguages(backend)
	if c.BaseURL == "" || c.BaseURL == DefaultJudge0BaseURL || c.BaseURL == DefaultOJBaseURL {
		next.BaseURL = DefaultJudge0BaseURL
		if backend == oj.Name {
			next.BaseURL = DefaultOJBaseURL
		}
	}
	if _, ok := next.Language(next.DefaultLanguage); !ok {
		next.DefaultLanguage = DefaultLanguageName
	}
	return next
}
