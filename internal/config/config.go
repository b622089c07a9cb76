package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvURL        = "DB_URL"
	EnvAPIKey     = "DB_API_KEY"
	EnvTimeout    = "DB_TIMEOUT"
	EnvDSN        = "DB_DSN"
	EnvDriver     = "DB_DRIVER"
	EnvSchema     = "DB_SCHEMA"
	EnvTablesFile = "SCHEMAPROBE_TABLES_FILE"
)

const (
	DefaultTimeout = 30 * time.Second
	DefaultDriver  = "postgres"
	DefaultSchema  = "public"
)

var (
	ErrMissingURL    = errors.New(EnvURL + " is required")
	ErrMissingAPIKey = errors.New(EnvAPIKey + " is required")
	ErrNoTables      = errors.New("at least one table is required")
)

// DefaultTables is the probe list used when no tables file is given.
func DefaultTables() []string {
	return []string{
		"users",
		"tables",
		"menu_categories",
		"menu_items",
		"orders",
		"order_items",
		"payments",
		"kitchen_tickets",
	}
}

type Config struct {
	Endpoint Endpoint
	Catalog  CatalogConfig
	Tables   []string
}

type Endpoint struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// CatalogConfig enables the direct information-schema read when DSN is set.
type CatalogConfig struct {
	Driver string
	DSN    string
	Schema string
}

func (c CatalogConfig) Enabled() bool {
	return c.DSN != ""
}

// Options carries command-line overrides. Zero values fall back to the environment.
type Options struct {
	TablesFile string
	Timeout    *time.Duration
	DSN        string
	Driver     string
	Schema     string
}

type tablesFile struct {
	Tables []string `yaml:"tables"`
}

func Load(opts Options) (*Config, error) {
	cfg := &Config{
		Endpoint: Endpoint{
			URL:     strings.TrimRight(strings.TrimSpace(os.Getenv(EnvURL)), "/"),
			APIKey:  strings.TrimSpace(os.Getenv(EnvAPIKey)),
			Timeout: DefaultTimeout,
		},
		Catalog: CatalogConfig{
			Driver: firstNonEmpty(opts.Driver, os.Getenv(EnvDriver), DefaultDriver),
			DSN:    firstNonEmpty(opts.DSN, os.Getenv(EnvDSN)),
			Schema: firstNonEmpty(opts.Schema, os.Getenv(EnvSchema), DefaultSchema),
		},
	}

	if raw := os.Getenv(EnvTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", EnvTimeout, err)
		}
		cfg.Endpoint.Timeout = d
	}
	if opts.Timeout != nil {
		cfg.Endpoint.Timeout = *opts.Timeout
	}

	path := firstNonEmpty(opts.TablesFile, os.Getenv(EnvTablesFile))
	if path != "" {
		tables, err := LoadTables(path)
		if err != nil {
			return nil, err
		}
		cfg.Tables = tables
	} else {
		cfg.Tables = DefaultTables()
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadTables reads a YAML file with a top-level "tables" list.
func LoadTables(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tables file: %w", err)
	}

	var f tablesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse tables file: %w", err)
	}
	return f.Tables, nil
}

// ProjectRef returns the first host label of the endpoint URL, which hosted
// providers use as the project identifier. It returns "" when there is none.
func (e Endpoint) ProjectRef() string {
	u, err := url.Parse(e.URL)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	if host == "" || net.ParseIP(host) != nil || !strings.Contains(host, ".") {
		return ""
	}
	return strings.SplitN(host, ".", 2)[0]
}

func (c *Config) validate() error {
	if c.Endpoint.URL == "" {
		return ErrMissingURL
	}
	u, err := url.Parse(c.Endpoint.URL)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", EnvURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s: scheme must be http or https, got %q", EnvURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid %s: missing host", EnvURL)
	}
	if c.Endpoint.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Endpoint.Timeout < 0 {
		return fmt.Errorf("%s must not be negative", EnvTimeout)
	}
	if len(c.Tables) == 0 {
		return ErrNoTables
	}
	seen := map[string]bool{}
	for _, table := range c.Tables {
		if strings.TrimSpace(table) == "" {
			return errors.New("table name must not be blank")
		}
		if seen[table] {
			return fmt.Errorf("table %s is listed twice", table)
		}
		seen[table] = true
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
