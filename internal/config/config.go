package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"stockreport/internal/model"
)

// Data providers.
const (
	ProviderAlphaVantage = "alphavantage"
	ProviderYahoo        = "yahoo"
	ProviderMock         = "mock"
)

// Marker backends.
const (
	MarkerFile   = "file"
	MarkerSQLite = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider string `yaml:"provider"`
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
	} `yaml:"data_source"`
	Region     string            `yaml:"region"`
	Tickers    model.TickerTable `yaml:"tickers"`
	Timeframes []Timeframe       `yaml:"timeframes"`
	SMTP       struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		UseTLS   bool   `yaml:"use_tls"`
		// DryRun logs messages instead of sending them.
		DryRun   bool   `yaml:"dry_run"`
	} `yaml:"smtp"`
	Credentials struct {
		DBPath  string       `yaml:"db_path"`
		Table   string       `yaml:"table"`
		Records []Credential `yaml:"records"`
	} `yaml:"credentials"`
	Marker struct {
		Backend string `yaml:"backend"`
		Path    string `yaml:"path"`
	} `yaml:"marker"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Timeframe is a configured look-back window, e.g. {key: 30_days, label:
// "30 Days", range: 30d}.
type Timeframe struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
	Range string `yaml:"range"`
}

// Credential is a statically declared credential record.
type Credential struct {
	EmailID      string `yaml:"email_id"`
	EmailAddress string `yaml:"email_address"`
}

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Region = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.SMTP.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.SMTP.Port = port
		}
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		cfg.SMTP.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.SMTP.Password = v
	}
	if v := os.Getenv("SMTP_USE_TLS"); v != "" {
		cfg.SMTP.UseTLS = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("MARKER_PATH"); v != "" {
		cfg.Marker.Path = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("CREDENTIALS_DB"); v != "" {
		cfg.Credentials.DBPath = v
	}

	// Defaults
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = ProviderAlphaVantage
	}
	if cfg.DataSource.APIKey == "" {
		cfg.DataSource.APIKey = "demo"
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if len(cfg.Tickers) == 0 {
		cfg.Tickers = model.DefaultTickers()
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.Credentials.Table == "" {
		cfg.Credentials.Table = "email_credentials"
	}
	if cfg.Marker.Backend == "" {
		cfg.Marker.Backend = MarkerFile
	}
	if cfg.Marker.Path == "" {
		if cfg.Marker.Backend == MarkerSQLite {
			cfg.Marker.Path = "data/stock_report.db"
		} else {
			cfg.Marker.Path = "/tmp/stock_report.lock"
		}
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "0 0 7 * * 1-5"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case ProviderAlphaVantage, ProviderYahoo, ProviderMock:
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if _, err := c.ResolveTimeframes(); err != nil {
		return err
	}
	switch c.Marker.Backend {
	case MarkerFile, MarkerSQLite:
	default:
		return fmt.Errorf("marker.backend %q is not supported", c.Marker.Backend)
	}
	if !tableName.MatchString(c.Credentials.Table) {
		return fmt.Errorf("credentials.table %q is not a valid table name", c.Credentials.Table)
	}
	if c.Credentials.DBPath == "" && len(c.Credentials.Records) == 0 {
		return fmt.Errorf("credentials.db_path or credentials.records is required")
	}
	if c.SMTP.DryRun {
		return nil
	}
	if c.SMTP.Host == "" {
		return fmt.Errorf("smtp.host is required")
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("smtp.port %d is out of range", c.SMTP.Port)
	}
	return nil
}

// ResolveTimeframes returns the configured windows, or the six standard
// windows when none are configured.
func (c *Config) ResolveTimeframes() ([]model.Timeframe, error) {
	if len(c.Timeframes) == 0 {
		return model.DefaultTimeframes(), nil
	}
	out := make([]model.Timeframe, 0, len(c.Timeframes))
	seen := make(map[string]bool, len(c.Timeframes))
	for i, tf := range c.Timeframes {
		if tf.Key == "" {
			return nil, fmt.Errorf("timeframes[%d].key is required", i)
		}
		if seen[tf.Key] {
			return nil, fmt.Errorf("timeframes[%d]: duplicate key %q", i, tf.Key)
		}
		seen[tf.Key] = true
		r, err := model.ParseTimeRange(tf.Range)
		if err != nil {
			return nil, fmt.Errorf("timeframes[%d].range: %w", i, err)
		}
		label := tf.Label
		if label == "" {
			label = tf.Key
		}
		out = append(out, model.Timeframe{Key: tf.Key, Label: label, Range: r})
	}
	return out, nil
}

// StaticCredentials converts the declared records.
func (c *Config) StaticCredentials() []model.Credential {
	out := make([]model.Credential, 0, len(c.Credentials.Records))
	for _, r := range c.Credentials.Records {
		out = append(out, model.Credential{Role: r.EmailID, Address: r.EmailAddress})
	}
	return out
}
