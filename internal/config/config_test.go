package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockreport/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ProviderAlphaVantage, cfg.DataSource.Provider)
	assert.Equal(t, "demo", cfg.DataSource.APIKey)
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Len(t, cfg.Tickers, len(model.DefaultTickers()))
	assert.Equal(t, MarkerFile, cfg.Marker.Backend)
	assert.Equal(t, "/tmp/stock_report.lock", cfg.Marker.Path)
	assert.Equal(t, "0 0 7 * * 1-5", cfg.Schedule.Cron)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "email_credentials", cfg.Credentials.Table)
	assert.Equal(t, "info", cfg.Log.Level)

	tfs, err := cfg.ResolveTimeframes()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultTimeframes(), tfs)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
data_source:
  provider: yahoo
region: eu-west-1
tickers:
  TSLA: Tesla
  AAPL: Apple
timeframes:
  - {key: two_weeks, label: "2 Weeks", range: 14d}
  - {key: ytd, label: YTD, range: ytd}
smtp:
  host: smtp.example.com
  port: 465
  use_tls: true
credentials:
  records:
    - {email_id: sender, email_address: reports@example.com}
    - {email_id: recipient1, email_address: a@example.com}
marker:
  backend: sqlite
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ProviderYahoo, cfg.DataSource.Provider)
	assert.Equal(t, []string{"TSLA", "AAPL"}, cfg.Tickers.Symbols())
	assert.Equal(t, "data/stock_report.db", cfg.Marker.Path)
	assert.True(t, cfg.SMTP.UseTLS)

	tfs, err := cfg.ResolveTimeframes()
	require.NoError(t, err)
	require.Len(t, tfs, 2)
	assert.Equal(t, model.TrailingDays(14), tfs[0].Range)
	assert.Equal(t, model.YearToDate(), tfs[1].Range)

	creds := cfg.StaticCredentials()
	require.Len(t, creds, 2)
	assert.True(t, creds[0].IsSender())
	assert.Equal(t, "a@example.com", creds[1].Address)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ALPHAVANTAGE_API_KEY", "secret")
	t.Setenv("AWS_REGION", "ap-south-1")
	t.Setenv("SMTP_HOST", "relay.internal")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_USE_TLS", "1")
	t.Setenv("MARKER_PATH", "/var/run/report.lock")
	t.Setenv("CRON_SCHEDULE", "0 30 6 * * *")
	t.Setenv("CREDENTIALS_DB", "creds.db")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, "data_source:\n  api_key: from-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.DataSource.APIKey)
	assert.Equal(t, "ap-south-1", cfg.Region)
	assert.Equal(t, "relay.internal", cfg.SMTP.Host)
	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.True(t, cfg.SMTP.UseTLS)
	assert.Equal(t, "/var/run/report.lock", cfg.Marker.Path)
	assert.Equal(t, "0 30 6 * * *", cfg.Schedule.Cron)
	assert.Equal(t, "creds.db", cfg.Credentials.DBPath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "tickers: [AAPL]\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{}
		c.DataSource.Provider = ProviderAlphaVantage
		c.Marker.Backend = MarkerFile
		c.Credentials.Table = "email_credentials"
		c.Credentials.DBPath = "creds.db"
		c.SMTP.Host = "smtp.example.com"
		c.SMTP.Port = 587
		return c
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }},
		{"marker backend", func(c *Config) { c.Marker.Backend = "redis" }},
		{"table name", func(c *Config) { c.Credentials.Table = "creds; DROP TABLE x" }},
		{"no credentials", func(c *Config) { c.Credentials.DBPath = "" }},
		{"smtp host", func(c *Config) { c.SMTP.Host = "" }},
		{"smtp port", func(c *Config) { c.SMTP.Port = 70000 }},
		{"timeframe range", func(c *Config) { c.Timeframes = []Timeframe{{Key: "x", Range: "soon"}} }},
		{"timeframe key", func(c *Config) { c.Timeframes = []Timeframe{{Range: "7d"}} }},
		{"duplicate timeframe", func(c *Config) {
			c.Timeframes = []Timeframe{{Key: "a", Range: "7d"}, {Key: "a", Range: "30d"}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestValidate_DryRunSkipsSMTP(t *testing.T) {
	c := &Config{}
	c.DataSource.Provider = ProviderMock
	c.Marker.Backend = MarkerFile
	c.Credentials.Table = "email_credentials"
	c.Credentials.Records = []Credential{{EmailID: "sender", EmailAddress: "s@example.com"}}
	c.SMTP.DryRun = true
	assert.NoError(t, c.Validate())
}
