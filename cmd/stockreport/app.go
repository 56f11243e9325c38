package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/phuslu/log"

	"stockreport/internal/collector"
	"stockreport/internal/config"
	"stockreport/internal/credstore"
	"stockreport/internal/logx"
	"stockreport/internal/marker"
	"stockreport/internal/model"
	"stockreport/internal/notifier"
	"stockreport/internal/orchestrator"
)

// App holds the wired components shared by all commands.
type App struct {
	ConfigPath string
	Mock       bool
	DryRun     bool

	// OutPath, when set, receives a copy of every composed report.
	OutPath string

	Config       *config.Config
	Orchestrator *orchestrator.Orchestrator

	closers []func() error
}

// Init loads configuration and wires the run pipeline.
func (a *App) Init() error {
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.Mock {
		cfg.DataSource.Provider = config.ProviderMock
	}
	if a.DryRun {
		cfg.SMTP.DryRun = true
	}
	logx.Setup(cfg.Log.Level)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	a.Config = cfg

	timeframes, err := cfg.ResolveTimeframes()
	if err != nil {
		return err
	}

	fetcher := a.newFetcher(cfg)
	log.Info().Str("source", fetcher.Name()).Int("tickers", len(cfg.Tickers)).
		Int("timeframes", len(timeframes)).Msg("data source ready")

	store, err := a.newCredentialStore(cfg)
	if err != nil {
		return err
	}

	var transport notifier.Transport
	if cfg.SMTP.DryRun {
		transport = notifier.DryRunTransport{}
	} else {
		transport = notifier.NewSMTPTransport(notifier.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			UseTLS:   cfg.SMTP.UseTLS,
		})
	}
	var sender orchestrator.Sender = notifier.New(store, transport)
	if a.OutPath != "" {
		sender = &teeSender{path: a.OutPath, next: sender}
	}

	m, err := a.newMarker(cfg)
	if err != nil {
		return err
	}

	a.Orchestrator = orchestrator.New(orchestrator.Config{
		APIKey:     cfg.DataSource.APIKey,
		Region:     cfg.Region,
		Tickers:    cfg.Tickers,
		Timeframes: timeframes,
	}, sender, m, orchestrator.WithCollector(collector.NewCollector(fetcher)))
	return nil
}

// Close releases databases opened by Init.
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			log.Warn().Err(err).Msg("close failed")
		}
	}
	a.closers = nil
}

func (a *App) newFetcher(cfg *config.Config) collector.Fetcher {
	switch cfg.DataSource.Provider {
	case config.ProviderYahoo:
		return collector.NewYahooFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	case config.ProviderMock:
		now := time.Now()
		series := make(map[string][]model.OHLCV, len(cfg.Tickers))
		for i, t := range cfg.Tickers {
			series[t.Symbol] = collector.GenerateBars(50+float64(i)*25, 1900, now)
		}
		return &collector.MockFetcher{Series: series}
	default:
		return collector.NewAlphaVantageFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	}
}

func (a *App) newCredentialStore(cfg *config.Config) (credstore.Store, error) {
	if cfg.Credentials.DBPath == "" {
		return credstore.NewStaticStore(cfg.StaticCredentials()), nil
	}
	s, err := credstore.NewSQLiteStore(cfg.Credentials.DBPath, cfg.Credentials.Table)
	if err != nil {
		return nil, fmt.Errorf("init credential store: %w", err)
	}
	a.closers = append(a.closers, s.Close)
	return s, nil
}

func (a *App) newMarker(cfg *config.Config) (marker.Marker, error) {
	if cfg.Marker.Backend != config.MarkerSQLite {
		return marker.NewFileMarker(cfg.Marker.Path), nil
	}
	m, err := marker.NewSQLiteMarker(cfg.Marker.Path, "")
	if err != nil {
		return nil, fmt.Errorf("init sqlite marker: %w", err)
	}
	a.closers = append(a.closers, m.Close)
	return m, nil
}

// teeSender writes the document to disk before handing it on.
type teeSender struct {
	path string
	next orchestrator.Sender
}

func (t *teeSender) Send(ctx context.Context, html string) (string, error) {
	if err := os.WriteFile(t.path, []byte(html), 0o644); err != nil {
		log.Warn().Err(err).Str("path", t.path).Msg("failed to write report copy")
	} else {
		log.Info().Str("path", t.path).Int("bytes", len(html)).Msg("report written")
	}
	return t.next.Send(ctx, html)
}
