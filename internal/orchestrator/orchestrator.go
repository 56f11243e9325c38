// Package orchestrator drives one report run from marker check to email.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"

	"stockreport/internal/calculator"
	"stockreport/internal/chart"
	"stockreport/internal/collector"
	"stockreport/internal/marker"
	"stockreport/internal/model"
	"stockreport/internal/report"
)

const (
	MsgAlreadySent = "Stock Market Report already generated and sent!"
	MsgSent        = "Stock Market Report Generated and Email Sent Successfully!"
	MsgFailed      = "Failed to send Stock Market Report: "
)

// State is a step of a run.
type State string

const (
	StateIdle        State = "idle"
	StateCheckMarker State = "check_marker"
	StateSkip        State = "skip"
	StateRunning     State = "running"
	StateSuccess     State = "success"
	StateFatal       State = "fatal"
)

// Config is the explicit run configuration.
type Config struct {
	APIKey     string
	Region     string
	Tickers    model.TickerTable
	Timeframes []model.Timeframe
}

// Collector gathers one series per timeframe for a symbol.
type Collector interface {
	Collect(ctx context.Context, symbol string, timeframes []model.Timeframe) []model.Series
}

// Renderer turns series into base64 chart images keyed by chart.ImageKey.
type Renderer interface {
	RenderAll(series []model.Series) (map[string]string, error)
}

// Sender delivers the finished document and returns a provider message id.
type Sender interface {
	Send(ctx context.Context, html string) (string, error)
}

// Orchestrator runs the report pipeline. It is not safe for concurrent Run
// calls sharing one marker.
type Orchestrator struct {
	cfg       Config
	collector Collector
	renderer  Renderer
	sender    Sender
	marker    marker.Marker

	// OnState, if set, observes every state transition.
	OnState func(State)
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithCollector replaces the default Alpha Vantage collector.
func WithCollector(c Collector) Option { return func(o *Orchestrator) { o.collector = c } }

// WithRenderer replaces the default chart renderer.
func WithRenderer(r Renderer) Option { return func(o *Orchestrator) { o.renderer = r } }

// New builds an orchestrator. Without WithCollector the data comes from
// Alpha Vantage using cfg.APIKey.
func New(cfg Config, sender Sender, m marker.Marker, opts ...Option) *Orchestrator {
	if len(cfg.Tickers) == 0 {
		cfg.Tickers = model.DefaultTickers()
	}
	if len(cfg.Timeframes) == 0 {
		cfg.Timeframes = model.DefaultTimeframes()
	}
	if m == nil {
		m = marker.NewFileMarker("")
	}
	o := &Orchestrator{cfg: cfg, sender: sender, marker: m}
	for _, opt := range opts {
		opt(o)
	}
	if o.collector == nil {
		o.collector = collector.NewCollector(collector.NewAlphaVantageFetcher("", cfg.APIKey, ""))
	}
	if o.renderer == nil {
		o.renderer = chart.NewRenderer()
	}
	return o
}

// Run executes one invocation. It never panics and never returns an error;
// the outcome is carried by the Result.
func (o *Orchestrator) Run(ctx context.Context, inv model.Invocation, ev model.Event) model.Result {
	runID := uuid.NewString()
	o.enter(StateIdle)
	log.Info().Str("run_id", runID).Str("function", inv.FunctionName).
		Str("version", inv.FunctionVersion).Dur("remaining", inv.RemainingTime).
		Str("region", o.cfg.Region).Msg("report run started")

	if inv.RemainingTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.RemainingTime)
		defer cancel()
	}

	o.enter(StateCheckMarker)
	done, err := o.marker.Exists(ctx)
	if err != nil {
		o.enter(StateFatal)
		log.Error().Str("run_id", runID).Err(err).Msg("cannot check run marker")
		return failure(err)
	}
	if done {
		o.enter(StateSkip)
		log.Info().Str("run_id", runID).Msg("report already sent, skipping")
		return model.Result{StatusCode: http.StatusOK, Status: model.StatusSuccess, Body: MsgAlreadySent}
	}

	o.enter(StateRunning)
	tickers := o.cfg.Tickers
	if ev.Tickers != nil {
		tickers = ev.Tickers
	}

	sections := make([]template.HTML, 0, len(tickers))
	for _, t := range tickers {
		section, err := o.processTicker(ctx, t)
		if err != nil {
			if errors.Is(err, errSkipped) {
				log.Warn().Str("run_id", runID).Str("symbol", t.Symbol).Msg("no 30-day data, ticker skipped")
			} else {
				log.Error().Str("run_id", runID).Str("symbol", t.Symbol).Err(err).Msg("ticker failed, skipped")
			}
			continue
		}
		sections = append(sections, section)
	}

	doc, err := report.Document(sections)
	if err != nil {
		o.enter(StateFatal)
		log.Error().Str("run_id", runID).Err(err).Msg("failed to assemble report")
		return failure(err)
	}

	start := time.Now()
	id, err := o.sender.Send(ctx, doc)
	if err != nil {
		o.enter(StateFatal)
		log.Error().Str("run_id", runID).Err(err).Msg("report not sent")
		return failure(err)
	}
	if err := o.marker.Mark(ctx); err != nil {
		log.Error().Str("run_id", runID).Err(err).Msg("report sent but run marker not written")
	}
	o.enter(StateSuccess)
	log.Info().Str("run_id", runID).Str("message_id", id).Int("sections", len(sections)).
		Dur("send_took", time.Since(start)).Msg("report run finished")
	return model.Result{StatusCode: http.StatusOK, Status: model.StatusSuccess, Body: MsgSent}
}

var errSkipped = errors.New("ticker skipped")

func (o *Orchestrator) processTicker(ctx context.Context, t model.Ticker) (section template.HTML, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic processing %s: %v", t.Symbol, r)
		}
	}()

	series := o.collector.Collect(ctx, t.Symbol, o.cfg.Timeframes)
	for _, s := range series {
		if s.Timeframe.Key == model.KeyThirtyDays && s.Empty() {
			return "", errSkipped
		}
	}

	insights := make([]*model.Insights, 0, len(series))
	for _, s := range series {
		in, err := calculator.Compute(s)
		if err != nil {
			return "", fmt.Errorf("compute %s: %w", s.Timeframe.Key, err)
		}
		insights = append(insights, in)
	}
	images, err := o.renderer.RenderAll(series)
	if err != nil {
		return "", err
	}
	return report.Section(t, images, insights)
}

func (o *Orchestrator) enter(s State) {
	if o.OnState != nil {
		o.OnState(s)
	}
}

func failure(err error) model.Result {
	return model.Result{
		StatusCode: http.StatusInternalServerError,
		Status:     model.StatusFailure,
		Body:       MsgFailed + err.Error(),
	}
}
