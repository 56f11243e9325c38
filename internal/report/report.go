// Package report composes the HTML analysis document. Rendering depends only
// on its inputs.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"stockreport/internal/chart"
	"stockreport/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("report").Funcs(template.FuncMap{
	"num":    formatNumber,
	"shares": formatShares,
	"date":   formatDate,
	"lower":  strings.ToLower,
}).ParseFS(templateFS, "templates/*.html"))

// Page shell text.
const (
	Title   = "Stock Market Analysis Report"
	Heading = "Daily Stock Market Analysis Report"
	Footer  = "Stock Market Analysis Report | Powered by Alpha Vantage API"
)

// Narrative thresholds.
const (
	Overbought       = 70.0
	Oversold         = 30.0
	WideBandFraction = 0.10
)

type graphView struct {
	Label      string
	Image      template.URL
	In         *model.Insights
	Crossover  string
	Momentum   string
	Volatility string
}

type sectionView struct {
	Symbol      string
	Description string
	Graphs      []graphView
}

type pageView struct {
	Title    string
	Heading  string
	Footer   string
	Sections []template.HTML
}

// Section renders one ticker's section. insights are rendered in the given
// order; images must hold an encoded PNG for each of their timeframes.
func Section(ticker model.Ticker, images map[string]string, insights []*model.Insights) (template.HTML, error) {
	view := sectionView{Symbol: ticker.Symbol, Description: ticker.Description}
	for _, in := range insights {
		img, ok := images[chart.ImageKey(in.Timeframe)]
		if !ok {
			return "", fmt.Errorf("missing image for %s %s", ticker.Symbol, in.Timeframe.Key)
		}
		view.Graphs = append(view.Graphs, graphView{
			Label:      in.Timeframe.Label,
			Image:      template.URL("data:image/png;base64," + img),
			In:         in,
			Crossover:  crossoverText(in),
			Momentum:   momentumText(in),
			Volatility: volatilityText(in),
		})
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "section", view); err != nil {
		return "", fmt.Errorf("render section %s: %w", ticker.Symbol, err)
	}
	return template.HTML(buf.String()), nil
}

// Document wraps the sections in the page shell.
func Document(sections []template.HTML) (string, error) {
	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, "page", pageView{
		Title:    Title,
		Heading:  Heading,
		Footer:   Footer,
		Sections: sections,
	})
	if err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}
	return buf.String(), nil
}

func crossoverText(in *model.Insights) string {
	if in.MA50 > in.MA200 {
		return "The 50-day MA is above the 200-day MA, potentially indicating a bullish trend."
	}
	return "The 50-day MA is below the 200-day MA, potentially indicating a bearish trend."
}

func momentumText(in *model.Insights) string {
	switch {
	case in.RSI > Overbought:
		return "overbought"
	case in.RSI < Oversold:
		return "oversold"
	default:
		return "neither overbought nor oversold"
	}
}

func volatilityText(in *model.Insights) string {
	if in.BandWidth() > in.AverageClose*WideBandFraction {
		return "high"
	}
	return "low"
}

func formatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return fmt.Sprintf("%.2f", v)
}

func formatShares(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return humanize.Comma(int64(math.Round(v)))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("2006-01-02")
}
