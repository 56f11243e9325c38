// Package chart renders the per-timeframe analysis images embedded in the
// report.
package chart

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image/color"

	"github.com/phuslu/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"stockreport/internal/calculator"
	"stockreport/internal/model"
)

// ErrNoData is returned when a series has no bars to plot.
var ErrNoData = errors.New("no data to plot")

const day = 24 * 60 * 60.0

var (
	colorClose  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	colorVolume = color.RGBA{R: 214, G: 39, B: 40, A: 77}
	colorMA50   = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	colorMA200  = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	colorBand   = color.RGBA{R: 128, G: 128, B: 128, A: 26}
)

// ImageKey is the key under which a timeframe's encoded image is stored.
func ImageKey(tf model.Timeframe) string { return "stock_analysis_" + tf.Key }

// Renderer draws three stacked panels per series: close and volume, moving
// averages, and Bollinger bands.
type Renderer struct {
	Width  vg.Length
	Height vg.Length
}

// NewRenderer returns a renderer producing 12x15 inch images.
func NewRenderer() *Renderer {
	return &Renderer{Width: 12 * vg.Inch, Height: 15 * vg.Inch}
}

// RenderAll renders every series and returns base64 PNGs keyed by ImageKey.
func (r *Renderer) RenderAll(series []model.Series) (map[string]string, error) {
	images := make(map[string]string, len(series))
	for _, s := range series {
		png, err := r.Render(s)
		if err != nil {
			return nil, fmt.Errorf("render %s %s: %w", s.Symbol, s.Timeframe.Key, err)
		}
		images[ImageKey(s.Timeframe)] = base64.StdEncoding.EncodeToString(png)
	}
	return images, nil
}

// Render returns the PNG bytes for one series.
func (r *Renderer) Render(s model.Series) ([]byte, error) {
	if s.Empty() {
		return nil, ErrNoData
	}
	xs := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		xs[i] = float64(b.Time.Unix())
	}
	o := calculator.ComputeOverlays(s)

	panels := []func([]float64, calculator.Overlays) (*plot.Plot, error){
		func(xs []float64, o calculator.Overlays) (*plot.Plot, error) {
			return pricePanel(xs, o, s.Timeframe.Label)
		},
		movingAveragePanel,
		bollingerPanel,
	}
	plots := make([][]*plot.Plot, len(panels))
	for i, build := range panels {
		p, err := build(xs, o)
		if err != nil {
			return nil, err
		}
		p.X.Min, p.X.Max = xs[0]-day, xs[len(xs)-1]+day
		p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
		p.Legend.Top = true
		p.Legend.Left = true
		plots[i] = []*plot.Plot{p}
	}

	img := vgimg.New(r.Width, r.Height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      1,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
		PadY:      vg.Millimeter * 6,
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	log.Debug().Str("symbol", s.Symbol).Str("timeframe", s.Timeframe.Key).Int("bytes", buf.Len()).Msg("chart rendered")
	return buf.Bytes(), nil
}

// pricePanel draws close prices with volume bars. Volume has no axis of its
// own; bars are scaled into the lower third of the price range.
func pricePanel(xs []float64, o calculator.Overlays, label string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Closing Prices and Volume - " + label
	p.Y.Label.Text = "Price ($)"

	lo, hi := minMax(o.Closes)
	span := hi - lo
	if span == 0 {
		span = maxf(hi, 1) * 0.1
	}
	_, vmax := minMax(o.Volumes)
	if vmax > 0 {
		rings := make([]plotter.XYer, 0, len(xs))
		for i, x := range xs {
			h := o.Volumes[i] / vmax * span / 3
			if h <= 0 {
				continue
			}
			w := 0.4 * day
			rings = append(rings, plotter.XYs{
				{X: x - w, Y: lo}, {X: x + w, Y: lo}, {X: x + w, Y: lo + h}, {X: x - w, Y: lo + h},
			})
		}
		if len(rings) > 0 {
			bars, err := plotter.NewPolygon(rings...)
			if err != nil {
				return nil, fmt.Errorf("volume bars: %w", err)
			}
			bars.Color = colorVolume
			bars.LineStyle.Width = 0
			p.Add(bars)
			p.Legend.Add("Volume (scaled)", bars)
		}
	}
	if err := addLine(p, "Close Price", xs, o.Closes, nil, colorClose, false); err != nil {
		return nil, err
	}
	p.Y.Min = lo - span*0.05
	return p, nil
}

func movingAveragePanel(xs []float64, o calculator.Overlays) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Moving Averages"
	p.Y.Label.Text = "Price ($)"
	if err := addLine(p, "Close Price", xs, o.Closes, nil, colorClose, false); err != nil {
		return nil, err
	}
	if err := addLine(p, "50-day MA", xs, o.MA50, o.MA50OK, colorMA50, false); err != nil {
		return nil, err
	}
	if err := addLine(p, "200-day MA", xs, o.MA200, o.MA200OK, colorMA200, false); err != nil {
		return nil, err
	}
	return p, nil
}

func bollingerPanel(xs []float64, o calculator.Overlays) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Bollinger Bands"
	p.Y.Label.Text = "Price ($)"

	upper := make([]float64, len(o.Bands))
	middle := make([]float64, len(o.Bands))
	lower := make([]float64, len(o.Bands))
	var ring plotter.XYs
	for i, b := range o.Bands {
		upper[i], middle[i], lower[i] = b.Upper, b.Middle, b.Lower
		if o.BandsOK[i] {
			ring = append(ring, plotter.XY{X: xs[i], Y: b.Upper})
		}
	}
	for i := len(o.Bands) - 1; i >= 0; i-- {
		if o.BandsOK[i] {
			ring = append(ring, plotter.XY{X: xs[i], Y: lower[i]})
		}
	}
	if len(ring) >= 4 {
		band, err := plotter.NewPolygon(ring)
		if err != nil {
			return nil, fmt.Errorf("band region: %w", err)
		}
		band.Color = colorBand
		band.LineStyle.Width = 0
		p.Add(band)
	}

	if err := addLine(p, "Close Price", xs, o.Closes, nil, colorClose, false); err != nil {
		return nil, err
	}
	if err := addLine(p, "20-day MA", xs, middle, o.BandsOK, colorMA50, false); err != nil {
		return nil, err
	}
	if err := addLine(p, "Upper BB", xs, upper, o.BandsOK, colorMA200, true); err != nil {
		return nil, err
	}
	if err := addLine(p, "Lower BB", xs, lower, o.BandsOK, colorMA200, true); err != nil {
		return nil, err
	}
	return p, nil
}

// addLine plots ys against xs, skipping indices where ok is false. A nil ok
// keeps every point; a line without points is omitted.
func addLine(p *plot.Plot, name string, xs, ys []float64, ok []bool, c color.Color, dashed bool) error {
	pts := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if ok != nil && !ok[i] {
			continue
		}
		pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
	}
	if len(pts) == 0 {
		return nil
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("%s line: %w", name, err)
	}
	l.Color = c
	l.Width = vg.Points(1.5)
	if dashed {
		l.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	}
	p.Add(l)
	p.Legend.Add(name, l)
	return nil
}

func minMax(vs []float64) (lo, hi float64) {
	if len(vs) == 0 {
		return 0, 0
	}
	lo, hi = vs[0], vs[0]
	for _, v := range vs[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
