// Package chart renders watch price history as PNG line charts.
package chart

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/vicanso/go-charts/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"WatchBoard/internal/analytics"
	"WatchBoard/internal/model"
)

var ErrNotEnoughData = errors.New("chart: not enough data points")

// Kind selects the chart size.
type Kind string

const (
	// Spark is the small table-cell chart without axes.
	Spark Kind = "spark"
	// Detail is the large chart in the expanded row.
	Detail Kind = "detail"
)

func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(s)) {
	case Spark:
		return Spark, true
	case Detail:
		return Detail, true
	}
	return "", false
}

const (
	themeUp   = "watch-up"
	themeDown = "watch-down"
)

var registerThemes = sync.OnceFunc(func() {
	for name, dir := range map[string]analytics.Direction{themeUp: analytics.Up, themeDown: analytics.Down} {
		charts.AddTheme(name, charts.ThemeOption{
			AxisStrokeColor:    drawing.Color{R: 110, G: 112, B: 121, A: 255},
			AxisSplitLineColor: drawing.Color{R: 224, G: 230, B: 242, A: 255},
			BackgroundColor:    drawing.ColorWhite,
			TextColor:          drawing.Color{R: 70, G: 70, B: 70, A: 255},
			SeriesColors:       []drawing.Color{drawing.ColorFromHex(strings.TrimPrefix(dir.Color(), "#"))},
		})
	}
})

func themeFor(dir analytics.Direction) string {
	if dir == analytics.Down {
		return themeDown
	}
	return themeUp
}

// Render draws points, oldest first, colored by dir.
func Render(kind Kind, title string, points []model.HistoryPoint, dir analytics.Direction) ([]byte, error) {
	if len(points) < 2 {
		return nil, ErrNotEnoughData
	}
	registerThemes()

	values := make([]float64, len(points))
	labels := make([]string, len(points))
	yMin, yMax := points[0].Price.InexactFloat64(), points[0].Price.InexactFloat64()
	for i, p := range points {
		v := p.Price.InexactFloat64()
		values[i] = v
		labels[i] = p.Day()
		if v < yMin {
			yMin = v
		}
		if v > yMax {
			yMax = v
		}
	}
	pad := (yMax - yMin) * 0.05
	if pad < yMax*0.002 {
		pad = yMax * 0.002
	}
	if pad == 0 {
		pad = 1
	}
	yMin -= pad
	if yMin < 0 {
		yMin = 0
	}
	yMax += pad

	opts := []charts.OptionFunc{charts.ThemeOptionFunc(themeFor(dir))}
	switch kind {
	case Spark:
		opts = append(opts,
			charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, Show: charts.FalseFlag(), BoundaryGap: charts.FalseFlag()}),
			charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, Show: charts.FalseFlag()}),
			charts.WidthOptionFunc(160),
			charts.HeightOptionFunc(60),
		)
	case Detail:
		split := 10
		if len(points) < split {
			split = len(points)
		}
		opts = append(opts,
			charts.TitleTextOptionFunc(title),
			charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, BoundaryGap: charts.FalseFlag(), SplitNumber: split}),
			charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
			charts.WidthOptionFunc(800),
			charts.HeightOptionFunc(400),
		)
	default:
		return nil, fmt.Errorf("chart: unknown kind %q", kind)
	}

	painter, err := charts.LineRender([][]float64{values}, opts...)
	if err != nil {
		return nil, fmt.Errorf("render %s chart: %w", kind, err)
	}
	buf, err := painter.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encode %s chart: %w", kind, err)
	}
	return buf, nil
}
