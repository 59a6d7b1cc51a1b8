package finance

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vicanso/go-charts/v2"

	"monteCarloDash/internal/montecarlo"
)

const referenceSeriesName = "Initial price"

// MaxRenderedPaths caps how many paths are drawn. Larger matrices are
// thinned to an evenly spaced sample; the y axis still spans every path.
const MaxRenderedPaths = 200

var referenceDash = []float64{8, 6}

// samplePaths returns at most limit rows of m, evenly spaced and always
// including the first row.
func samplePaths(m montecarlo.PathMatrix, limit int) montecarlo.PathMatrix {
	if len(m) <= limit {
		return m
	}
	out := make(montecarlo.PathMatrix, limit)
	for i := range out {
		out[i] = m[i*len(m)/limit]
	}
	return out
}

// pathSeries builds the drawn line series and the padded y range.
func pathSeries(m montecarlo.PathMatrix, initialPrice float64) (charts.SeriesList, float64, float64) {
	_, steps := m.Dims()
	yMin, yMax := initialPrice, initialPrice
	for _, row := range m {
		for _, v := range row {
			yMin = math.Min(yMin, v)
			yMax = math.Max(yMax, v)
		}
	}
	pad := (yMax - yMin) * 0.05
	if pad < yMax*0.002 {
		pad = yMax * 0.002
	}
	yMin = math.Max(yMin-pad, 0)
	yMax += pad

	drawn := samplePaths(m, MaxRenderedPaths)
	values := make([][]float64, 0, len(drawn)+1)
	values = append(values, drawn...)
	reference := make([]float64, steps)
	for i := range reference {
		reference[i] = initialPrice
	}
	values = append(values, reference)

	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	ref := &seriesList[len(seriesList)-1]
	ref.Name = referenceSeriesName
	ref.Style = charts.Style{StrokeDashArray: referenceDash}
	return seriesList, yMin, yMax
}

// RenderPaths draws the simulated paths plus a dashed reference line at the
// initial price, and returns the chart as PNG bytes.
func RenderPaths(symbol string, m montecarlo.PathMatrix, initialPrice float64) ([]byte, error) {
	paths, steps := m.Dims()
	if paths == 0 || steps == 0 {
		return nil, errors.New("no paths to render")
	}

	// x labels are trading days from today
	xLabels := make([]string, steps)
	for i := range xLabels {
		xLabels[i] = strconv.Itoa(i)
	}
	split := 10
	if steps < split {
		split = steps
	}

	seriesList, yMin, yMax := pathSeries(m, initialPrice)
	subtitle := fmt.Sprintf("%d paths • %d trading days • x: Time (days) • y: Stock price", paths, steps)
	if paths > MaxRenderedPaths {
		subtitle = fmt.Sprintf("%d paths (%d drawn) • %d trading days • x: Time (days) • y: Stock price", paths, MaxRenderedPaths, steps)
	}

	painter, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc(fmt.Sprintf("Monte Carlo simulation of %s stock price", strings.ToUpper(symbol)), subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: xLabels, BoundaryGap: charts.FalseFlag(), SplitNumber: split}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 6}),
		charts.LegendOptionFunc(charts.LegendOption{Data: []string{referenceSeriesName}, Left: charts.PositionRight}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(1000),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}
