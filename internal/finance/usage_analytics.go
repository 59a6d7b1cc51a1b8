package finance

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vicanso/go-charts/v2"

	"monteCarloDash/internal/storage"
)

// MakeUsageChart renders the share of simulation requests per symbol.
func MakeUsageChart(stats []storage.UsageStats, days int) ([]byte, error) {
	if len(stats) == 0 {
		return nil, fmt.Errorf("no usage data available")
	}
	sorted := sortedUsage(stats)

	total := 0
	for _, s := range sorted {
		total += s.Count
	}
	values := make([]float64, 0, len(sorted))
	labels := make([]string, 0, len(sorted))
	for _, s := range sorted {
		values = append(values, float64(s.Count))
		labels = append(labels, fmt.Sprintf("%s (%.1f%%)", s.Symbol, float64(s.Count)/float64(total)*100))
	}

	p, err := charts.PieRender(
		values,
		charts.TitleTextOptionFunc(fmt.Sprintf("Simulations by ticker (%d days)", days)),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: labels,
			Top:  charts.PositionTop,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(800),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, err
	}
	return p.Bytes()
}

// FormatUsageText summarizes usage as plain text, busiest symbol first.
func FormatUsageText(stats []storage.UsageStats, days int) string {
	if len(stats) == 0 {
		return "No simulations recorded for the specified period."
	}
	sorted := sortedUsage(stats)
	total := 0
	for _, s := range sorted {
		total += s.Count
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Usage (%d days): %d simulations\n", days, total)
	for _, s := range sorted {
		fmt.Fprintf(&b, "• %s: %d runs, %d paths\n", s.Symbol, s.Count, s.Paths)
	}
	return b.String()
}

func sortedUsage(stats []storage.UsageStats) []storage.UsageStats {
	out := make([]storage.UsageStats, len(stats))
	copy(out, stats)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}
