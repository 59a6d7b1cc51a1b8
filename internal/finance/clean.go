package finance

import (
	"math"

	"monteCarloDash/internal/montecarlo"
)

// buildSeries pairs timestamps with prices, drops missing or non-positive
// bars and collapses bars sharing a market date to the latest one.
func buildSeries(ts []int64, px []*float64) montecarlo.PriceSeries {
	n := len(ts)
	if len(px) < n {
		n = len(px)
	}
	out := make(montecarlo.PriceSeries, 0, n)
	for i := 0; i < n; i++ {
		if px[i] == nil {
			continue
		}
		v := *px[i]
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		d := marketDate(ts[i])
		if len(out) > 0 {
			last := &out[len(out)-1]
			if d.Equal(last.Date) {
				last.Price = v
				continue
			}
			if d.Before(last.Date) {
				continue
			}
		}
		out = append(out, montecarlo.PricePoint{Date: d, Price: v})
	}
	return out
}

// pickCloses prefers the adjusted close column when Yahoo returns one that
// lines up with the timestamps.
func pickCloses(yc *yahooChartResp) []*float64 {
	r := yc.Chart.Result[0]
	if len(r.Indicators.AdjClose) > 0 && len(r.Indicators.AdjClose[0].AdjClose) == len(r.Timestamp) {
		return r.Indicators.AdjClose[0].AdjClose
	}
	if len(r.Indicators.Quote) > 0 {
		return r.Indicators.Quote[0].Close
	}
	return nil
}
