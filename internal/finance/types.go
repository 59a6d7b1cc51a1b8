package finance

import (
	"time"

	"monteCarloDash/internal/montecarlo"
)

// yahooChartResp mirrors the Yahoo v8 chart response (trimmed to needed fields).
// Closes are pointers because Yahoo emits null for missing bars.
type yahooChartResp struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				GmtOffset          int     `json:"gmtoffset"`
				Timezone           string  `json:"timezone"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// historyCacheEntry is one cached history series.
type historyCacheEntry struct {
	createdAt time.Time
	series    montecarlo.PriceSeries
}

const defaultHistoryCacheTTL = 10 * time.Minute
