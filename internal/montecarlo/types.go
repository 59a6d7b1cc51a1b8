package montecarlo

import "time"

// TradingDaysPerYear is the annualization factor for daily statistics.
const TradingDaysPerYear = 252

// PricePoint is a single dated observation of an adjusted close.
type PricePoint struct {
	Date  time.Time
	Price float64
}

// PriceSeries is ordered by strictly increasing date.
type PriceSeries []PricePoint

// Prices returns the price column of the series.
func (s PriceSeries) Prices() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Price
	}
	return out
}

// Last returns the most recent observation. ok is false for an empty series.
func (s PriceSeries) Last() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	return s[len(s)-1], true
}

// MarketParameters holds annualized statistics estimated from history.
type MarketParameters struct {
	Volatility     float64 // annualized, sample std of log-returns * sqrt(252)
	ExpectedReturn float64 // annualized, mean log-return * 252
}

// SimulationConfig fully determines one simulation run.
type SimulationConfig struct {
	InitialPrice float64
	NumSteps     int // trading days in the horizon, column 0 included
	NumPaths     int
	Market       MarketParameters
}

// PathMatrix is NumPaths rows by NumSteps columns. Row i is one trajectory.
type PathMatrix [][]float64

// Dims returns the number of paths and steps.
func (m PathMatrix) Dims() (paths, steps int) {
	if len(m) == 0 {
		return 0, 0
	}
	return len(m), len(m[0])
}

// Terminal returns the last price of every path.
func (m PathMatrix) Terminal() []float64 {
	out := make([]float64, len(m))
	for i, row := range m {
		if len(row) > 0 {
			out[i] = row[len(row)-1]
		}
	}
	return out
}
