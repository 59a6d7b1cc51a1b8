package montecarlo

import (
	"math"

	"github.com/montanaflynn/stats"
)

// LogReturns computes ln(p[i]/p[i-1]) for each consecutive pair of prices.
// Every price must be finite and strictly positive and dates must be
// strictly increasing.
func LogReturns(series PriceSeries) ([]float64, error) {
	for i, p := range series {
		if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
			return nil, invalidInput("price at index %d is not finite: %v", i, p.Price)
		}
		if p.Price <= 0 {
			return nil, invalidInput("price at index %d must be positive, got %v", i, p.Price)
		}
		if i > 0 && !p.Date.IsZero() && !series[i-1].Date.IsZero() && !p.Date.After(series[i-1].Date) {
			return nil, invalidInput("dates must be strictly increasing at index %d (%s after %s)",
				i, p.Date.Format("2006-01-02"), series[i-1].Date.Format("2006-01-02"))
		}
	}
	if len(series) < 2 {
		return []float64{}, nil
	}
	out := make([]float64, len(series)-1)
	for i := 1; i < len(series); i++ {
		out[i-1] = math.Log(series[i].Price / series[i-1].Price)
	}
	return out, nil
}

// Estimate derives annualized volatility and expected return from a
// historical adjusted-close series of at least three prices.
//
// Two prices give a single log-return, whose sample standard deviation
// (n-1 denominator) is undefined. Shorter series fail with
// ErrInsufficientData rather than producing NaN.
func Estimate(series PriceSeries) (MarketParameters, error) {
	if len(series) < 2 {
		return MarketParameters{}, insufficientData("need at least 2 prices, got %d", len(series))
	}
	returns, err := LogReturns(series)
	if err != nil {
		return MarketParameters{}, err
	}
	if len(returns) < 2 {
		return MarketParameters{}, insufficientData("sample volatility needs at least 2 log-returns, got %d", len(returns))
	}

	data := stats.Float64Data(returns)
	mean, err := stats.Mean(data)
	if err != nil {
		return MarketParameters{}, insufficientData("mean of log-returns: %v", err)
	}
	std, err := stats.StandardDeviationSample(data)
	if err != nil {
		return MarketParameters{}, insufficientData("std of log-returns: %v", err)
	}

	params := MarketParameters{
		Volatility:     std * math.Sqrt(TradingDaysPerYear),
		ExpectedReturn: mean * TradingDaysPerYear,
	}
	if math.IsNaN(params.Volatility) || math.IsInf(params.Volatility, 0) ||
		math.IsNaN(params.ExpectedReturn) || math.IsInf(params.ExpectedReturn, 0) {
		return MarketParameters{}, invalidInput("estimated parameters are not finite: %+v", params)
	}
	return params, nil
}
