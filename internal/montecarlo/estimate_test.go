package montecarlo_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monteCarloDash/internal/montecarlo"
)

func seriesOf(prices ...float64) montecarlo.PriceSeries {
	start := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	out := make(montecarlo.PriceSeries, len(prices))
	for i, p := range prices {
		out[i] = montecarlo.PricePoint{Date: start.AddDate(0, 0, i), Price: p}
	}
	return out
}

// TestEstimate_FiveCloses checks the estimator against a direct
// recomputation of mean and sample std of the four log-returns.
func TestEstimate_FiveCloses(t *testing.T) {
	prices := []float64{100, 102, 101, 105, 107}
	params, err := montecarlo.Estimate(seriesOf(prices...))
	require.NoError(t, err)

	lr := make([]float64, 0, 4)
	for i := 1; i < len(prices); i++ {
		lr = append(lr, math.Log(prices[i]/prices[i-1]))
	}
	mean := 0.0
	for _, v := range lr {
		mean += v
	}
	mean /= float64(len(lr))
	ss := 0.0
	for _, v := range lr {
		ss += (v - mean) * (v - mean)
	}
	std := math.Sqrt(ss / float64(len(lr)-1))

	assert.InDelta(t, mean*252, params.ExpectedReturn, 1e-12)
	assert.InDelta(t, std*math.Sqrt(252), params.Volatility, 1e-12)
}

// TestEstimate_ConstantGrowth verifies zero volatility for a series growing
// at a constant rate.
func TestEstimate_ConstantGrowth(t *testing.T) {
	const r = 0.001
	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 50 * math.Exp(r*float64(i))
	}
	params, err := montecarlo.Estimate(seriesOf(prices...))
	require.NoError(t, err)
	assert.InDelta(t, 0, params.Volatility, 1e-9)
	assert.InDelta(t, r*252, params.ExpectedReturn, 1e-9)
}

func TestEstimate_InsufficientData(t *testing.T) {
	_, err := montecarlo.Estimate(seriesOf(100))
	assert.ErrorIs(t, err, montecarlo.ErrInsufficientData)

	_, err = montecarlo.Estimate(nil)
	assert.ErrorIs(t, err, montecarlo.ErrInsufficientData)

	// a single log-return has no sample standard deviation
	_, err = montecarlo.Estimate(seriesOf(100, 101))
	assert.ErrorIs(t, err, montecarlo.ErrInsufficientData)
}

func TestEstimate_InvalidPrices(t *testing.T) {
	cases := map[string]montecarlo.PriceSeries{
		"zero":     seriesOf(100, 0, 101),
		"negative": seriesOf(100, 101, -3),
		"nan":      seriesOf(100, math.NaN(), 101),
		"inf":      seriesOf(math.Inf(1), 100, 101),
	}
	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := montecarlo.Estimate(s)
			assert.ErrorIs(t, err, montecarlo.ErrInvalidInput)
			assert.NotErrorIs(t, err, montecarlo.ErrInsufficientData)
		})
	}
}

func TestEstimate_UnorderedDates(t *testing.T) {
	s := seriesOf(100, 101, 102)
	s[2].Date = s[1].Date
	_, err := montecarlo.Estimate(s)
	assert.ErrorIs(t, err, montecarlo.ErrInvalidInput)
}

func TestLogReturns(t *testing.T) {
	lr, err := montecarlo.LogReturns(seriesOf(100, 110, 99))
	require.NoError(t, err)
	require.Len(t, lr, 2)
	assert.InDelta(t, math.Log(1.1), lr[0], 1e-15)
	assert.InDelta(t, math.Log(0.9), lr[1], 1e-15)

	lr, err = montecarlo.LogReturns(seriesOf(100))
	require.NoError(t, err)
	assert.Empty(t, lr)
}
