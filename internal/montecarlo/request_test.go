package montecarlo_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"monteCarloDash/internal/montecarlo"
)

var today = time.Date(2025, time.June, 30, 15, 0, 0, 0, time.UTC)

func TestRequest_Defaults(t *testing.T) {
	r := montecarlo.Request{Ticker: " aapl "}.WithDefaults()
	assert.Equal(t, "AAPL", r.Ticker)
	assert.Equal(t, montecarlo.DefaultStartDate, r.StartDate)
	assert.Equal(t, 500, r.NumSimulations)
	assert.Equal(t, 252, r.HorizonDays)
	assert.NoError(t, r.Validate(today))

	assert.Equal(t, "TSLA", montecarlo.Request{}.WithDefaults().Ticker)
}

func TestRequest_Validate(t *testing.T) {
	base := montecarlo.Request{}.WithDefaults()
	cases := map[string]func(*montecarlo.Request){
		"too few sims":  func(r *montecarlo.Request) { r.NumSimulations = 5 },
		"too many sims": func(r *montecarlo.Request) { r.NumSimulations = 3010 },
		"off step":      func(r *montecarlo.Request) { r.NumSimulations = 15 },
		"negative sims": func(r *montecarlo.Request) { r.NumSimulations = -10 },
		"early start":   func(r *montecarlo.Request) { r.StartDate = time.Date(2009, 12, 31, 0, 0, 0, 0, time.UTC) },
		"future start":  func(r *montecarlo.Request) { r.StartDate = today.AddDate(0, 0, 1) },
		"zero horizon":  func(r *montecarlo.Request) { r.HorizonDays = -1 },
		"huge horizon":  func(r *montecarlo.Request) { r.HorizonDays = 1 << 30 },
		"empty ticker":  func(r *montecarlo.Request) { r.Ticker = "  " },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			r := base
			mutate(&r)
			assert.ErrorIs(t, r.Validate(today), montecarlo.ErrInvalidConfig)
		})
	}
}

func TestRequest_Bounds(t *testing.T) {
	r := montecarlo.Request{}.WithDefaults()
	r.StartDate = montecarlo.EarliestStartDate
	r.NumSimulations = montecarlo.MinSimulations
	assert.NoError(t, r.Validate(today))

	r.StartDate = today
	r.NumSimulations = montecarlo.MaxSimulations
	assert.NoError(t, r.Validate(today))

	r.HorizonDays = montecarlo.MaxHorizonDays
	assert.NoError(t, r.Validate(today))
	r.HorizonDays = montecarlo.MaxHorizonDays + 1
	assert.ErrorIs(t, r.Validate(today), montecarlo.ErrInvalidConfig)
}
