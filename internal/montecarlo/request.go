package montecarlo

import (
	"strings"
	"time"
)

// Dashboard input limits.
const (
	MinSimulations     = 10
	MaxSimulations     = 3000
	SimulationsStep    = 10
	DefaultSimulations = 500
	DefaultHorizonDays = TradingDaysPerYear
	MaxHorizonDays     = 10 * TradingDaysPerYear
	DefaultTicker      = "TSLA"
)

// EarliestStartDate is the first date a history window may begin on.
var EarliestStartDate = time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC)

// DefaultStartDate is the history start offered before the user picks one.
var DefaultStartDate = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

// Request is what a front-end collects from the user.
type Request struct {
	Ticker         string
	StartDate      time.Time
	NumSimulations int
	HorizonDays    int
}

// WithDefaults fills unset fields. It never touches fields the caller set,
// so out-of-range values still fail Validate.
func (r Request) WithDefaults() Request {
	r.Ticker = strings.ToUpper(strings.TrimSpace(r.Ticker))
	if r.Ticker == "" {
		r.Ticker = DefaultTicker
	}
	if r.StartDate.IsZero() {
		r.StartDate = DefaultStartDate
	}
	if r.NumSimulations == 0 {
		r.NumSimulations = DefaultSimulations
	}
	if r.HorizonDays == 0 {
		r.HorizonDays = DefaultHorizonDays
	}
	return r
}

// Validate checks r against the dashboard limits; today bounds the start date.
func (r Request) Validate(today time.Time) error {
	if strings.TrimSpace(r.Ticker) == "" {
		return invalidConfig("ticker is required")
	}
	start := dateOnly(r.StartDate)
	if start.Before(EarliestStartDate) {
		return invalidConfig("start date %s is before %s", start.Format(time.DateOnly), EarliestStartDate.Format(time.DateOnly))
	}
	if start.After(dateOnly(today)) {
		return invalidConfig("start date %s is in the future", start.Format(time.DateOnly))
	}
	if r.NumSimulations < MinSimulations || r.NumSimulations > MaxSimulations {
		return invalidConfig("number of simulations must be in [%d, %d], got %d", MinSimulations, MaxSimulations, r.NumSimulations)
	}
	if r.NumSimulations%SimulationsStep != 0 {
		return invalidConfig("number of simulations must be a multiple of %d, got %d", SimulationsStep, r.NumSimulations)
	}
	if r.HorizonDays < 1 || r.HorizonDays > MaxHorizonDays {
		return invalidConfig("horizon must be in [1, %d] days, got %d", MaxHorizonDays, r.HorizonDays)
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
