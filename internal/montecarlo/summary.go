package montecarlo

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

// Summary describes the distribution of terminal prices of a run.
type Summary struct {
	InitialPrice float64 `json:"initialPrice"`
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	P5           float64 `json:"p5"`
	P95          float64 `json:"p95"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	ProbAbove    float64 `json:"probAbove"` // share of paths ending above the initial price
}

// Summarize computes terminal-price statistics for m.
func Summarize(m PathMatrix, initialPrice float64) (Summary, error) {
	terminal := stats.Float64Data(m.Terminal())
	if terminal.Len() == 0 {
		return Summary{}, insufficientData("empty path matrix")
	}
	s := Summary{InitialPrice: initialPrice}
	var err error
	if s.Mean, err = stats.Mean(terminal); err != nil {
		return Summary{}, err
	}
	if s.Median, err = stats.Median(terminal); err != nil {
		return Summary{}, err
	}
	if s.P5, err = stats.PercentileNearestRank(terminal, 5); err != nil {
		return Summary{}, err
	}
	if s.P95, err = stats.PercentileNearestRank(terminal, 95); err != nil {
		return Summary{}, err
	}
	if s.Min, err = stats.Min(terminal); err != nil {
		return Summary{}, err
	}
	if s.Max, err = stats.Max(terminal); err != nil {
		return Summary{}, err
	}
	above := 0
	for _, v := range terminal {
		if v > initialPrice {
			above++
		}
	}
	s.ProbAbove = float64(above) / float64(terminal.Len())
	return s, nil
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Format renders the summary as short plain text.
func (s Summary) Format() string {
	return fmt.Sprintf("Start %s • Mean %s • Median %s\n5%%–95%%: %s – %s • Range %s – %s\nP(above start): %s%%",
		money(s.InitialPrice), money(s.Mean), money(s.Median),
		money(s.P5), money(s.P95), money(s.Min), money(s.Max),
		decimal.NewFromFloat(s.ProbAbove*100).StringFixed(1))
}
