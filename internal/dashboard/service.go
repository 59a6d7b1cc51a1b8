// Package dashboard wires user requests to the simulation core: it fetches
// history once, estimates market parameters, simulates paths and renders
// the chart.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"monteCarloDash/internal/finance"
	"monteCarloDash/internal/logger"
	"monteCarloDash/internal/metrics"
	"monteCarloDash/internal/montecarlo"
	"monteCarloDash/internal/storage"
)

// Commentator narrates a finished run.
type Commentator interface {
	Comment(ctx context.Context, symbol string, horizon int, params montecarlo.MarketParameters, s montecarlo.Summary) (string, error)
}

// Recorder stores request metadata for usage reports.
type Recorder interface {
	SaveRequest(r storage.RequestRecord) error
}

// RenderFunc turns a path matrix into an image.
type RenderFunc func(symbol string, m montecarlo.PathMatrix, initialPrice float64) ([]byte, error)

// Options selects the optional outputs of a run.
type Options struct {
	Chart      bool
	Commentary bool
}

// Result is everything a front-end needs to display one run.
type Result struct {
	Request      montecarlo.Request
	HistoryDays  int
	Params       montecarlo.MarketParameters
	InitialPrice float64
	Paths        montecarlo.PathMatrix
	Summary      montecarlo.Summary
	Chart        []byte
	Commentary   string
	Elapsed      time.Duration
}

type Service struct {
	provider    finance.Provider
	sim         *montecarlo.Simulator
	recorder    Recorder
	commentator Commentator
	render      RenderFunc
	today       func() time.Time
	log         *logrus.Entry
}

type ServiceOption func(*Service)

func WithRecorder(r Recorder) ServiceOption { return func(s *Service) { s.recorder = r } }

func WithCommentator(c Commentator) ServiceOption { return func(s *Service) { s.commentator = c } }

func WithRenderer(r RenderFunc) ServiceOption { return func(s *Service) { s.render = r } }

func WithClock(today func() time.Time) ServiceOption { return func(s *Service) { s.today = today } }

func NewService(p finance.Provider, sim *montecarlo.Simulator, opts ...ServiceOption) *Service {
	s := &Service{
		provider: p,
		sim:      sim,
		render:   finance.RenderPaths,
		today:    finance.Today,
		log:      logger.With("dashboard"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CommentaryEnabled reports whether a commentator is configured.
func (s *Service) CommentaryEnabled() bool { return s.commentator != nil }

// Run executes one request end to end. source tags the request in usage
// records (http, telegram, cli).
func (s *Service) Run(ctx context.Context, req montecarlo.Request, source string, opts Options) (*Result, error) {
	begin := time.Now()
	req = req.WithDefaults()
	today := s.today()
	if err := req.Validate(today); err != nil {
		metrics.SimulationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, err
	}
	log := s.log.WithFields(logrus.Fields{"symbol": req.Ticker, "paths": req.NumSimulations, "steps": req.HorizonDays, "source": source})

	history, err := s.provider.History(ctx, req.Ticker, req.StartDate, today)
	if err != nil {
		metrics.SimulationsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, fmt.Errorf("fetch %s history: %w", req.Ticker, err)
	}
	params, err := montecarlo.Estimate(history)
	if err != nil {
		metrics.SimulationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, fmt.Errorf("estimate %s: %w", req.Ticker, err)
	}
	initial, err := s.provider.LatestPrice(ctx, req.Ticker)
	if err != nil {
		metrics.SimulationsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, fmt.Errorf("fetch %s quote: %w", req.Ticker, err)
	}

	cfg := montecarlo.SimulationConfig{
		InitialPrice: initial,
		NumSteps:     req.HorizonDays,
		NumPaths:     req.NumSimulations,
		Market:       params,
	}
	simStart := time.Now()
	paths, err := s.sim.Simulate(cfg)
	if err != nil {
		metrics.SimulationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, fmt.Errorf("simulate %s: %w", req.Ticker, err)
	}
	metrics.SimulationLatency.Observe(time.Since(simStart).Seconds())
	metrics.SimulatedPaths.Add(float64(cfg.NumPaths))

	summary, err := montecarlo.Summarize(paths, initial)
	if err != nil {
		metrics.SimulationsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, err
	}

	res := &Result{
		Request:      req,
		HistoryDays:  len(history),
		Params:       params,
		InitialPrice: initial,
		Paths:        paths,
		Summary:      summary,
	}
	if opts.Chart {
		if res.Chart, err = s.render(req.Ticker, paths, initial); err != nil {
			metrics.SimulationsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
			return nil, fmt.Errorf("render %s chart: %w", req.Ticker, err)
		}
	}
	if opts.Commentary && s.commentator != nil {
		// commentary is best effort; the chart stands without it
		if res.Commentary, err = s.commentator.Comment(ctx, req.Ticker, req.HorizonDays, params, summary); err != nil {
			log.WithError(err).Warn("commentary failed")
		}
	}
	if s.recorder != nil {
		rec := storage.RequestRecord{
			Symbol: req.Ticker, StartDate: req.StartDate, Paths: req.NumSimulations,
			Horizon: req.HorizonDays, Source: source, At: time.Now(),
		}
		if err := s.recorder.SaveRequest(rec); err != nil {
			log.WithError(err).Warn("request not recorded")
		}
	}

	res.Elapsed = time.Since(begin)
	metrics.SimulationsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	log.WithFields(logrus.Fields{
		"initial":    initial,
		"volatility": params.Volatility,
		"drift":      params.ExpectedReturn,
		"history":    len(history),
		"elapsed":    res.Elapsed.String(),
	}).Info("simulation complete")
	return res, nil
}

// IsInputError reports whether err was caused by the request or the data it
// selected, rather than by an unavailable collaborator.
func IsInputError(err error) bool {
	return errors.Is(err, montecarlo.ErrInvalidConfig) ||
		errors.Is(err, montecarlo.ErrInvalidInput) ||
		errors.Is(err, montecarlo.ErrInsufficientData)
}
