package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"monteCarloDash/internal/dashboard"
	"monteCarloDash/internal/finance"
	"monteCarloDash/internal/logger"
	"monteCarloDash/internal/montecarlo"
	"monteCarloDash/internal/storage"
)

// UsageSource reports request counts per symbol.
type UsageSource interface {
	Usage(since time.Time) ([]storage.UsageStats, error)
}

type Handlers struct {
	svc     *dashboard.Service
	usage   UsageSource
	timeout time.Duration
	today   func() time.Time
}

// NewHandlers builds the HTTP front-end. usage may be nil.
func NewHandlers(svc *dashboard.Service, usage UsageSource, timeout time.Duration) *Handlers {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Handlers{svc: svc, usage: usage, timeout: timeout, today: finance.Today}
}

// parseRequest reads ticker, start and n from the query string. Missing
// values take dashboard defaults; malformed ones are rejected.
func parseRequest(r *http.Request) (montecarlo.Request, error) {
	q := r.URL.Query()
	req := montecarlo.Request{Ticker: q.Get("ticker")}
	if v := strings.TrimSpace(q.Get("start")); v != "" {
		d, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return req, fmt.Errorf("%w: start date %q is not YYYY-MM-DD", montecarlo.ErrInvalidConfig, v)
		}
		req.StartDate = d
	}
	if v := strings.TrimSpace(q.Get("n")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("%w: number of simulations %q is not an integer", montecarlo.ErrInvalidConfig, v)
		}
		req.NumSimulations = n
	}
	if v := strings.TrimSpace(q.Get("horizon")); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("%w: horizon %q is not an integer", montecarlo.ErrInvalidConfig, v)
		}
		req.HorizonDays = h
	}
	return req.WithDefaults(), nil
}

func (h *Handlers) run(r *http.Request, opts dashboard.Options) (montecarlo.Request, *dashboard.Result, error) {
	req, err := parseRequest(r)
	if err != nil {
		return req, nil, err
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	res, err := h.svc.Run(ctx, req, "http", opts)
	return req, res, err
}

func statusFor(err error) int {
	if dashboard.IsInputError(err) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}

type pageData struct {
	Tickers        []finance.Ticker
	Request        montecarlo.Request
	StartDate      string
	MinDate        string
	MaxDate        string
	MinSimulations int
	MaxSimulations int
	Step           int
	Error          string
	ChartDataURI   template.URL
	Summary        string
	Params         montecarlo.MarketParameters
	Commentary     string
}

// Page renders the dashboard with the chart inline, or the error message in
// its place.
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	req, res, err := h.run(r, dashboard.Options{Chart: true, Commentary: h.svc.CommentaryEnabled()})
	data := pageData{
		Tickers:        finance.Tickers,
		Request:        req,
		StartDate:      req.StartDate.Format(time.DateOnly),
		MinDate:        montecarlo.EarliestStartDate.Format(time.DateOnly),
		MaxDate:        h.today().Format(time.DateOnly),
		MinSimulations: montecarlo.MinSimulations,
		MaxSimulations: montecarlo.MaxSimulations,
		Step:           montecarlo.SimulationsStep,
	}
	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
		data.Error = err.Error()
		logger.With("http").WithError(err).Warn("dashboard request failed")
	} else {
		data.ChartDataURI = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(res.Chart))
		data.Summary = res.Summary.Format()
		data.Params = res.Params
		data.Commentary = res.Commentary
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		logger.Error(err, "render page")
	}
}

// Chart serves the simulation chart as PNG.
func (h *Handlers) Chart(w http.ResponseWriter, r *http.Request) {
	_, res, err := h.run(r, dashboard.Options{Chart: true})
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(res.Chart)
}

type simulateResponse struct {
	Ticker         string                `json:"ticker"`
	StartDate      string                `json:"startDate"`
	NumSimulations int                   `json:"numSimulations"`
	HorizonDays    int                   `json:"horizonDays"`
	HistoryDays    int                   `json:"historyDays"`
	InitialPrice   float64               `json:"initialPrice"`
	Volatility     float64               `json:"volatility"`
	ExpectedReturn float64               `json:"expectedReturn"`
	Summary        montecarlo.Summary    `json:"summary"`
	Paths          montecarlo.PathMatrix `json:"paths,omitempty"`
	Commentary     string                `json:"commentary,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// SimulateJSON returns parameters and summary; paths=true adds the matrix.
func (h *Handlers) SimulateJSON(w http.ResponseWriter, r *http.Request) {
	withComment := r.URL.Query().Get("commentary") == "true"
	req, res, err := h.run(r, dashboard.Options{Commentary: withComment})
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(statusFor(err))
		_ = json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
		return
	}
	out := simulateResponse{
		Ticker:         req.Ticker,
		StartDate:      req.StartDate.Format(time.DateOnly),
		NumSimulations: req.NumSimulations,
		HorizonDays:    req.HorizonDays,
		HistoryDays:    res.HistoryDays,
		InitialPrice:   res.InitialPrice,
		Volatility:     res.Params.Volatility,
		ExpectedReturn: res.Params.ExpectedReturn,
		Summary:        res.Summary,
		Commentary:     res.Commentary,
	}
	if r.URL.Query().Get("paths") == "true" {
		out.Paths = res.Paths
	}
	_ = json.NewEncoder(w).Encode(out)
}

// UsageChart renders request counts per ticker over the last ?days (default 7).
func (h *Handlers) UsageChart(w http.ResponseWriter, r *http.Request) {
	if h.usage == nil {
		http.Error(w, "usage tracking disabled", http.StatusNotFound)
		return
	}
	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d < 1 || d > 365 {
			http.Error(w, "days must be an integer in [1, 365]", http.StatusBadRequest)
			return
		}
		days = d
	}
	stats, err := h.usage.Usage(time.Now().AddDate(0, 0, -days))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	img, err := finance.MakeUsageChart(stats, days)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(img)
}
