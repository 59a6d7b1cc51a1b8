package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"monteCarloDash/internal/config"
	"monteCarloDash/internal/dashboard"
	"monteCarloDash/internal/finance"
	"monteCarloDash/internal/logger"
	"monteCarloDash/internal/montecarlo"
	"monteCarloDash/internal/openai"
)

type runFlags struct {
	ticker     string
	start      string
	paths      int
	horizon    int
	seed       uint64
	out        string
	commentary bool
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mcsim",
		Short:         "Monte Carlo simulation of stock prices",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newTickersCmd())
	return root
}

func newRunCmd() *cobra.Command {
	f := runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Estimate parameters from history, simulate paths and write the chart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), f, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&f.ticker, "ticker", "t", montecarlo.DefaultTicker, "stock symbol")
	cmd.Flags().StringVarP(&f.start, "start", "s", montecarlo.DefaultStartDate.Format(time.DateOnly), "history start date (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&f.paths, "paths", "n", montecarlo.DefaultSimulations, "number of simulations (10..3000, step 10)")
	cmd.Flags().IntVar(&f.horizon, "horizon", montecarlo.DefaultHorizonDays, "trading days to simulate")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed, 0 picks one per run")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "PNG output path (default <TICKER>_montecarlo.png)")
	cmd.Flags().BoolVar(&f.commentary, "commentary", false, "ask OpenAI for a short commentary (needs OPENAI_API_KEY)")
	return cmd
}

func newTickersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tickers",
		Short: "List suggested tickers",
		Run: func(cmd *cobra.Command, _ []string) {
			for _, t := range finance.Tickers {
				fmt.Fprintf(cmd.OutOrStdout(), "%-5s %s\n", t.Symbol, t.Label)
			}
		},
	}
}

func run(ctx context.Context, f runFlags, w io.Writer) error {
	start, err := time.Parse(time.DateOnly, f.start)
	if err != nil {
		return fmt.Errorf("--start: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	simOpts := []montecarlo.Option{montecarlo.WithWorkers(cfg.SimWorkers)}
	if f.seed != 0 {
		simOpts = append(simOpts, montecarlo.WithSeed(f.seed))
	}
	var svcOpts []dashboard.ServiceOption
	if f.commentary {
		if !cfg.CommentaryEnabled() {
			return fmt.Errorf("--commentary needs OPENAI_API_KEY")
		}
		svcOpts = append(svcOpts, dashboard.WithCommentator(openai.NewCommentator(cfg.OpenAIKey, cfg.OpenAIModel)))
	}
	svc := dashboard.NewService(finance.NewYahooProvider(cfg.YahooBaseURL), montecarlo.NewSimulator(simOpts...), svcOpts...)

	ctx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()
	req := montecarlo.Request{Ticker: f.ticker, StartDate: start, NumSimulations: f.paths, HorizonDays: f.horizon}
	res, err := svc.Run(ctx, req, "cli", dashboard.Options{Chart: true, Commentary: f.commentary})
	if err != nil {
		return err
	}

	out := f.out
	if out == "" {
		out = strings.ToUpper(res.Request.Ticker) + "_montecarlo.png"
	}
	if err := os.WriteFile(out, res.Chart, 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	fmt.Fprintf(w, "%s: %d days of history, volatility %.4f, expected return %.4f\n",
		res.Request.Ticker, res.HistoryDays, res.Params.Volatility, res.Params.ExpectedReturn)
	fmt.Fprintln(w, res.Summary.Format())
	if res.Commentary != "" {
		fmt.Fprintln(w, res.Commentary)
	}
	fmt.Fprintf(w, "chart written to %s\n", out)
	return nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logger.Error(err, "mcsim failed")
		os.Exit(1)
	}
}
