package telegram

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/semaphore"

	"monteCarloDash/internal/dashboard"
	"monteCarloDash/internal/finance"
	"monteCarloDash/internal/logger"
	"monteCarloDash/internal/montecarlo"
	"monteCarloDash/internal/storage"
)

var (
	// /mc SYMBOL [YYYY-MM-DD] [N]
	reMC = regexp.MustCompile(`^/mc(?:@[\w_]+)?\s+([A-Za-z0-9\.^_=+-]+)(?:\s+(\d{4}-\d{2}-\d{2}))?(?:\s+(\d+))?$`)
	// /usage [days]
	reUsage = regexp.MustCompile(`^/usage(?:@[\w_]+)?(?:\s+(\d+))?$`)
	// /tickers
	reTickers = regexp.MustCompile(`^/tickers(?:@[\w_]+)?$`)
	// /help
	reHelp = regexp.MustCompile(`^/(help|start)(?:@[\w_]+)?$`)
)

// Sender is the part of the Bot API the handlers use.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// UsageSource reports request counts per symbol.
type UsageSource interface {
	Usage(since time.Time) ([]storage.UsageStats, error)
}

// maxConcurrentSimulations bounds /mc runs across all chats.
const maxConcurrentSimulations = 4

type Handlers struct {
	api     Sender
	svc     *dashboard.Service
	usage   UsageSource
	timeout time.Duration
	sims    *semaphore.Weighted
}

func NewHandlers(api Sender, svc *dashboard.Service, usage UsageSource) *Handlers {
	return &Handlers{
		api:     api,
		svc:     svc,
		usage:   usage,
		timeout: 60 * time.Second,
		sims:    semaphore.NewWeighted(maxConcurrentSimulations),
	}
}

// parseMC turns a /mc command into a request. ok is false when txt is not a
// /mc command at all.
func parseMC(txt string) (req montecarlo.Request, ok bool, err error) {
	g := reMC.FindStringSubmatch(txt)
	if g == nil {
		return req, false, nil
	}
	req.Ticker = g[1]
	if g[2] != "" {
		d, err := time.Parse(time.DateOnly, g[2])
		if err != nil {
			return req, true, fmt.Errorf("bad start date %q, use YYYY-MM-DD", g[2])
		}
		req.StartDate = d
	}
	if g[3] != "" {
		n, err := strconv.Atoi(g[3])
		if err != nil {
			return req, true, fmt.Errorf("bad number of simulations %q", g[3])
		}
		req.NumSimulations = n
	}
	return req.WithDefaults(), true, nil
}

func (h *Handlers) HandleMessage(m *tgbotapi.Message) {
	txt := strings.TrimSpace(m.Text)
	switch {
	case reMC.MatchString(txt):
		req, _, err := parseMC(txt)
		if err != nil {
			h.reply(m.Chat.ID, err.Error())
			return
		}
		h.handleSimulation(m.Chat.ID, req)

	case reUsage.MatchString(txt):
		days := 7
		if g := reUsage.FindStringSubmatch(txt); len(g) == 2 && g[1] != "" {
			fmt.Sscanf(g[1], "%d", &days)
			if days < 1 {
				days = 1
			}
			if days > 365 {
				days = 365
			}
		}
		h.handleUsage(m.Chat.ID, days)

	case reTickers.MatchString(txt):
		var b strings.Builder
		b.WriteString("Tickers\n")
		for _, t := range finance.Tickers {
			b.WriteString("- " + t.Label + "\n")
		}
		h.reply(m.Chat.ID, b.String())

	case reHelp.MatchString(txt):
		h.handleHelp(m.Chat.ID)
	}
}

func (h *Handlers) handleSimulation(chatID int64, req montecarlo.Request) {
	if !h.sims.TryAcquire(1) {
		h.reply(chatID, "Too many simulations running, try again in a minute.")
		return
	}
	defer h.sims.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	res, err := h.svc.Run(ctx, req, "telegram", dashboard.Options{Chart: true, Commentary: h.svc.CommentaryEnabled()})
	if err != nil {
		h.reply(chatID, fmt.Sprintf("Simulation failed for %s: %v", req.Ticker, err))
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: req.Ticker + "_montecarlo.png", Bytes: res.Chart})
	photo.Caption = fmt.Sprintf("%s • %d paths • %d days • since %s\nσ=%.3f μ=%.3f\n%s",
		req.Ticker, req.NumSimulations, req.HorizonDays, req.StartDate.Format(time.DateOnly),
		res.Params.Volatility, res.Params.ExpectedReturn, res.Summary.Format())
	if _, err := h.api.Send(photo); err != nil {
		logger.With("telegram").WithError(err).Warn("send photo")
	}
	if res.Commentary != "" {
		h.reply(chatID, res.Commentary)
	}
}

func (h *Handlers) handleUsage(chatID int64, days int) {
	if h.usage == nil {
		h.reply(chatID, "Usage tracking is disabled.")
		return
	}
	stats, err := h.usage.Usage(time.Now().AddDate(0, 0, -days))
	if err != nil {
		h.reply(chatID, "Usage failed: "+err.Error())
		return
	}
	text := finance.FormatUsageText(stats, days)
	img, err := finance.MakeUsageChart(stats, days)
	if err != nil {
		h.reply(chatID, text)
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "usage.png", Bytes: img})
	photo.Caption = text
	if _, err := h.api.Send(photo); err != nil {
		logger.With("telegram").WithError(err).Warn("send usage chart")
	}
}

func (h *Handlers) handleHelp(chatID int64) {
	help := "Commands\n\n" +
		"- /mc SYMBOL [YYYY-MM-DD] [N] - Monte Carlo simulation of one year of prices from history since the date (default 2023-01-01), N paths in 10..3000 step 10 (default 500)\n" +
		"- /tickers - Suggested tickers\n" +
		"- /usage [days] - Simulations per ticker over the last N days (default 7)\n" +
		"\nModel: geometric Brownian motion with volatility and drift estimated from daily adjusted closes."
	h.reply(chatID, help)
}

func (h *Handlers) reply(chatID int64, text string) {
	if _, err := h.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		logger.With("telegram").WithError(err).Warn("send message")
	}
}
