package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monteCarloDash/internal/dashboard"
	"monteCarloDash/internal/montecarlo"
	"monteCarloDash/internal/storage"
)

type fakeSender struct{ sent []tgbotapi.Chattable }

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

type stubProvider struct{ err error }

func (s stubProvider) History(context.Context, string, time.Time, time.Time) (montecarlo.PriceSeries, error) {
	out := montecarlo.PriceSeries{}
	for i, p := range []float64{50, 51, 49, 52} {
		out = append(out, montecarlo.PricePoint{Date: time.Date(2025, 2, 3+i, 0, 0, 0, 0, time.UTC), Price: p})
	}
	return out, s.err
}

func (s stubProvider) LatestPrice(context.Context, string) (float64, error) { return 52, s.err }

type stubUsage struct{}

func (stubUsage) Usage(time.Time) ([]storage.UsageStats, error) {
	return []storage.UsageStats{{Symbol: "NVDA", Count: 2, Paths: 1000}}, nil
}

func newTestHandlers(p stubProvider, usage UsageSource) (*Handlers, *fakeSender) {
	svc := dashboard.NewService(p, montecarlo.NewSimulator(montecarlo.WithSeed(11)),
		dashboard.WithClock(func() time.Time { return time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC) }),
		dashboard.WithRenderer(func(string, montecarlo.PathMatrix, float64) ([]byte, error) { return []byte("png"), nil }))
	s := &fakeSender{}
	return NewHandlers(s, svc, usage), s
}

func message(text string) *tgbotapi.Message {
	return &tgbotapi.Message{Text: text, Chat: &tgbotapi.Chat{ID: 42}}
}

func TestParseMC(t *testing.T) {
	req, ok, err := parseMC("/mc nvda 2024-03-01 200")
	require.True(t, ok)
	require.NoError(t, err)
	assert.Equal(t, "NVDA", req.Ticker)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), req.StartDate)
	assert.Equal(t, 200, req.NumSimulations)
	assert.Equal(t, 252, req.HorizonDays)

	req, ok, err = parseMC("/mc@my_bot GME")
	require.True(t, ok)
	require.NoError(t, err)
	assert.Equal(t, montecarlo.DefaultStartDate, req.StartDate)
	assert.Equal(t, 500, req.NumSimulations)

	_, ok, err = parseMC("/mc TSLA 2024-13-45")
	assert.True(t, ok)
	assert.Error(t, err)

	_, ok, _ = parseMC("/mcx TSLA")
	assert.False(t, ok)
}

func TestHandleMessage_Simulation(t *testing.T) {
	h, s := newTestHandlers(stubProvider{}, nil)
	h.HandleMessage(message("/mc tsla 2024-01-01 20"))

	require.Len(t, s.sent, 1)
	photo, ok := s.sent[0].(tgbotapi.PhotoConfig)
	require.True(t, ok, "expected a photo, got %T", s.sent[0])
	assert.Equal(t, int64(42), photo.ChatID)
	assert.Contains(t, photo.Caption, "TSLA • 20 paths • 252 days • since 2024-01-01")
}

func TestHandleMessage_SimulationErrorIsText(t *testing.T) {
	h, s := newTestHandlers(stubProvider{}, nil)
	h.HandleMessage(message("/mc tsla 2024-01-01 15"))

	require.Len(t, s.sent, 1)
	msg, ok := s.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Contains(t, msg.Text, "INVALID_CONFIG")

	h, s = newTestHandlers(stubProvider{err: errors.New("yahoo down")}, nil)
	h.HandleMessage(message("/mc tsla"))
	require.Len(t, s.sent, 1)
	assert.Contains(t, s.sent[0].(tgbotapi.MessageConfig).Text, "yahoo down")
}

func TestHandleMessage_SimulationBusy(t *testing.T) {
	h, s := newTestHandlers(stubProvider{}, nil)
	require.True(t, h.sims.TryAcquire(maxConcurrentSimulations))

	h.HandleMessage(message("/mc tsla 2024-01-01 20"))
	require.Len(t, s.sent, 1)
	assert.Contains(t, s.sent[0].(tgbotapi.MessageConfig).Text, "Too many simulations")

	h.sims.Release(maxConcurrentSimulations)
	h.HandleMessage(message("/mc tsla 2024-01-01 20"))
	require.Len(t, s.sent, 2)
	_, ok := s.sent[1].(tgbotapi.PhotoConfig)
	assert.True(t, ok)
}

func TestHandleMessage_Usage(t *testing.T) {
	h, s := newTestHandlers(stubProvider{}, nil)
	h.HandleMessage(message("/usage"))
	require.Len(t, s.sent, 1)
	assert.Equal(t, "Usage tracking is disabled.", s.sent[0].(tgbotapi.MessageConfig).Text)

	h, s = newTestHandlers(stubProvider{}, stubUsage{})
	h.HandleMessage(message("/usage 30"))
	require.Len(t, s.sent, 1)
	photo, ok := s.sent[0].(tgbotapi.PhotoConfig)
	require.True(t, ok)
	assert.Contains(t, photo.Caption, "NVDA: 2 runs")
}

func TestHandleMessage_HelpAndTickers(t *testing.T) {
	h, s := newTestHandlers(stubProvider{}, nil)
	h.HandleMessage(message("/help"))
	h.HandleMessage(message("/tickers"))
	h.HandleMessage(message("just chatting"))

	require.Len(t, s.sent, 2)
	assert.Contains(t, s.sent[0].(tgbotapi.MessageConfig).Text, "/mc SYMBOL")
	assert.Contains(t, s.sent[1].(tgbotapi.MessageConfig).Text, "GameStop (GME)")
}
