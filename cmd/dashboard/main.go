package main

import (
	"net/http"
	"os"
	"path/filepath"

	"monteCarloDash/internal/config"
	"monteCarloDash/internal/dashboard"
	"monteCarloDash/internal/finance"
	"monteCarloDash/internal/logger"
	"monteCarloDash/internal/montecarlo"
	"monteCarloDash/internal/openai"
	"monteCarloDash/internal/server"
	"monteCarloDash/internal/storage"
	"monteCarloDash/internal/telegram"
)

func main() {
	log := logger.Get()
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(err, "config")
	}

	// Ensure parent directory for the DB exists
	_ = os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755)
	db, err := storage.OpenSQLite("file:" + cfg.DBPath + "?_fk=1")
	if err != nil {
		logger.Fatal(err, "open sqlite")
	}
	defer db.Close()
	if err := storage.InitSchema(db); err != nil {
		logger.Fatal(err, "init schema")
	}
	log.WithField("path", cfg.DBPath).Info("db: schema ensured (requests table)")
	store := storage.NewStore(db)

	provider := finance.NewCachedProvider(finance.NewYahooProvider(cfg.YahooBaseURL), cfg.HistoryCacheTTL)
	opts := []dashboard.ServiceOption{dashboard.WithRecorder(store)}
	if cfg.CommentaryEnabled() {
		opts = append(opts, dashboard.WithCommentator(openai.NewCommentator(cfg.OpenAIKey, cfg.OpenAIModel)))
		log.WithField("model", cfg.OpenAIModel).Info("openai: commentary enabled")
	}
	svc := dashboard.NewService(provider, montecarlo.NewSimulator(montecarlo.WithWorkers(cfg.SimWorkers)), opts...)

	var webhook http.HandlerFunc
	if cfg.TelegramEnabled() {
		tg, err := telegram.NewBot(cfg.TelegramToken, cfg.WebhookPublicURL, svc, store)
		if err != nil {
			logger.Fatal(err, "telegram")
		}
		webhook = tg.WebhookHandler
		log.WithField("url", cfg.WebhookPublicURL).Info("telegram: bot initialized")
	}

	mux := server.NewHTTPMux(server.NewHandlers(svc, store, cfg.RequestTimeout), webhook)
	addr := ":" + cfg.Port
	log.WithField("addr", addr).Info("http: listening")
	if err := server.ListenAndServe(addr, mux); err != nil {
		logger.Error(err, "server error")
		os.Exit(1)
	}
}
