package main

import (
	"fmt"

	"digital-menu-api/autocomplete"
	"digital-menu-api/config"
	"digital-menu-api/handlers"
	"digital-menu-api/imagegen"
	"digital-menu-api/llm"
	"digital-menu-api/metrics"
	"digital-menu-api/middleware"
	"digital-menu-api/repository"
	"digital-menu-api/storage"
	"digital-menu-api/translation"
	"digital-menu-api/validation"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds the wired services of one process.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	db      *gorm.DB
	repos   *repository.Repositories
	metrics *metrics.Metrics
	handler *handlers.Handler
}

func newApp(cfg *config.Config, log *zap.Logger) (*app, error) {
	if err := validation.RegisterGin(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}
	db, err := config.InitDB(cfg.Database)
	if err != nil {
		return nil, err
	}

	m := metrics.New(cfg.Metrics.Prefix, nil)
	repos := repository.New(db)
	model := llm.New(llm.Config{
		APIKey:     cfg.LLM.APIKey,
		BaseURL:    cfg.LLM.BaseURL,
		Model:      cfg.LLM.Model,
		ImageModel: cfg.LLM.ImageModel,
		Timeout:    cfg.LLM.Timeout,
	}, llm.WithTracker(m), llm.WithLogger(log.Named("llm")))
	store := storage.NewLocal(cfg.Storage.Dir, cfg.Storage.PublicBaseURL, m, log.Named("storage"))

	h := &handlers.Handler{
		Repos:        repos,
		Auth:         middleware.NewAuth(cfg.JWT.Secret, cfg.JWT.Expiration),
		Translator:   translation.NewService(model, repos.Translations, log.Named("translation")),
		Collector:    translation.NewCollector(repos.Items, cfg.Translation.CollectorWorkers, log.Named("collector")),
		Jobs:         translation.NewJobRunner(repos.Jobs, m, log.Named("jobs")),
		AutoComplete: autocomplete.NewService(model, log.Named("autocomplete")),
		Images:       imagegen.NewGenerator(model, store, log.Named("imagegen")),
		Storage:      store,
		Metrics:      m,
		MaxInFlight:  cfg.Translation.MaxInFlight,
	}
	return &app{cfg: cfg, log: log, db: db, repos: repos, metrics: m, handler: h}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.log.Sync()
}
