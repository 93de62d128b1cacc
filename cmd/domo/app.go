package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"majordomo/internal/config"
	"majordomo/internal/perception"
	"majordomo/internal/privacy"
	"majordomo/internal/router"
	"majordomo/internal/store"
	"majordomo/internal/tools"
	"majordomo/internal/tools/assistant"
)

// app holds the process-wide pieces every command shares. Routers are
// created per session on top of it.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	client   perception.Client
	registry *tools.Registry
	gate     *privacy.Gate
	archive  *store.Store
	detector *perception.Detector
	selector *router.Selector
	routing  router.Options
}

// newApp wires the assistant from config. The model client is optional:
// when the backend is unreachable the keyword path still works.
func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	client, err := perception.NewClient(ctx, perception.ClientConfig{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
		Timeout:  cfg.LLM.Timeout(),
	})
	if err != nil {
		log.Warn("model client unavailable, continuing without one", zap.Error(err))
		client = nil
	}

	gate, err := privacy.NewGate(cfg.Privacy.SettingsPath,
		&privacy.TerminalApprover{In: os.Stdin, Out: os.Stdout}, log)
	if err != nil {
		return nil, fmt.Errorf("opening privacy settings: %w", err)
	}

	archive, err := store.Open(cfg.Storage.DatabasePath, log)
	if err != nil {
		return nil, fmt.Errorf("opening conversation archive: %w", err)
	}

	if _, err := archive.PurgeOlderThan(ctx, gate.RetentionDays()); err != nil {
		log.Warn("retention purge failed", zap.Error(err))
	}

	registry := tools.NewRegistry(log)
	err = assistant.RegisterAll(registry, assistant.Deps{
		Mailer: &assistant.SMTPMailer{
			Host:     cfg.Email.SMTPHost,
			Port:     cfg.Email.SMTPPort,
			From:     cfg.Email.From,
			Password: cfg.Email.Password,
		},
		Fetcher: assistant.NewFetcher(cfg.Storage.CacheDir),
		Client:  client,
	})
	if err != nil {
		archive.Close()
		return nil, fmt.Errorf("registering tools: %w", err)
	}

	required, err := cfg.Router.RequiredDetailKinds()
	if err != nil {
		archive.Close()
		return nil, err
	}

	return &app{
		cfg:      cfg,
		log:      log,
		client:   client,
		registry: registry,
		gate:     gate,
		archive:  archive,
		detector: perception.NewDetector(),
		selector: router.NewSelector(router.DefaultKeywordRules(), client, log),
		routing: router.Options{
			MaxClarificationTurns: cfg.Router.MaxClarificationTurns,
			DefaultTool:           cfg.Router.DefaultTool,
			RequiredDetails:       required,
		},
	}, nil
}

func (a *app) close() {
	if a.archive != nil {
		a.archive.Close()
	}
}
