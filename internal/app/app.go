package app

import (
	"context"
	"log/slog"

	webapp "portfolio-contact/internal/app/web"
	"portfolio-contact/internal/clients/ingest"
	"portfolio-contact/internal/config"
	"portfolio-contact/internal/lib/logger/sl"
	"portfolio-contact/internal/services/mail/gmail"
	"portfolio-contact/internal/services/verification"
	"portfolio-contact/internal/storage/sqlite"
)

type App struct {
	WebSrv  *webapp.App
	log     *slog.Logger
	storage *sqlite.Storage
}

func New(
	log *slog.Logger,
	cfg *config.Config,
) *App {
	storage, err := sqlite.New(cfg.StoragePath)
	if err != nil {
		panic(err)
	}

	mailSender := gmail.New(
		log,
		cfg.EmailService.Name,
		cfg.EmailService.Email,
		cfg.EmailService.Password,
	)

	forwarder := ingest.New(log, cfg.Backend.URL, cfg.Backend.Timeout)

	flow := verification.New(
		log,
		storage,
		storage,
		storage,
		mailSender,
		forwarder,
		cfg.Verification.CodeTTL,
		cfg.Verification.ClearOnCancel,
	)

	webApp := webapp.New(log, flow, cfg.HTTP.Port, cfg.HTTP.Timeout)

	return &App{
		WebSrv:  webApp,
		log:     log,
		storage: storage,
	}
}

func (a *App) Stop(ctx context.Context) {
	a.WebSrv.Stop(ctx)

	if err := a.storage.Stop(); err != nil {
		a.log.Error("failed to close storage", sl.Err(err))
	}
}
