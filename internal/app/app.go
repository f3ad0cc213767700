// Package app assembles the marketplace from configuration. It is shared by
// the HTTP server and the admin CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/MOULOUNDOU/Senchambre/internal/config"
	"github.com/MOULOUNDOU/Senchambre/internal/db"
	"github.com/MOULOUNDOU/Senchambre/internal/mail"
	"github.com/MOULOUNDOU/Senchambre/internal/service"
	"github.com/sirupsen/logrus"
)

// App is an initialized service over an open backend.
type App struct {
	Service *service.Service
	Backend db.Backend
	Log     *logrus.Logger
}

// NewMailer returns the Mailjet mailer when credentials are set, else a
// mailer that only logs.
func NewMailer(cfg *config.Config, log *logrus.Logger) mail.Mailer {
	if cfg.MailjetEnabled() {
		return mail.NewMailjetMailer(cfg.MailjetAPIKey, cfg.MailjetSecretKey, cfg.MailFrom, cfg.MailFromName)
	}
	log.Warn("MAILJET_API_KEY not set, emails are only logged")
	return mail.NewLogMailer(log)
}

// Options maps the configuration onto service options.
func Options(cfg *config.Config, mailer mail.Mailer) service.Options {
	return service.Options{
		PartitionPrefix: cfg.PartitionPrefix,
		SessionTTL:      cfg.SessionTTL,
		AdminEmail:      cfg.AdminEmail,
		AdminPassword:   cfg.AdminPassword,
		PageSize:        cfg.PageSize,
		Mailer:          mailer,
	}
}

// Open connects the configured backend, wires the service and seeds it.
func Open(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	openCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	backend, err := db.Open(openCtx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}

	svc := service.New(backend, Options(cfg, NewMailer(cfg, log)), log)
	if err := svc.Init(ctx); err != nil {
		backend.Close()
		return nil, fmt.Errorf("seed: %w", err)
	}
	return &App{Service: svc, Backend: backend, Log: log}, nil
}

func (a *App) Close() error {
	return a.Backend.Close()
}

// RunCleanup calls Service.Cleanup every interval until ctx is done.
func (a *App) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Service.Cleanup(ctx)
		}
	}
}
