package webapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	contacthttp "portfolio-contact/internal/http/contact"
	"portfolio-contact/internal/lib/logger/sl"

	"github.com/gin-gonic/gin"
)

type App struct {
	log        *slog.Logger
	httpServer *http.Server
	port       int
}

func New(
	log *slog.Logger,
	flow contacthttp.ContactFlow,
	port int,
	timeout time.Duration,
) *App {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())

	contacthttp.Register(engine, log, flow)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      engine,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}

	return &App{
		log:        log,
		httpServer: httpServer,
		port:       port,
	}
}

func (a *App) MustRun() {
	if err := a.Run(); err != nil {
		panic(err)
	}
}

func (a *App) Run() error {
	const op = "webapp.Run"

	log := a.log.With(
		slog.String("op", op),
		slog.Int("port", a.port),
	)

	log.Info("http server started", slog.String("addr", a.httpServer.Addr))

	if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (a *App) Stop(ctx context.Context) {
	const op = "webapp.Stop"

	log := a.log.With(
		slog.String("op", op),
	)

	log.Info("stopping http server", slog.Int("port", a.port))

	if err := a.httpServer.Shutdown(ctx); err != nil {
		log.Error("failed to shut down http server", sl.Err(err))
	}
}
