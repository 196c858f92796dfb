package insightlens

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"insightlens/shared/ai"
	"insightlens/shared/config"
	"insightlens/shared/monitoring"
	"insightlens/shared/scheduler"
	"insightlens/shared/storage"
)

const shutdownTimeout = 10 * time.Second

// App wires the summarizer, session store and HTTP server together.
type App struct {
	config     *config.Config
	summarizer VideoSummarizer
	monitor    *monitoring.Monitor
	sessions   *storage.SessionStore[*Controller]
	scheduler  *scheduler.Scheduler
}

func NewApp(cfg *config.Config) *App {
	return &App{
		config:  cfg,
		monitor: monitoring.NewMonitor(),
	}
}

func (a *App) Name() string {
	return "InsightLens"
}

func (a *App) Initialize() error {
	log.Printf("Initializing %s...", a.Name())

	if a.summarizer == nil {
		summarizer, err := ai.NewSummarizer(a.config)
		if err != nil {
			return fmt.Errorf("failed to create AI summarizer: %w", err)
		}
		a.summarizer = NewRateLimitedSummarizer(summarizer, a.config.RateLimit.PerMinute, a.config.RateLimit.Burst)
		log.Printf("AI summarizer initialized (model %s)", a.config.AI.Model)
	}

	if a.sessions == nil {
		a.sessions = storage.NewSessionStore(a.config.Sessions.MaxIdle(), a.config.Sessions.MaxSessions, func() *Controller {
			return NewController(a.summarizer, a.monitor)
		})
		log.Printf("Session store initialized (idle timeout %v, limit %d)", a.config.Sessions.MaxIdle(), a.config.Sessions.MaxSessions)
	}

	if a.scheduler == nil {
		a.scheduler = scheduler.New()
	}

	return nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	if err := a.scheduler.Add(ctx, a.config.Sessions.SweepSchedule, storage.SessionSweeper[*Controller]{Store: a.sessions}); err != nil {
		return err
	}
	go func() {
		if err := a.scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Scheduler error: %v", err)
		}
	}()

	srv := NewServer(ctx, a.sessions, a.monitor, ServerOptions{
		RefreshSeconds: a.config.Server.RefreshSeconds,
		RequestTimeout: a.config.AI.RequestTimeout(),
	})
	httpServer := &http.Server{
		Addr:              a.config.Server.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("%s listening on %s", a.Name(), httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("Shutting down %s...", a.Name())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	srv.Wait()
	return nil
}
