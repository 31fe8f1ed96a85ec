package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/sportsarb/internal/domain"
	"github.com/alanyoungcy/sportsarb/internal/notify"
	"github.com/alanyoungcy/sportsarb/internal/pipeline"
	"github.com/alanyoungcy/sportsarb/internal/server"
	"github.com/alanyoungcy/sportsarb/internal/server/handler"
	"github.com/alanyoungcy/sportsarb/internal/server/ws"
)

// OnceMode runs a single cycle, dispatches it to the configured sinks and
// prints a report.
func (a *App) OnceMode(ctx context.Context, deps *Dependencies) error {
	orch, err := a.newOrchestrator(deps)
	if err != nil {
		return fmt.Errorf("once mode: %w", err)
	}
	snap, err := orch.RunOnce(ctx)
	if err != nil {
		return fmt.Errorf("once mode: %w", err)
	}
	notify.WriteReport(a.out, snap)
	return nil
}

// ScanMode runs cycles on the configured interval. When the server is
// enabled it also serves the API and the live feed from this process.
func (a *App) ScanMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting scan mode",
		slog.Duration("interval", a.cfg.Scanner.Interval.Duration),
	)

	g, ctx := errgroup.WithContext(ctx)

	var (
		orch  *pipeline.Orchestrator
		hub   *ws.Hub
		extra []pipeline.SnapshotPublisher
	)
	if a.cfg.Server.Enabled {
		// orch is assigned before any client can connect.
		hub = a.newHub(deps, func(ctx context.Context) (domain.CycleSnapshot, error) {
			return orch.GetLatest(ctx)
		})
		// Without a bus the hub is fed directly by the orchestrator.
		if deps.SignalBus == nil {
			extra = append(extra, hub)
		}
	}

	orch, err := a.newOrchestrator(deps, extra...)
	if err != nil {
		return fmt.Errorf("scan mode: %w", err)
	}

	if hub != nil {
		g.Go(func() error { return hub.Run(ctx) })
		a.startHTTPServer(ctx, g, deps, orch, hub)
	}

	g.Go(func() error { return orch.RunLoop(ctx) })

	return g.Wait()
}

// ServerMode serves the API from the shared Redis snapshot cache without
// scanning. Pair it with a scan-mode instance writing to the same Redis.
func (a *App) ServerMode(ctx context.Context, deps *Dependencies) error {
	if deps.SnapshotCache == nil {
		return fmt.Errorf("server mode: redis snapshot cache is required")
	}
	a.logger.InfoContext(ctx, "starting server mode")

	g, ctx := errgroup.WithContext(ctx)
	hub := a.newHub(deps, deps.SnapshotCache.GetLatest)
	g.Go(func() error { return hub.Run(ctx) })
	a.startHTTPServer(ctx, g, deps, deps.SnapshotCache, hub)
	return g.Wait()
}

// newOrchestrator builds the scanner and attaches every configured sink.
func (a *App) newOrchestrator(deps *Dependencies, extra ...pipeline.SnapshotPublisher) (*pipeline.Orchestrator, error) {
	scanner, err := pipeline.NewScanner(pipeline.ScannerConfig{
		Catalogs:   deps.Catalogs,
		Sports:     a.cfg.SportList(),
		Polymarket: deps.Polymarket,
		Kalshi:     deps.Kalshi,
		Evaluator:  deps.Evaluator,
		Logger:     a.logger,
	})
	if err != nil {
		return nil, err
	}

	sinks := pipeline.Sinks{
		Notifier: notify.NewOpportunityNotifier(deps.Notifier, deps.SeenSet),
		Store:    deps.OpportunityStore,
		Audit:    deps.AuditStore,
		Bus:      deps.SignalBus,
		Cache:    deps.SnapshotCache,
		Archiver: deps.Archiver,
		Lock:     deps.LockManager,
	}
	if deps.Kafka != nil {
		sinks.Publishers = append(sinks.Publishers, deps.Kafka)
	}
	sinks.Publishers = append(sinks.Publishers, extra...)

	return pipeline.NewOrchestrator(scanner, sinks, a.cfg.Scanner.Interval.Duration, a.logger), nil
}

// newHub relays the bus channel when Redis is configured.
func (a *App) newHub(deps *Dependencies, latest func(context.Context) (domain.CycleSnapshot, error)) *ws.Hub {
	cfg := ws.Config{
		Mode:   strings.ToLower(a.cfg.Mode),
		Sports: a.cfg.SportList(),
	}
	if deps.SignalBus != nil {
		cfg.Channel = pipeline.ChannelOpportunities
	}
	return ws.NewHub(cfg, deps.SignalBus, latest, a.logger)
}

// startHTTPServer adds the server and its graceful shutdown to g.
func (a *App) startHTTPServer(ctx context.Context, g *errgroup.Group, deps *Dependencies, latest handler.SnapshotReader, hub *ws.Hub) {
	srv := server.NewServer(server.Config{
		Host:           a.cfg.Server.Host,
		Port:           a.cfg.Server.Port,
		CORSOrigins:    a.cfg.Server.CORSOrigins,
		APIKey:         a.cfg.Server.APIKey,
		RateLimitRPS:   a.cfg.Server.RateLimitRPS,
		RateLimitBurst: a.cfg.Server.RateLimitBurst,
	}, server.Deps{
		Latest:   latest,
		Store:    deps.OpportunityStore,
		Catalogs: deps.Catalogs,
		Hub:      hub,
		Checks:   deps.Checks,
	}, a.logger)

	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
