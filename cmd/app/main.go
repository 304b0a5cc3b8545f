package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/edward362/ENPC-TRADING-GAME/internal/app"
)

func main() {
	configPath := flag.String("config", app.DefaultConfigPath, "path to the YAML config")
	flag.Parse()

	// 1. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. System Bootstrapping
	listener := newConsoleListener()
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath, listener); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer bootstrap.Close()

	cfg := bootstrap.Config
	term := bootstrap.Terminal

	// 3. Optional lobby automation
	listener.autopilot = newAutopilot(ctx, term, cfg)

	// 4. Sequencer + headline rotation
	runCtx, cancel := context.WithCancel(ctx)
	term.Start(runCtx)
	slog.InfoContext(ctx, "✅ Sequencer started")

	// 5. Connect
	if err := term.Connect(ctx); err != nil {
		slog.Error("Failed to connect", slog.Any("error", err))
	}

	slog.InfoContext(ctx, "✨ Trading terminal running. Press Ctrl+C to exit.")

	// Wait for shutdown signal
	<-ctx.Done()

	slog.Info("👋 Shutting down gracefully...")
	cancel()
	term.Close()

	snap := term.Metrics()
	slog.Info("Session summary",
		slog.Uint64("frames_received", snap.FramesReceived),
		slog.Uint64("frames_sent", snap.FramesSent),
		slog.Uint64("protocol_errors", snap.ProtocolErrors),
		slog.Uint64("orders_sent", snap.OrdersSent),
		slog.Uint64("orders_accepted", snap.OrdersAccepted),
		slog.Uint64("orders_rejected", snap.OrdersRejected),
		slog.Int64("orders_pending", snap.PendingOrders()),
		slog.Duration("last_rtt", snap.LastRTT),
	)
}
