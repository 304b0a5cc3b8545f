package app

import (
	"log/slog"

	"github.com/edward362/ENPC-TRADING-GAME/internal/engine"
	"github.com/edward362/ENPC-TRADING-GAME/internal/infra"
	"github.com/edward362/ENPC-TRADING-GAME/internal/infra/storage"
)

// DefaultConfigPath is read when no path is given.
const DefaultConfigPath = "configs/config.yaml"

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config   *infra.Config
	Journal  *storage.Journal
	Metrics  *infra.Metrics
	Terminal *Terminal
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (config, logger, journal, terminal)
func (b *Bootstrap) Initialize(configPath string, listener engine.Listener) error {
	slog.Info("🚀 Bootstrapping trading terminal...")

	if configPath == "" {
		configPath = DefaultConfigPath
	}

	// 1. Load Config
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Initialize Journal (DB)
	var journal engine.Journal
	if cfg.Journal.Enabled {
		j, err := storage.NewJournal(cfg.Journal.Path)
		if err != nil {
			return err
		}
		b.Journal = j
		journal = j
		slog.Info("✅ Journal initialized", slog.String("path", cfg.Journal.Path))
	}

	// 4. Components
	b.Metrics = infra.NewMetrics()
	b.Terminal = NewTerminal(cfg, listener, journal, b.Metrics)
	slog.Info("✅ Terminal ready",
		slog.String("server", cfg.Server.WSURL),
		slog.Int("symbols", len(cfg.Game.Symbols)),
	)

	return nil
}

// Close releases the journal.
func (b *Bootstrap) Close() {
	if b.Journal != nil {
		if err := b.Journal.Close(); err != nil {
			slog.Error("Failed to close journal", slog.Any("error", err))
		}
	}
}
