package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nats-io/nats.go"
	"github.com/rpggio/downtime/internal/chat"
	"github.com/rpggio/downtime/internal/config"
	"github.com/rpggio/downtime/internal/domain/history"
	"github.com/rpggio/downtime/internal/domain/planner"
	"github.com/rpggio/downtime/internal/metrics"
	"github.com/rpggio/downtime/internal/sqlite"
	"github.com/spf13/cobra"
)

// app holds what every command shares. close releases it.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	db      *sqlite.DB
	closers []func() error
}

// loadConfig reads --config, falling back to DOWNTIME_CONFIG_PATH.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}

// newApp loads config, sets up logging and opens the migrated database.
// Logs go to stderr so stdout stays free for protocol traffic and shell
// output.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	a := &app{cfg: cfg}

	logWriter := io.Writer(os.Stderr)
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			a.closers = append(a.closers, file.Close)
			logWriter = fileWriter
		}
	}
	a.logger = slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		a.close()
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		a.close()
		return nil, err
	}
	a.db = db
	a.closers = append(a.closers, db.Close)

	if err := db.Migrate(); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	a.closers = nil
}

// services are the planner and its collaborators over the database.
type services struct {
	planner  *planner.Service
	history  *history.Service
	chatLog  *sqlite.ChatLogRepository
	apiKeys  *sqlite.APIKeyRepository
	recorder *metrics.Recorder
}

// newServices wires the planner. The chat log is the record of a report;
// NATS, when configured, and extra only mirror what it accepted.
func (a *app) newServices(extra ...chat.Sink) (*services, error) {
	chatLog := sqlite.NewChatLogRepository(a.db)
	var mirrors []chat.Sink

	if a.cfg.Chat.Sink == config.SinkNATS {
		nc, err := chat.ConnectNATS(a.cfg.Chat.NATSURL, a.logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { return drain(nc) })
		mirrors = append(mirrors, chat.NewNATSSink(nc, a.cfg.Chat.Subject, a.logger))
		a.logger.Info("publishing reports to nats", "url", a.cfg.Chat.NATSURL, "subject", a.cfg.Chat.Subject)
	}
	mirrors = append(mirrors, extra...)

	var recorder *metrics.Recorder
	if a.cfg.Metrics.Enabled {
		recorder = metrics.New()
	}

	historySvc := history.NewService(sqlite.NewHistoryRepository(a.db), a.logger)
	plannerSvc := planner.NewService(
		planner.NewJSONStore(sqlite.NewPlannerStateRepository(a.db), a.logger),
		chat.NewMirror(chatLog, a.logger, mirrors...),
		a.logger,
		planner.WithCharacters(sqlite.NewCharacterRepository(a.db)),
		planner.WithHistory(historySvc),
		planner.WithMetrics(recorder),
	)

	return &services{
		planner:  plannerSvc,
		history:  historySvc,
		chatLog:  chatLog,
		apiKeys:  sqlite.NewAPIKeyRepository(a.db),
		recorder: recorder,
	}, nil
}

func drain(nc *nats.Conn) error {
	if err := nc.Drain(); err != nil {
		nc.Close()
		return err
	}
	return nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
