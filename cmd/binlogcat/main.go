package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/binlog/internal/config"
	"github.com/danmuck/binlog/internal/decode"
	"github.com/danmuck/binlog/internal/logging"
	"github.com/danmuck/binlog/internal/observability"
	"github.com/danmuck/binlog/internal/session"
	"github.com/danmuck/binlog/internal/sink"
	"github.com/danmuck/binlog/internal/source"
	"github.com/danmuck/binlog/internal/symtab"
	"github.com/danmuck/binlog/internal/wire"
)

func main() {
	cfgPath := flag.String("config", "", "TOML config path")
	image := flag.String("e", "", "ELF image holding the format-string section")
	mapFile := flag.String("map", "", "JSON symbol map (alternative to -e)")
	level := flag.String("level", "", "minimum level to print (trace|debug|info|warn|error)")
	jsonOut := flag.Bool("json", false, "emit JSON lines instead of plain text")
	statusAddr := flag.String("status", "", "serve /health, /status and /metrics on this address")
	flag.Parse()

	logging.ConfigureRuntime()
	logger := logging.Component("binlogcat")

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("config")
		}
		cfg = loaded
	}
	if *image != "" {
		cfg.Image = *image
	}
	if *mapFile != "" {
		cfg.MapFile = *mapFile
	}
	if *level != "" {
		cfg.MinLevel = *level
	}
	if *jsonOut {
		cfg.Output = "jsonl"
	}
	if *statusAddr != "" {
		cfg.StatusAddr = *statusAddr
	}

	minLevel, ok := wire.ParseLevel(cfg.MinLevel)
	if !ok {
		logger.Fatal().Str("level", cfg.MinLevel).Msg("unknown level")
	}

	table, sess, err := loadTable(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("symbol table")
	}
	logger.Info().
		Int("formats", table.Len()).
		Str("run_id", sess.ID).
		Str("image_digest", sess.ImageDigest).
		Msg("symbol table loaded")

	out, closeSinks, err := buildSinks(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("sink")
	}
	defer closeSinks()

	pipeline := decode.New(table, out, decode.Options{
		MinLevel: minLevel,
		Logger:   logging.Component("pipeline"),
	})

	if cfg.StatusAddr != "" {
		srv := observability.NewStatusServer(cfg.StatusAddr, cfg.CorsOrigins, logging.Component("status"), func() map[string]any {
			stats := pipeline.Snapshot()
			return map[string]any{
				"run_id":        sess.ID,
				"image_digest":  sess.ImageDigest,
				"started_at":    sess.StartedAt,
				"bytes_read":    stats.BytesRead,
				"records":       stats.Records,
				"lines":         stats.Lines,
				"record_errors": stats.RecordErrors,
			}
		})
		go func() {
			if err := srv.Run(); err != nil {
				logger.Error().Err(err).Msg("status server")
			}
		}()
		defer srv.Shutdown(context.Background())
	}

	in, err := openStream(flag.Arg(0))
	if err != nil {
		logger.Fatal().Err(err).Msg("record stream")
	}
	defer in.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := pipeline.Run(ctx, in); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("decode")
	}
}

func loadTable(cfg config.Config) (*symtab.Table, session.Session, error) {
	switch {
	case cfg.Image != "":
		raw, err := os.ReadFile(cfg.Image)
		if err != nil {
			return nil, session.Session{}, fmt.Errorf("reading image %s: %w", cfg.Image, err)
		}
		table, err := symtab.LoadELF(raw)
		if err != nil {
			return nil, session.Session{}, err
		}
		return table, session.New(raw), nil
	case cfg.MapFile != "":
		raw, err := os.ReadFile(cfg.MapFile)
		if err != nil {
			return nil, session.Session{}, fmt.Errorf("reading symbol map %s: %w", cfg.MapFile, err)
		}
		table, err := symtab.LoadMapFile(raw)
		if err != nil {
			return nil, session.Session{}, err
		}
		return table, session.New(raw), nil
	default:
		return nil, session.Session{}, errors.New("one of -e or -map is required")
	}
}

func buildSinks(cfg config.Config) (sink.Sink, func(), error) {
	var primary sink.Sink
	switch cfg.Output {
	case "jsonl":
		primary = sink.NewJSONL(os.Stdout)
	default:
		primary = sink.NewWriter(os.Stdout)
	}
	if cfg.NATS.URL == "" {
		return primary, func() {}, nil
	}
	n, err := sink.NewNATS(cfg.NATS.URL, cfg.NATS.Subject)
	if err != nil {
		return nil, nil, err
	}
	return sink.Fanout{primary, n}, func() { _ = n.Close() }, nil
}

// openStream returns stdin for "" or "-", otherwise a capture file (zstd
// replays included).
func openStream(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return source.Open(path)
}
