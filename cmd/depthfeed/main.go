// Command depthfeed reads a binary market-data event stream on stdin and
// writes one top-of-book depth snapshot per applied event. This file is
// intentionally thin — it only opens sinks, wires the core components
// together, and maps outcomes to exit codes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/abdoElHodaky/depthfeed/internal/book"
	appconfig "github.com/abdoElHodaky/depthfeed/internal/config"
	"github.com/abdoElHodaky/depthfeed/internal/feed"
	"github.com/abdoElHodaky/depthfeed/internal/telemetry"
	"github.com/abdoElHodaky/depthfeed/internal/wire"
)

const usage = "usage: depthfeed <levels>\n  levels: non-negative integer, max price levels per side in every snapshot\n"

func main() {
	os.Exit(run())
}

func run() int {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprint(os.Stderr, usage)
		return 1
	}
	levels, err := strconv.Atoi(flag.Arg(0))
	if err != nil || levels < 0 {
		fmt.Fprint(os.Stderr, usage)
		return 1
	}

	cfg, err := appconfig.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "depthfeed: loading configuration: %v\n", err)
		return 1
	}

	debugFile, err := os.Create(cfg.DebugLog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "depthfeed: opening %s: %v\n", cfg.DebugLog, err)
		return 1
	}
	defer debugFile.Close()

	logger := newLogger(cfg.LogLevel, debugFile)
	defer logger.Sync()

	outputFile, err := os.Create(cfg.OutputLog)
	if err != nil {
		logger.Error("opening output log", zap.String("path", cfg.OutputLog), zap.Error(err))
		return 1
	}
	defer outputFile.Close()

	out := newTeeWriter(os.Stdout, outputFile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := telemetry.New()
	decoder := wire.NewDecoder(os.Stdin, cfg.StrictMsgSize)
	ob := book.New(book.WithLogger(logger), book.WithMetrics(metrics))

	loop := &feed.Loop{
		Book:    ob,
		Decoder: decoder,
		Out:     out,
		Levels:  levels,
		Logger:  logger,
		Metrics: metrics,
	}

	logger.Info("depthfeed starting", zap.Int("levels", levels), zap.Bool("strict_msg_size", cfg.StrictMsgSize))
	if runErr := loop.Run(ctx); runErr != nil {
		logger.Warn("stream terminated by decode failure; exiting cleanly", zap.Error(runErr))
	}

	if cfg.MetricsSummary {
		if err := metrics.WriteSummary(debugFile); err != nil {
			logger.Warn("writing metrics summary", zap.Error(err))
		}
	}

	// Mid-stream decode failure and clean end-of-stream both exit 0; only
	// startup failures above are non-zero.
	return 0
}

func newLogger(level string, debugFile *os.File) *zap.Logger {
	lvl := zapcore.InfoLevel
	_ = lvl.UnmarshalText([]byte(level))

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(debugFile), lvl)
	return zap.New(core, zap.Fields(zap.String("component", "depthfeed")))
}

// teeWriter fans snapshot lines out to stdout and the truncated output
// log file, so every snapshot lands on both sinks.
type teeWriter struct {
	w1, w2 *os.File
}

func newTeeWriter(w1, w2 *os.File) *teeWriter { return &teeWriter{w1: w1, w2: w2} }

func (t *teeWriter) Write(p []byte) (int, error) {
	if _, err := t.w1.Write(p); err != nil {
		return 0, err
	}
	return t.w2.Write(p)
}
