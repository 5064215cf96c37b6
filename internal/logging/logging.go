// Package logging builds the zap logger shared by the CLI and the dev server.
package logging

import (
	"fmt"
	"strings"

	"github.com/hance08/teller/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing to cfg.File, or stderr when empty.
// The returned cleanup flushes and closes the sink.
func New(cfg config.LogConfig) (*zap.Logger, func(), error) {
	level, err := zap.ParseAtomicLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	sink := "stderr"
	if cfg.File != "" {
		sink = cfg.File
	}

	out, closeOut, err := zap.Open(sink)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log output %s: %w", sink, err)
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), out, level)
	logger := zap.New(core, zap.AddCaller())

	cleanup := func() {
		_ = logger.Sync()
		closeOut()
	}

	return logger, cleanup, nil
}
