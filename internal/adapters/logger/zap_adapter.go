// Package logger implements the ports.Logger port with zap. The CLI logs to
// stderr only, so command output stays clean for piping.
package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bnema/rank-admin-cli/internal/ports"
)

type ZapAdapter struct {
	sugar *zap.SugaredLogger
}

var _ ports.Logger = (*ZapAdapter)(nil)

// NewZapAdapter builds a console logger at the given level ("debug", "info",
// "warn", "error"). An unknown level falls back to warn, which keeps the CLI
// quiet by default.
func NewZapAdapter(level string) *ZapAdapter {
	zapLevel := zapcore.WarnLevel
	if level != "" {
		if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
			zapLevel = zapcore.WarnLevel
		}
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		zapLevel,
	)

	return &ZapAdapter{sugar: zap.New(core).Sugar()}
}

func (a *ZapAdapter) Debug(_ context.Context, msg string, fields ...any) {
	a.sugar.Debugw(msg, fields...)
}

func (a *ZapAdapter) Info(_ context.Context, msg string, fields ...any) {
	a.sugar.Infow(msg, fields...)
}

func (a *ZapAdapter) Warn(_ context.Context, msg string, fields ...any) {
	a.sugar.Warnw(msg, fields...)
}

func (a *ZapAdapter) Error(_ context.Context, msg string, fields ...any) {
	a.sugar.Errorw(msg, fields...)
}

func (a *ZapAdapter) With(fields ...any) ports.Logger {
	return &ZapAdapter{sugar: a.sugar.With(fields...)}
}

// Sync flushes buffered entries; called once on CLI exit.
func (a *ZapAdapter) Sync() {
	_ = a.sugar.Sync()
}
