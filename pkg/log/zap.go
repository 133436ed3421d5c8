package log

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	ModeProduction  = "production"
	ModeDevelopment = "development"

	EncodingJSON    = "json"
	EncodingConsole = "console"
)

// ZapConfig configures the zap backed Logger.
type ZapConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// Init builds a Logger from cfg. Unknown levels fall back to info.
func Init(cfg ZapConfig) Logger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if cfg.Level != "" {
		if parsed, err := zapcore.ParseLevel(cfg.Level); err == nil {
			level = zap.NewAtomicLevelAt(parsed)
		}
	}

	var encCfg zapcore.EncoderConfig
	if cfg.Mode == ModeProduction {
		encCfg = zap.NewProductionEncoderConfig()
	} else {
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.ColorEnabled && cfg.Encoding != EncodingJSON {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	var encoder zapcore.Encoder
	if cfg.Encoding == EncodingJSON {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	var opts []zap.Option
	if cfg.Mode != ModeProduction {
		opts = append(opts, zap.Development())
	}
	return newLogger(zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level), opts...)
}

func newLogger(core zapcore.Core, opts ...zap.Option) *zapLogger {
	opts = append([]zap.Option{zap.AddCaller(), zap.AddCallerSkip(1)}, opts...)
	return &zapLogger{sugar: zap.New(core, opts...).Sugar()}
}

// New returns a Logger writing to core, e.g. an observer core in tests.
func New(core zapcore.Core) Logger {
	return newLogger(core)
}

// NewNop returns a Logger that discards everything.
func NewNop() Logger {
	return &zapLogger{sugar: zap.NewNop().Sugar()}
}

func (l *zapLogger) with(ctx context.Context) *zap.SugaredLogger {
	if fields := fieldsFrom(ctx); len(fields) > 0 {
		return l.sugar.With(fields...)
	}
	return l.sugar
}

// kv splits a leading message from trailing key/value pairs, which is how
// callers write l.Info(ctx, "msg", "key", value).
func (l *zapLogger) kv(ctx context.Context, arg []any) (*zap.SugaredLogger, string, []any, bool) {
	if len(arg) > 1 && len(arg)%2 == 1 {
		if msg, ok := arg[0].(string); ok {
			if _, ok := arg[1].(string); ok {
				return l.with(ctx), msg, arg[1:], true
			}
		}
	}
	return l.with(ctx), "", nil, false
}

func (l *zapLogger) Debug(ctx context.Context, arg ...any) {
	if s, msg, kv, ok := l.kv(ctx, arg); ok {
		s.Debugw(msg, kv...)
		return
	}
	l.with(ctx).Debug(arg...)
}

func (l *zapLogger) Debugf(ctx context.Context, template string, arg ...any) {
	l.with(ctx).Debugf(template, arg...)
}

func (l *zapLogger) Info(ctx context.Context, arg ...any) {
	if s, msg, kv, ok := l.kv(ctx, arg); ok {
		s.Infow(msg, kv...)
		return
	}
	l.with(ctx).Info(arg...)
}

func (l *zapLogger) Infof(ctx context.Context, template string, arg ...any) {
	l.with(ctx).Infof(template, arg...)
}

func (l *zapLogger) Warn(ctx context.Context, arg ...any) {
	if s, msg, kv, ok := l.kv(ctx, arg); ok {
		s.Warnw(msg, kv...)
		return
	}
	l.with(ctx).Warn(arg...)
}

func (l *zapLogger) Warnf(ctx context.Context, template string, arg ...any) {
	l.with(ctx).Warnf(template, arg...)
}

func (l *zapLogger) Error(ctx context.Context, arg ...any) {
	if s, msg, kv, ok := l.kv(ctx, arg); ok {
		s.Errorw(msg, kv...)
		return
	}
	l.with(ctx).Error(arg...)
}

func (l *zapLogger) Errorf(ctx context.Context, template string, arg ...any) {
	l.with(ctx).Errorf(template, arg...)
}

func (l *zapLogger) DPanic(ctx context.Context, arg ...any) {
	l.with(ctx).DPanic(arg...)
}

func (l *zapLogger) DPanicf(ctx context.Context, template string, arg ...any) {
	l.with(ctx).DPanicf(template, arg...)
}

func (l *zapLogger) Panic(ctx context.Context, arg ...any) {
	l.with(ctx).Panic(arg...)
}

func (l *zapLogger) Panicf(ctx context.Context, template string, arg ...any) {
	l.with(ctx).Panicf(template, arg...)
}

func (l *zapLogger) Fatal(ctx context.Context, arg ...any) {
	l.with(ctx).Fatal(arg...)
}

func (l *zapLogger) Fatalf(ctx context.Context, template string, arg ...any) {
	l.with(ctx).Fatalf(template, arg...)
}
