package log

import "context"

// Logger is the logging interface used across the service.
// Every method takes the request context first so that request-scoped
// fields (request id, chat id) can be attached by the implementation.
type Logger interface {
	Debug(ctx context.Context, arg ...any)
	Debugf(ctx context.Context, template string, arg ...any)
	Info(ctx context.Context, arg ...any)
	Infof(ctx context.Context, template string, arg ...any)
	Warn(ctx context.Context, arg ...any)
	Warnf(ctx context.Context, template string, arg ...any)
	Error(ctx context.Context, arg ...any)
	Errorf(ctx context.Context, template string, arg ...any)
	DPanic(ctx context.Context, arg ...any)
	DPanicf(ctx context.Context, template string, arg ...any)
	Panic(ctx context.Context, arg ...any)
	Panicf(ctx context.Context, template string, arg ...any)
	Fatal(ctx context.Context, arg ...any)
	Fatalf(ctx context.Context, template string, arg ...any)
}

type ctxKey struct{}

// WithFields returns a copy of ctx carrying extra key/value pairs which
// the zap logger appends to every entry logged with that context.
func WithFields(ctx context.Context, kv ...any) context.Context {
	if len(kv) == 0 {
		return ctx
	}
	prev, _ := ctx.Value(ctxKey{}).([]any)
	fields := make([]any, 0, len(prev)+len(kv))
	fields = append(fields, prev...)
	fields = append(fields, kv...)
	return context.WithValue(ctx, ctxKey{}, fields)
}

func fieldsFrom(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(ctxKey{}).([]any)
	return fields
}
