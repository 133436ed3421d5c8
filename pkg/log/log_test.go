package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := newLogger(core)

	ctx := WithFields(context.Background(), "request_id", "r-1")
	ctx = WithFields(ctx, "chat_id", int64(42))

	t.Run("context fields are attached", func(t *testing.T) {
		l.Infof(ctx, "sent %d messages", 3)

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, "sent 3 messages", entries[0].Message)
		assert.Equal(t, "r-1", entries[0].ContextMap()["request_id"])
		assert.Equal(t, int64(42), entries[0].ContextMap()["chat_id"])
	})

	t.Run("message with key values", func(t *testing.T) {
		l.Warn(context.Background(), "rejected", "method", "sendMessage", "code", 400)

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, "rejected", entries[0].Message)
		assert.Equal(t, "sendMessage", entries[0].ContextMap()["method"])
	})

	t.Run("plain args", func(t *testing.T) {
		l.Error(context.Background(), "boom")
		l.Debug(context.Background(), "a", 1)

		entries := logs.TakeAll()
		require.Len(t, entries, 2)
		assert.Equal(t, "boom", entries[0].Message)
		assert.Equal(t, "a1", entries[1].Message)
	})
}

func TestInitLevels(t *testing.T) {
	tests := []struct {
		name string
		cfg  ZapConfig
		want zapcore.Level
	}{
		{"default", ZapConfig{}, zapcore.InfoLevel},
		{"debug", ZapConfig{Level: "debug", Mode: ModeDevelopment, Encoding: EncodingConsole, ColorEnabled: true}, zapcore.DebugLevel},
		{"production json", ZapConfig{Level: "warn", Mode: ModeProduction, Encoding: EncodingJSON}, zapcore.WarnLevel},
		{"bad level", ZapConfig{Level: "loud"}, zapcore.InfoLevel},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := Init(tc.cfg).(*zapLogger)
			assert.True(t, l.sugar.Desugar().Core().Enabled(tc.want))
			if tc.want > zapcore.DebugLevel {
				assert.False(t, l.sugar.Desugar().Core().Enabled(tc.want-1))
			}
		})
	}
}

func TestWithFieldsNoop(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, WithFields(ctx))
	assert.Nil(t, fieldsFrom(ctx))
}
