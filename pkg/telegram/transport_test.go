package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTransport(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/botT0KEN/sendMessage":
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			body, _ := io.ReadAll(r.Body)
			w.Write([]byte(`{"ok":true,"result":` + string(body) + `}`))
		case "/botT0KEN/getMe":
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"ok":false,"error_code":403,"description":"Forbidden"}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`<html>502</html>`))
		}
	}))
	defer ts.Close()

	tr := NewHTTPTransport("T0KEN", WithAPIURL(ts.URL+"/"), WithRequestTimeout(5*time.Second))
	ctx := context.Background()

	t.Run("payload reaches the method endpoint", func(t *testing.T) {
		raw, err := tr.Call(ctx, MethodSendMessage, []byte(`{"text":"hi"}`))
		require.NoError(t, err)
		assert.JSONEq(t, `{"ok":true,"result":{"text":"hi"}}`, string(raw))
	})

	t.Run("json error bodies are data", func(t *testing.T) {
		raw, err := tr.Call(ctx, MethodGetMe, []byte(`{}`))
		require.NoError(t, err)

		var resp APIResponse
		require.NoError(t, json.Unmarshal(raw, &resp))
		assert.False(t, resp.OK)
		assert.Equal(t, 403, resp.ErrorCode)
	})

	t.Run("non json error bodies fail", func(t *testing.T) {
		_, err := tr.Call(ctx, "unknownMethod", []byte(`{}`))
		assert.ErrorIs(t, err, ErrTransportFailure)
	})

	t.Run("bad api url keeps the token out of errors", func(t *testing.T) {
		bad := NewHTTPTransport("T0KEN", WithAPIURL("http://[::1"))
		_, err := bad.Call(ctx, MethodGetMe, []byte(`{}`))
		require.ErrorIs(t, err, ErrTransportFailure)
		assert.NotContains(t, err.Error(), "T0KEN")
		assert.Contains(t, err.Error(), "<token>")
	})

	t.Run("canceled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := tr.Call(cctx, MethodSendMessage, []byte(`{}`))
		assert.ErrorIs(t, err, ErrTransportFailure)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestChatKey(t *testing.T) {
	assert.Equal(t, "42", chatKey([]byte(`{"chat_id":42,"text":"x"}`)))
	assert.Equal(t, "@chan", chatKey([]byte(`{"chat_id":"@chan"}`)))
	assert.Equal(t, "", chatKey([]byte(`{"offset":3}`)))
	assert.Equal(t, "", chatKey([]byte(`not json`)))
}

func TestLimitedTransport(t *testing.T) {
	var calls atomic.Int32
	next := TransportFunc(func(ctx context.Context, method string, payload []byte) ([]byte, error) {
		calls.Add(1)
		return []byte(`{"ok":true,"result":true}`), nil
	})

	t.Run("per chat bucket", func(t *testing.T) {
		calls.Store(0)
		tr := NewLimitedTransport(next, LimitConfig{GlobalRate: 1000, ChatRate: 0.01, ChatBurst: 1})
		ctx := context.Background()

		_, err := tr.Call(ctx, MethodSendMessage, []byte(`{"chat_id":1}`))
		require.NoError(t, err)

		// another chat has its own bucket
		_, err = tr.Call(ctx, MethodSendMessage, []byte(`{"chat_id":2}`))
		require.NoError(t, err)

		short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		_, err = tr.Call(short, MethodSendMessage, []byte(`{"chat_id":1}`))
		assert.ErrorIs(t, err, ErrTransportFailure)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("getUpdates bypasses limits", func(t *testing.T) {
		calls.Store(0)
		tr := NewLimitedTransport(next, LimitConfig{GlobalRate: 0.01, GlobalBurst: 1})
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		for i := 0; i < 5; i++ {
			_, err := tr.Call(ctx, MethodGetUpdates, []byte(`{}`))
			require.NoError(t, err)
		}
		assert.Equal(t, int32(5), calls.Load())
	})

	t.Run("behind a bot", func(t *testing.T) {
		bot := New(NewLimitedTransport(next, LimitConfig{}))
		assert.NoError(t, bot.SetWebhook(context.Background(), "https://example.com/hook"))
	})
}

func TestInstrumentedTransport(t *testing.T) {
	reg := prometheus.NewRegistry()
	responses := map[string]string{
		MethodSendMessage:    `{"ok":true,"result":{"message_id":1,"chat":{"id":1,"type":"private"},"date":0,"text":"hi"}}`,
		MethodForwardMessage: `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`,
		MethodGetMe:          `{"message":"Bad Gateway"}`,
	}
	next := TransportFunc(func(ctx context.Context, method string, payload []byte) ([]byte, error) {
		if method == MethodGetUpdates {
			<-ctx.Done()
			return nil, &TransportError{Method: method, Err: ctx.Err()}
		}
		return []byte(responses[method]), nil
	})

	tr, err := NewInstrumentedTransport(next, reg)
	require.NoError(t, err)
	bot := New(tr, WithPollMargin(10*time.Millisecond))
	ctx := context.Background()

	_, err = bot.SendMessage(ctx, ID(1), "hi", nil)
	require.NoError(t, err)
	_, err = bot.ForwardMessage(ctx, ID(1), ID(2), 3, nil)
	require.ErrorIs(t, err, ErrRemoteRejection)
	_, err = bot.GetUpdates(ctx, GetUpdatesOptions{})
	require.ErrorIs(t, err, ErrTransportFailure)
	_, err = bot.GetMe(ctx)
	require.ErrorIs(t, err, ErrTransportFailure)

	assert.Equal(t, 1.0, testutil.ToFloat64(tr.requests.WithLabelValues(MethodSendMessage, OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(tr.requests.WithLabelValues(MethodGetMe, OutcomeTransport)))
	assert.Equal(t, 1.0, testutil.ToFloat64(tr.requests.WithLabelValues(MethodForwardMessage, OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(tr.requests.WithLabelValues(MethodGetUpdates, OutcomeCanceled)))
	assert.Equal(t, 4, testutil.CollectAndCount(tr.duration))

	_, err = NewInstrumentedTransport(next, reg)
	assert.Error(t, err, "registering twice must fail")
}
