package login

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listenResult struct {
	code string
	err  error
}

func startListening(ctx context.Context, t *testing.T, state string) (*CallbackListener, <-chan listenResult) {
	t.Helper()
	listener, err := NewCallbackListener("127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	done := make(chan listenResult, 1)
	go func() {
		code, err := listener.Listen(ctx, state)
		done <- listenResult{code: code, err: err}
	}()
	return listener, done
}

func waitResult(t *testing.T, done <-chan listenResult) listenResult {
	t.Helper()
	select {
	case res := <-done:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("listener did not return")
		return listenResult{}
	}
}

func TestCallbackListener(t *testing.T) {
	t.Run("returns code for matching state", func(t *testing.T) {
		listener, done := startListening(context.Background(), t, "state-1")
		assert.Contains(t, listener.RedirectURL(), "/callback")

		resp, err := http.Get(listener.RedirectURL() + "?state=state-1&code=the-code")
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		res := waitResult(t, done)
		require.NoError(t, res.err)
		assert.Equal(t, "the-code", res.code)
	})

	t.Run("ignores wrong state and keeps waiting", func(t *testing.T) {
		listener, done := startListening(context.Background(), t, "state-1")

		resp, err := http.Get(listener.RedirectURL() + "?state=other&code=stray-code")
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		select {
		case res := <-done:
			t.Fatalf("listener returned after a mismatched state: %+v", res)
		case <-time.After(50 * time.Millisecond):
		}

		resp, err = http.Get(listener.RedirectURL() + "?state=state-1&code=the-code")
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		res := waitResult(t, done)
		require.NoError(t, res.err)
		assert.Equal(t, "the-code", res.code)
	})

	t.Run("wrong state until cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		listener, done := startListening(ctx, t, "state-1")

		resp, err := http.Get(listener.RedirectURL() + "?state=other&code=stray-code")
		require.NoError(t, err)
		_ = resp.Body.Close()

		cancel()
		res := waitResult(t, done)
		assert.ErrorIs(t, res.err, context.Canceled)
	})

	t.Run("reports denied authorization", func(t *testing.T) {
		listener, done := startListening(context.Background(), t, "state-1")
		resp, err := http.Get(listener.RedirectURL() + "?state=state-1&error=access_denied")
		if err == nil {
			_ = resp.Body.Close()
		}
		res := waitResult(t, done)
		require.Error(t, res.err)
		assert.Contains(t, res.err.Error(), "access_denied")
	})

	t.Run("stops on context cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		_, done := startListening(ctx, t, "state-1")
		cancel()
		res := waitResult(t, done)
		assert.ErrorIs(t, res.err, context.Canceled)
	})
}
