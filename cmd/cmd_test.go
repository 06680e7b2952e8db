package cmd

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pairup/matchmaker/internal/client"
)

func TestInterrupted(t *testing.T) {
	assert.NoError(t, interrupted(context.Canceled))
	assert.NoError(t, interrupted(client.NewError("wait", context.Canceled)))

	timeout := client.NewError("wait for room", client.ErrTimeout)
	assert.Equal(t, timeout, interrupted(timeout))
}

func TestCountText(t *testing.T) {
	assert.Equal(t, "-", countText(-1))
	assert.Equal(t, "4", countText(4))
}

func TestStatsCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stats" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"online":2,"connections":3,"queued":1,"rooms":5}`))
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	rootCmd.SetArgs([]string{"stats", "--server", wsURL})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
}

func TestStatsCommand_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	rootCmd.SetArgs([]string{"stats", "--server", wsURL})
	err := rootCmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, client.ErrServerRejected))
}
