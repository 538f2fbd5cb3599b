package server

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/dh-notes/internal/common/logger"
)

func TestRun_ShutsDownAndRunsHooks(t *testing.T) {
	cfg := DefaultConfig("0")
	cfg.Addr = "127.0.0.1:0"
	cfg.ShutdownTimeout = time.Second
	cfg.DrainTimeout = 100 * time.Millisecond

	srv := New(cfg, http.NotFoundHandler())
	log := logger.NewWithWriter(io.Discard, "test", "error")

	ctx, cancel := context.WithCancel(context.Background())
	var hookCalls int
	hook := func(ctx context.Context) error {
		hookCalls++
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- Run(ctx, srv, cfg, log, "test", hook, hook) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Equal(t, 2, hookCalls)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("8080")
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Positive(t, cfg.ShutdownTimeout)
	assert.Less(t, cfg.DrainTimeout, cfg.ShutdownTimeout)
}
