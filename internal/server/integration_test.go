package server_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/statforge/internal/config"
	"github.com/cory-johannsen/statforge/internal/frontend/handlers"
	"github.com/cory-johannsen/statforge/internal/frontend/telnet"
	"github.com/cory-johannsen/statforge/internal/game/analysis"
	"github.com/cory-johannsen/statforge/internal/game/dice"
	"github.com/cory-johannsen/statforge/internal/game/ruleset"
	"github.com/cory-johannsen/statforge/internal/server"
	"github.com/cory-johannsen/statforge/internal/testutil"
)

// TestServerEndToEnd boots the full stack on a random port and runs a short
// session through a real TCP connection.
func TestServerEndToEnd(t *testing.T) {
	logger := zaptest.NewLogger(t)

	engine, err := analysis.NewEngine(analysis.DefaultTiers(), logger)
	require.NoError(t, err)

	handler := handlers.NewStatHandler(
		config.GameConfig{},
		ruleset.DefaultAbilities(),
		engine,
		dice.NewCryptoSource(),
		logger,
	)

	cfg := config.TelnetConfig{
		Host:         "127.0.0.1",
		Port:         0,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	acceptor := telnet.NewAcceptor(cfg, handler, logger)

	lc := server.NewLifecycle(logger)
	lc.Add("telnet", &server.FuncService{
		StartFn: acceptor.ListenAndServe,
		StopFn:  acceptor.Stop,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- lc.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return acceptor.IsRunning() && acceptor.Addr() != ""
	}, 2*time.Second, 10*time.Millisecond, "acceptor did not start")

	client := testutil.NewTelnetClient(t, acceptor.Addr())
	client.ReadUntil("StatForge", 2*time.Second)

	client.Send("roll")
	client.ReadUntil("Rolled", 2*time.Second)

	client.Send("add 15")
	client.ReadUntil("Added 15 (manual) to the tray.", 2*time.Second)

	client.Send("quit")
	client.ReadUntil("Goodbye.", 2*time.Second)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
