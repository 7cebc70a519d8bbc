package telnet

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/statforge/internal/config"
)

// echoHandler echoes each input line back until the client disconnects.
type echoHandler struct{}

func (echoHandler) HandleSession(ctx context.Context, conn *Conn) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line, err := conn.ReadLine()
		if err != nil {
			return err
		}
		if err := conn.WriteLine(line); err != nil {
			return err
		}
	}
}

func startAcceptor(t *testing.T) *Acceptor {
	t.Helper()

	cfg := config.TelnetConfig{
		Host:         "127.0.0.1",
		Port:         0,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	a := NewAcceptor(cfg, echoHandler{}, zaptest.NewLogger(t))

	go func() {
		_ = a.ListenAndServe()
	}()
	t.Cleanup(a.Stop)

	require.Eventually(t, func() bool {
		return a.IsRunning() && a.Addr() != ""
	}, 2*time.Second, 10*time.Millisecond, "acceptor did not start")

	return a
}

// readNegotiation consumes the IAC WILL sequence the server sends on connect.
func readNegotiation(t *testing.T, conn net.Conn) {
	t.Helper()
	buf := make([]byte, 3)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err := conn.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	assert.Equal(t, []byte{IAC, WILL, OptSuppressGoAhead}, buf)
}

func TestAcceptor_EchoSession(t *testing.T) {
	a := startAcceptor(t)

	client, err := net.Dial("tcp", a.Addr())
	require.NoError(t, err)
	defer client.Close()

	readNegotiation(t, client)

	_, err = client.Write([]byte("hello\r\n"))
	require.NoError(t, err)

	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := bufio.NewReader(client).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "hello", strings.TrimRight(line, "\r\n"))
}

func TestAcceptor_MultipleClients(t *testing.T) {
	a := startAcceptor(t)

	for _, msg := range []string{"first", "second"} {
		client, err := net.Dial("tcp", a.Addr())
		require.NoError(t, err)

		readNegotiation(t, client)

		_, err = client.Write([]byte(msg + "\r\n"))
		require.NoError(t, err)

		_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
		line, err := bufio.NewReader(client).ReadString('\n')
		require.NoError(t, err)
		assert.Equal(t, msg, strings.TrimRight(line, "\r\n"))

		client.Close()
	}
}

func TestAcceptor_StopClosesListener(t *testing.T) {
	a := startAcceptor(t)
	addr := a.Addr()

	a.Stop()
	assert.False(t, a.IsRunning())

	_, err := net.Dial("tcp", addr)
	assert.Error(t, err, "listener must be closed after Stop")
}

func TestAcceptor_StopIsIdempotent(t *testing.T) {
	a := startAcceptor(t)
	a.Stop()
	a.Stop()
}
