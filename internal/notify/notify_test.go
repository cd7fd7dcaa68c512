package notify

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSMTPMailer_BuildsMessage(t *testing.T) {
	m := NewSMTPMailer("mail.example.com", 2525, "noreply@example.com", "secret")
	var gotAddr string
	var gotTo []string
	var gotMsg string
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		assert.Equal(t, "noreply@example.com", from)
		return nil
	}

	require.NoError(t, m.Send(context.Background(), "alice@example.com", "Code", "Your code: abc"))

	assert.Equal(t, "mail.example.com:2525", gotAddr)
	assert.Equal(t, []string{"alice@example.com"}, gotTo)
	assert.True(t, strings.HasPrefix(gotMsg, "Subject: Code\r\n"))
	assert.Contains(t, gotMsg, "To: alice@example.com\r\n")
	assert.Contains(t, gotMsg, "\r\n\r\nYour code: abc\r\n")
}

func TestLogMailer_KeepsBodyOutOfInfo(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := NewLogMailer(zap.New(core))

	require.NoError(t, m.Send(context.Background(), "alice@example.com", "Code", "Your code: abc"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "alice@example.com", entry.ContextMap()["to"])
	assert.NotContains(t, entry.ContextMap(), "body")

	debugCore, debugLogs := observer.New(zapcore.DebugLevel)
	require.NoError(t, NewLogMailer(zap.New(debugCore)).Send(context.Background(), "alice@example.com", "Code", "Your code: abc"))
	assert.Equal(t, 1, debugLogs.FilterField(zap.String("body", "Your code: abc")).Len())
}

func TestSMTPMailer_WrapsError(t *testing.T) {
	m := NewSMTPMailer("mail.example.com", 25, "noreply@example.com", "")
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("refused") }

	err := m.Send(context.Background(), "bob@example.com", "s", "b")

	assert.ErrorContains(t, err, "refused")
}

type slowNotifier struct {
	mu    sync.Mutex
	delay time.Duration
	sent  []string
	err   error
}

func (n *slowNotifier) Send(ctx context.Context, to, _, _ string) error {
	time.Sleep(n.delay)
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, to)
	return n.err
}

func TestAsync_ReturnsImmediatelyAndDrainsOnClose(t *testing.T) {
	next := &slowNotifier{delay: 50 * time.Millisecond, err: errors.New("down")}
	a := NewAsync(next, zap.NewNop())

	start := time.Now()
	require.NoError(t, a.Send(context.Background(), "a@example.com", "s", "b"))
	require.NoError(t, a.Send(context.Background(), "b@example.com", "s", "b"))
	assert.Less(t, time.Since(start), 40*time.Millisecond)

	require.NoError(t, a.Close(context.Background()))
	assert.ElementsMatch(t, []string{"a@example.com", "b@example.com"}, next.sent)

	assert.ErrorIs(t, a.Send(context.Background(), "c@example.com", "s", "b"), ErrClosed)
}

func TestAsync_SurvivesCanceledRequestContext(t *testing.T) {
	next := &slowNotifier{delay: 10 * time.Millisecond}
	a := NewAsync(next, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, a.Send(ctx, "a@example.com", "s", "b"))
	cancel()

	require.NoError(t, a.Close(context.Background()))
	assert.Equal(t, []string{"a@example.com"}, next.sent)
}

func TestAsync_CloseHonorsDeadline(t *testing.T) {
	next := &slowNotifier{delay: 200 * time.Millisecond}
	a := NewAsync(next, zap.NewNop())
	require.NoError(t, a.Send(context.Background(), "a@example.com", "s", "b"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, a.Close(ctx), context.DeadlineExceeded)
}
