package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("notifier closed")

const sendTimeout = 30 * time.Second

// Async hands each message to a goroutine and returns at once. Delivery
// errors are logged, never returned. Close waits for in-flight sends.
type Async struct {
	next Notifier
	l    *zap.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewAsync(next Notifier, l *zap.Logger) *Async {
	return &Async{next: next, l: l}
}

func (a *Async) Send(ctx context.Context, to, subject, body string) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	a.wg.Add(1)
	a.mu.Unlock()

	// the request context ends with the response; keep its values only
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	go func() {
		defer a.wg.Done()
		defer cancel()
		if err := a.next.Send(sendCtx, to, subject, body); err != nil {
			a.l.Warn("notification delivery failed", zap.String("to", to), zap.Error(err))
		}
	}()
	return nil
}

// Close stops accepting messages and waits for pending ones or ctx.
func (a *Async) Close(ctx context.Context) error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
