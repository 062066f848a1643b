package runner

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// SignalManager derives a context that is cancelled on SIGINT or SIGTERM
// and remembers which signal did it.
type SignalManager struct {
	ctx    context.Context
	cancel context.CancelFunc
	sigCh  chan os.Signal
	stop   sync.Once

	mu     sync.Mutex
	sigVal os.Signal
}

// NewSignalManager creates a new manager and immediately starts listening for signals.
func NewSignalManager(parent context.Context) *SignalManager {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	sm := &SignalManager{
		ctx:    ctx,
		cancel: cancel,
		sigCh:  make(chan os.Signal, 1),
	}

	signal.Notify(sm.sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sm.sigCh:
			sm.mu.Lock()
			sm.sigVal = sig
			sm.mu.Unlock()
			sm.cancel()
		case <-sm.ctx.Done():
			// Cancelled elsewhere
		}
		sm.release()
	}()

	return sm
}

// Context returns the signal context.
func (sm *SignalManager) Context() context.Context {
	return sm.ctx
}

// Signal returns the signal that cancelled the context, or nil.
func (sm *SignalManager) Signal() os.Signal {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.sigVal
}

// Stop cancels the context and stops listening.
func (sm *SignalManager) Stop() {
	sm.cancel()
	sm.release()
}

func (sm *SignalManager) release() {
	sm.stop.Do(func() {
		signal.Stop(sm.sigCh)
	})
}

// CheckRace waits briefly to see if a context cancellation follows an error.
// On some terminals Ctrl+C surfaces as EOF on stdin slightly before the
// signal is delivered.
func (sm *SignalManager) CheckRace() {
	if sm.ctx.Err() == nil {
		select {
		case <-sm.ctx.Done():
		case <-time.After(100 * time.Millisecond):
		}
	}
}
