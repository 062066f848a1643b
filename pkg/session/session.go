package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/aretw0/romote/pkg/domain"
	"github.com/aretw0/romote/pkg/ports"
)

// ErrAlreadyClaimed is returned when a second owner tries to take a session.
var ErrAlreadyClaimed = errors.New("session already claimed")

// Session is a verified, live control handle bound to one device address.
// It is created by the connection manager and owned by exactly one dispatcher.
// The atomic claim flag makes go vet reject copies.
type Session struct {
	addr    domain.Address
	source  domain.Source
	ctrl    ports.Controller
	claimed atomic.Bool
}

// New binds a controller that has already been verified against addr.
func New(addr domain.Address, source domain.Source, ctrl ports.Controller) (*Session, error) {
	if addr == "" {
		return nil, fmt.Errorf("session: %w: empty", domain.ErrMalformedAddress)
	}
	if ctrl == nil {
		return nil, errors.New("session: nil controller")
	}
	return &Session{addr: addr, source: source, ctrl: ctrl}, nil
}

// Address returns the device address the session is bound to.
func (s *Session) Address() domain.Address {
	return s.addr
}

// Source reports how the address was obtained.
func (s *Session) Source() domain.Source {
	return s.source
}

// Claim transfers ownership to the caller. Only the first call succeeds.
func (s *Session) Claim() error {
	if !s.claimed.CompareAndSwap(false, true) {
		return ErrAlreadyClaimed
	}
	return nil
}

// Invoke sends cmd through the bound transport.
func (s *Session) Invoke(ctx context.Context, cmd domain.CommandID, arg string) error {
	if !cmd.Valid() {
		return fmt.Errorf("session: invalid command id %d", int(cmd))
	}
	return s.ctrl.Invoke(ctx, cmd, arg)
}
