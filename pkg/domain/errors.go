package domain

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned when the user interrupts an interactive prompt.
var ErrCancelled = errors.New("cancelled by user")

// ErrCacheMiss is returned by an AddressCache that holds no record.
// It is the normal state on a first run.
var ErrCacheMiss = errors.New("no cached address")

// ErrMalformedCache is returned when a cache record exists but cannot be decoded.
var ErrMalformedCache = errors.New("malformed cached address record")

// ErrMalformedAddress is returned when text cannot be turned into an Address.
var ErrMalformedAddress = errors.New("malformed address")

// ErrMalformedHandle is returned when a discovered device descriptor has no usable host.
var ErrMalformedHandle = errors.New("malformed device handle")

// ErrDuplicateToken is returned when two command specs share a token.
var ErrDuplicateToken = errors.New("duplicate command token")

// ErrInvalidSpec is returned for command specs that are incomplete.
var ErrInvalidSpec = errors.New("invalid command spec")

// ErrTransient classifies recoverable connectivity failures.
var ErrTransient = errors.New("transient connectivity failure")

// ErrRejected classifies requests the device answered with an error status.
var ErrRejected = errors.New("rejected by device")

// FailureKind describes why a transport call failed.
type FailureKind string

const (
	FailureUnreachable    FailureKind = "unreachable"
	FailureTimeout        FailureKind = "timeout"
	FailureNameResolution FailureKind = "name_resolution"
	FailureCircuitOpen    FailureKind = "circuit_open"
	FailureRejected       FailureKind = "rejected"
)

// Transient reports whether the failure is worth retrying later.
func (k FailureKind) Transient() bool {
	return k != FailureRejected
}

// TransportError is the error shape every transport adapter returns.
type TransportError struct {
	Kind FailureKind
	Addr Address
	Err  error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Addr, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Addr, e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the classification sentinels.
func (e *TransportError) Is(target error) bool {
	switch target {
	case ErrTransient:
		return e.Kind.Transient()
	case ErrRejected:
		return e.Kind == FailureRejected
	}
	return false
}

// IsTransient reports whether err is a recoverable connectivity failure.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}
