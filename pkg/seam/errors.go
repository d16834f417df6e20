package seam

import (
	"errors"
	"fmt"

	"github.com/seamproto/seam/pkg/wire"
)

// Negotiation and authentication failures (handshake phase). All fatal;
// a failed session is discarded, never resumed.
var (
	ErrNoCommonCipherSuite  = errors.New("no common cipher suite")
	ErrEmptyCipherSuites    = errors.New("empty cipher suite list")
	ErrUnexpectedMessage    = errors.New("unexpected message")
	ErrCertificateInvalid   = errors.New("peer certificate not trusted")
	ErrSignatureInvalid     = errors.New("certificate verify signature invalid")
	ErrFinishedVerification = errors.New("finished verification failed")
	ErrLowEntropyRandom     = errors.New("peer random has insufficient entropy")
)

// Record-layer failures (established phase). Also fatal; a MAC failure is
// never "try the next record".
var (
	ErrRecordAuthentication = errors.New("record authentication failed")
	ErrSequenceOverflow     = errors.New("record sequence number overflow")
	ErrPayloadTooLarge      = errors.New("record payload too large")
)

// Session lifecycle.
var (
	ErrNotEstablished = errors.New("session not established")
	ErrSessionClosed  = errors.New("session closed")
	errNoLocalKey     = errors.New("mutual auth requires a local certificate and key")
	errNoServerCert   = errors.New("server requires a certificate and key")
)

// HandshakeError reports a handshake-phase failure together with the state
// the machine was in when it failed. Callers can decide from the wrapped
// sentinel whether reconnecting makes any sense (a CertificateInvalid
// should not be silently retried against the same peer).
type HandshakeError struct {
	State State
	Err   error
}

func (e *HandshakeError) Error() string {
	return fmt.Sprintf("handshake failed in state %s: %v", e.State, e.Err)
}

func (e *HandshakeError) Unwrap() error {
	return e.Err
}

// RecordError reports a failure on the established record stream.
type RecordError struct {
	Err error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record layer: %v", e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// AlertError reports a fatal alert received from the peer.
type AlertError struct {
	Alert wire.Alert
	Err   error
}

func wrapAlertError(alert *wire.Alert, err error) *AlertError {
	return &AlertError{Alert: *alert, Err: err}
}

func (e *AlertError) Error() string {
	return fmt.Sprintf("alert %s %s", e.Alert.Level, e.Alert.Description)
}

func (e *AlertError) Unwrap() error {
	return e.Err
}

// alertFor maps a local failure to the alert description sent to the peer
// before tearing down.
func alertFor(err error) wire.Description {
	switch {
	case errors.Is(err, ErrNoCommonCipherSuite), errors.Is(err, ErrEmptyCipherSuites):
		return wire.InsufficientSecurity
	case errors.Is(err, ErrUnexpectedMessage):
		return wire.UnexpectedMessage
	case errors.Is(err, ErrCertificateInvalid):
		return wire.BadCertificate
	case errors.Is(err, ErrSignatureInvalid), errors.Is(err, ErrFinishedVerification):
		return wire.AuthenticationFailure
	case errors.Is(err, ErrRecordAuthentication):
		return wire.BadRecordMAC
	case errors.Is(err, ErrLowEntropyRandom):
		return wire.HandshakeFailure
	default:
		return wire.InternalError
	}
}
