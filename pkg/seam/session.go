// Package seam implements an authenticated, encrypted channel over any
// reliable record transport: an X25519 key exchange with certificate
// authentication, an HMAC/HKDF key schedule, and an AEAD record layer
// with strict sequencing. Every failure is fatal; sessions are cheap to
// establish and never resumed.
package seam

import (
	"context"
	"errors"
	"io"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/seamproto/seam/pkg/crypto"
	"github.com/seamproto/seam/pkg/wire"
)

// Session is one secure channel endpoint. Create with Client or Server,
// run the handshake with Connect or Accept, then Send/Receive until Close.
// A Session is good for exactly one handshake; once failed or closed it is
// discarded.
//
// Send and Receive are each safe for one concurrent caller (one writer
// goroutine, one reader goroutine).
type Session struct {
	role Role
	cfg  *Config
	tr   Transport

	provider crypto.Provider
	suite    crypto.SuiteID

	state      State
	transcript *transcript
	ks         *keySchedule
	rl         *recordLayer
	peerChain  [][]byte

	// Plaintext handshake records carry their own per-direction sequence
	// numbers, separate from the record layer's.
	hsSendSeq uint64
	hsRecvSeq uint64

	sendMu sync.Mutex
	recvMu sync.Mutex

	// stateMu guards state and closed, which the send and receive paths
	// both consult.
	stateMu  sync.Mutex
	closed   bool
	trClosed bool
}

// status reads the lifecycle pair every operation gates on.
func (s *Session) status() (State, bool) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.state, s.closed
}

func (s *Session) setState(next State) {
	s.stateMu.Lock()
	s.state = next
	s.stateMu.Unlock()
}

// markFailed poisons the session: closed, terminal state.
func (s *Session) markFailed() {
	s.stateMu.Lock()
	s.closed = true
	s.state = StateFailed
	s.stateMu.Unlock()
}

// Client builds the connecting endpoint. The handshake does not start
// until Connect.
func Client(tr Transport, cfg *Config) (*Session, error) {
	return newSession(RoleClient, tr, cfg)
}

// Server builds the accepting endpoint. The handshake does not start
// until Accept.
func Server(tr Transport, cfg *Config) (*Session, error) {
	return newSession(RoleServer, tr, cfg)
}

func newSession(role Role, tr Transport, cfg *Config) (*Session, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	// The initial provider covers randomness and transcript hashing until
	// negotiation settles the suite; both defined suites hash with SHA-256
	// so the transcript survives the swap.
	p, err := cfg.providerFor(cfg.suites()[0])
	if err != nil {
		return nil, err
	}
	s := &Session{
		role:     role,
		cfg:      cfg,
		tr:       tr,
		provider: p,
		state:    StateStart,
	}
	s.transcript = newTranscript(p)
	return s, nil
}

// adoptSuite pins the negotiated suite and rebuilds the crypto plumbing
// around its provider.
func (s *Session) adoptSuite(id crypto.SuiteID) error {
	p, err := s.cfg.providerFor(id)
	if err != nil {
		return err
	}
	s.suite = id
	s.provider = p
	s.transcript.setProvider(p)
	s.ks = newKeySchedule(p)
	s.rl = newRecordLayer(p)
	log.Debugf("[handshake] %s: negotiated %s", s.role, id)
	return nil
}

// Connect runs the client handshake to completion or fatal failure.
func (s *Session) Connect(ctx context.Context) error {
	return s.handshake(ctx, s.runClient)
}

// Accept runs the server handshake to completion or fatal failure.
func (s *Session) Accept(ctx context.Context) error {
	return s.handshake(ctx, s.runServer)
}

func (s *Session) handshake(ctx context.Context, run func() error) error {
	if st, _ := s.status(); st != StateStart {
		return s.fail(ErrUnexpectedMessage)
	}

	done := make(chan error, 1)
	go func() { done <- run() }()

	select {
	case err := <-done:
		if err != nil {
			// Tell the peer why before tearing down, unless the failure
			// already is the peer's alert.
			var alertErr *AlertError
			if !errors.As(err, &alertErr) {
				s.sendAlert(wire.Fatal, alertFor(err))
			}
			s.zeroize()
			return s.fail(err)
		}
		return nil
	case <-ctx.Done():
		// Unblock the handshake goroutine, then wipe. The transport is
		// dead either way.
		s.sendMu.Lock()
		s.closeTransportLocked()
		s.sendMu.Unlock()
		<-done
		s.zeroize()
		return s.fail(ctx.Err())
	}
}

// Send encrypts payload as one application-data record and writes it to
// the transport.
func (s *Session) Send(payload []byte) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	st, closed := s.status()
	if closed {
		return ErrSessionClosed
	}
	if st != StateEstablished {
		return ErrNotEstablished
	}

	record, err := s.rl.seal(wire.ContentTypeApplicationData, payload)
	if err != nil {
		return err
	}
	return s.tr.Send(record)
}

// Receive returns the next application payload. Alerts and KeyUpdates are
// consumed transparently; any record that fails authentication or arrives
// out of sequence kills the session.
func (s *Session) Receive() ([]byte, error) {
	s.recvMu.Lock()
	defer s.recvMu.Unlock()

	for {
		st, closed := s.status()
		if closed {
			return nil, ErrSessionClosed
		}
		if st != StateEstablished {
			return nil, ErrNotEstablished
		}

		data, err := s.tr.Receive()
		if err != nil {
			return nil, err
		}

		contentType, plaintext, err := s.rl.open(data)
		if err != nil {
			s.terminate(alertFor(err))
			return nil, err
		}

		switch contentType {
		case wire.ContentTypeApplicationData:
			return plaintext, nil
		case wire.ContentTypeAlert:
			return nil, s.handleAlert(plaintext)
		case wire.ContentTypeHandshake:
			if err := s.handleKeyUpdate(plaintext); err != nil {
				s.terminate(alertFor(err))
				return nil, err
			}
		default:
			err := &RecordError{Err: ErrUnexpectedMessage}
			s.terminate(wire.UnexpectedMessage)
			return nil, err
		}
	}
}

func (s *Session) handleAlert(plaintext []byte) error {
	alert := &wire.Alert{}
	if err := alert.Unmarshal(plaintext); err != nil {
		s.terminate(wire.DecodeError)
		return &RecordError{Err: ErrUnexpectedMessage}
	}
	log.Debugf("[session] %s: received alert %s %s", s.role, alert.Level, alert.Description)

	if alert.Description == wire.CloseNotify {
		s.teardown()
		return ErrSessionClosed
	}
	s.teardown()
	return wrapAlertError(alert, ErrSessionClosed)
}

// handleKeyUpdate rolls the receive keys forward and, when the peer asked
// for it, schedules our own update in return.
func (s *Session) handleKeyUpdate(plaintext []byte) error {
	hs := &wire.Handshake{}
	if err := hs.Unmarshal(plaintext); err != nil {
		return ErrUnexpectedMessage
	}
	update, ok := hs.Message.(*wire.MessageKeyUpdate)
	if !ok {
		return ErrUnexpectedMessage
	}

	s.rl.recv.update()
	log.Debugf("[session] %s: receive keys updated", s.role)

	if update.UpdateRequested {
		return s.UpdateKeys(false)
	}
	return nil
}

// UpdateKeys announces a send-key rotation to the peer and rolls the send
// keys forward. With requestPeer set, the peer rotates its send keys too.
func (s *Session) UpdateKeys(requestPeer bool) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	st, closed := s.status()
	if closed {
		return ErrSessionClosed
	}
	if st != StateEstablished {
		return ErrNotEstablished
	}

	payload, err := (&wire.Handshake{
		Message: &wire.MessageKeyUpdate{UpdateRequested: requestPeer},
	}).Marshal()
	if err != nil {
		return err
	}

	// The announcement goes out under the old keys; everything after it
	// uses the next secret.
	record, err := s.rl.seal(wire.ContentTypeHandshake, payload)
	if err != nil {
		return err
	}
	if err := s.tr.Send(record); err != nil {
		return err
	}
	s.rl.send.update()
	log.Debugf("[session] %s: send keys updated", s.role)
	return nil
}

// Close sends a close_notify, wipes all key material, and closes the
// transport. Safe to call more than once.
func (s *Session) Close() error {
	s.sendMu.Lock()
	st, closed := s.status()
	if !closed && st == StateEstablished {
		s.sealAlertLocked(wire.Warning, wire.CloseNotify)
	}
	s.stateMu.Lock()
	s.closed = true
	s.stateMu.Unlock()
	err := s.closeTransportLocked()
	s.sendMu.Unlock()

	// The transport is closed, so a concurrent Receive unblocks and
	// releases recvMu before the keys are wiped under both mutexes.
	s.recvMu.Lock()
	s.sendMu.Lock()
	s.zeroize()
	s.sendMu.Unlock()
	s.recvMu.Unlock()
	return err
}

// closeTransportLocked closes the underlying transport once. Caller holds
// sendMu.
func (s *Session) closeTransportLocked() error {
	if s.trClosed {
		return nil
	}
	s.trClosed = true
	if c, ok := s.tr.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// terminate sends a fatal alert and tears the session down. Called from
// the receive path, which holds recvMu; the send half is wiped under
// sendMu, the receive half under the caller's recvMu.
func (s *Session) terminate(desc wire.Description) {
	s.sendMu.Lock()
	st, closed := s.status()
	if !closed && st == StateEstablished {
		s.sealAlertLocked(wire.Fatal, desc)
	}
	s.markFailed()
	s.zeroize()
	s.closeTransportLocked()
	s.sendMu.Unlock()
}

// sealAlertLocked writes one encrypted alert record, best effort. Caller
// holds sendMu.
func (s *Session) sealAlertLocked(level wire.Level, desc wire.Description) {
	payload, err := (&wire.Alert{Level: level, Description: desc}).Marshal()
	if err != nil {
		return
	}
	record, err := s.rl.seal(wire.ContentTypeAlert, payload)
	if err != nil {
		return
	}
	if err := s.tr.Send(record); err != nil {
		log.Debugf("[session] %s: failed to send alert: %v", s.role, err)
	}
}

// teardown is terminate without the alert. Caller holds recvMu.
func (s *Session) teardown() {
	s.sendMu.Lock()
	s.markFailed()
	s.zeroize()
	s.closeTransportLocked()
	s.sendMu.Unlock()
}

// zeroize wipes every secret the session still holds. Peer certificates
// are public and survive for inspection.
func (s *Session) zeroize() {
	if s.ks != nil {
		s.ks.zeroize()
	}
	if s.rl != nil {
		s.rl.zeroize()
	}
	if s.transcript != nil {
		s.transcript.discard()
	}
}

// State reports where the handshake state machine currently stands.
func (s *Session) State() State {
	st, _ := s.status()
	return st
}

// NegotiatedSuite is the agreed cipher suite, zero before negotiation.
func (s *Session) NegotiatedSuite() crypto.SuiteID {
	return s.suite
}

// PeerCertificates returns the authenticated peer chain (leaf first), or
// nil when the peer did not authenticate with a certificate.
func (s *Session) PeerCertificates() [][]byte {
	if s.peerChain == nil {
		return nil
	}
	out := make([][]byte, len(s.peerChain))
	for i, raw := range s.peerChain {
		out[i] = append([]byte{}, raw...)
	}
	return out
}
