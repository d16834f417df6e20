package seam

import (
	log "github.com/sirupsen/logrus"

	"github.com/seamproto/seam/pkg/wire"
)

// Handshake messages travel as plaintext records with their own
// per-direction sequence numbers; integrity comes from CertificateVerify
// and Finished, both functions of the exact transcript bytes.

// transition moves the state machine forward, leaving a debug trace of
// every step.
func (s *Session) transition(next State) {
	s.stateMu.Lock()
	prev := s.state
	s.state = next
	s.stateMu.Unlock()
	log.Debugf("[handshake] %s: %s -> %s", s.role, prev, next)
}

func (s *Session) fail(err error) error {
	s.setState(StateFailed)
	return &HandshakeError{State: StateFailed, Err: err}
}

// sendHandshakeMessage frames msg into a plaintext handshake record and
// returns the envelope bytes for the transcript.
func (s *Session) sendHandshakeMessage(msg wire.Message) ([]byte, error) {
	envelope, err := (&wire.Handshake{Message: msg}).Marshal()
	if err != nil {
		return nil, err
	}

	record := &wire.Record{
		Header: wire.RecordHeader{
			ContentType:    wire.ContentTypeHandshake,
			Version:        wire.Version1,
			SequenceNumber: s.hsSendSeq,
		},
		Payload: envelope,
	}
	data, err := record.Marshal()
	if err != nil {
		return nil, err
	}
	if err := s.tr.Send(data); err != nil {
		return nil, err
	}
	s.hsSendSeq++

	log.Debugf("[handshake] %s: sent %s (%d bytes)", s.role, msg.MessageType(), len(data))
	return envelope, nil
}

// readHandshakeMessage receives the next record and requires it to be one
// of the expected handshake variants. Alerts from the peer surface as
// AlertError; anything else out of order is ErrUnexpectedMessage.
func (s *Session) readHandshakeMessage(expect ...wire.MessageType) (wire.Message, []byte, error) {
	data, err := s.tr.Receive()
	if err != nil {
		return nil, nil, err
	}

	record := &wire.Record{}
	if err := record.Unmarshal(data); err != nil {
		return nil, nil, ErrUnexpectedMessage
	}
	if record.Header.SequenceNumber != s.hsRecvSeq {
		return nil, nil, ErrUnexpectedMessage
	}
	s.hsRecvSeq++

	switch record.Header.ContentType {
	case wire.ContentTypeAlert:
		alert := &wire.Alert{}
		if err := alert.Unmarshal(record.Payload); err != nil {
			return nil, nil, ErrUnexpectedMessage
		}
		log.Debugf("[handshake] %s: received alert %s %s", s.role, alert.Level, alert.Description)
		return nil, nil, wrapAlertError(alert, ErrUnexpectedMessage)
	case wire.ContentTypeHandshake:
	default:
		return nil, nil, ErrUnexpectedMessage
	}

	envelope := record.Payload
	hs := &wire.Handshake{}
	if err := hs.Unmarshal(envelope); err != nil {
		return nil, nil, ErrUnexpectedMessage
	}
	for _, want := range expect {
		if hs.Message.MessageType() == want {
			log.Debugf("[handshake] %s: received %s", s.role, want)
			return hs.Message, envelope, nil
		}
	}
	return nil, nil, ErrUnexpectedMessage
}

// sendAlert pushes a plaintext alert record, best effort. Used before
// tearing a failed handshake down.
func (s *Session) sendAlert(level wire.Level, desc wire.Description) {
	payload, err := (&wire.Alert{Level: level, Description: desc}).Marshal()
	if err != nil {
		return
	}
	record := &wire.Record{
		Header: wire.RecordHeader{
			ContentType:    wire.ContentTypeAlert,
			Version:        wire.Version1,
			SequenceNumber: s.hsSendSeq,
		},
		Payload: payload,
	}
	data, err := record.Marshal()
	if err != nil {
		return
	}
	if err := s.tr.Send(data); err != nil {
		log.Debugf("[handshake] %s: failed to send alert: %v", s.role, err)
		return
	}
	s.hsSendSeq++
}

// checkRandom rejects a degenerate hello nonce. A zeroed random means the
// peer's entropy source is broken; continuing would undermine every
// derived secret.
func checkRandom(random [wire.RandomLength]byte) error {
	for _, b := range random {
		if b != 0 {
			return nil
		}
	}
	return ErrLowEntropyRandom
}

// authenticatePeer validates the peer chain against the trust oracle and
// the CertificateVerify signature against the leaf key.
func (s *Session) authenticatePeer(chain [][]byte, verify *wire.MessageCertificateVerify, digest []byte) error {
	if len(chain) == 0 {
		return ErrCertificateInvalid
	}
	if !s.cfg.oracle().IsTrusted(chain) {
		return ErrCertificateInvalid
	}
	if err := verifyTranscriptSignature(chain, verify, digest); err != nil {
		return err
	}
	s.peerChain = chain
	return nil
}
