package seam

import (
	"crypto/hmac"

	"github.com/seamproto/seam/pkg/crypto"
	"github.com/seamproto/seam/pkg/wire"
)

// runClient drives the connecting side:
//
//	send ClientHello -> recv ServerHello -> recv Certificate +
//	CertificateVerify -> recv Finished -> [send Certificate +
//	CertificateVerify] -> send Finished
func (s *Session) runClient() error {
	suiteIDs := make([]uint16, 0, len(s.cfg.suites()))
	for _, id := range s.cfg.suites() {
		suiteIDs = append(suiteIDs, uint16(id))
	}

	if s.cfg.RequireMutualAuth && (len(s.cfg.Certificate) == 0 || s.cfg.PrivateKey == nil) {
		return errNoLocalKey
	}

	randomBytes, err := s.provider.RandomBytes(wire.RandomLength)
	if err != nil {
		return err
	}
	var random [wire.RandomLength]byte
	copy(random[:], randomBytes)

	share, err := crypto.GenerateKeyShare(s.provider)
	if err != nil {
		return err
	}
	defer share.Zeroize()

	envelope, err := s.sendHandshakeMessage(&wire.MessageClientHello{
		Random:       random,
		CipherSuites: suiteIDs,
		KeyShare:     share.PublicKey,
	})
	if err != nil {
		return err
	}
	s.transcript.append(envelope)
	s.transition(StateHelloSent)

	// ServerHello: the server's suite choice must come from our list.
	msg, envelope, err := s.readHandshakeMessage(wire.TypeServerHello)
	if err != nil {
		return err
	}
	serverHello := msg.(*wire.MessageServerHello)
	if err := checkRandom(serverHello.Random); err != nil {
		return err
	}
	if !s.cfg.supports(serverHello.CipherSuite) {
		return ErrNoCommonCipherSuite
	}
	if err := s.adoptSuite(crypto.SuiteID(serverHello.CipherSuite)); err != nil {
		return err
	}
	s.transcript.append(envelope)
	s.transcript.markServerHello()
	s.transition(StateHelloReceived)

	sharedSecret, err := share.SharedSecret(serverHello.KeyShare)
	if err != nil {
		return ErrUnexpectedMessage
	}
	s.ks.deriveHandshake(sharedSecret, s.transcript.atServerHello)
	crypto.Zero(sharedSecret)
	s.transition(StateKeyExchanged)

	// Server authentication: chain, then signature over the transcript
	// digest up to and including Certificate.
	msg, envelope, err = s.readHandshakeMessage(wire.TypeCertificate)
	if err != nil {
		return err
	}
	certificate := msg.(*wire.MessageCertificate)
	s.transcript.append(envelope)
	s.transcript.markCertificate()

	msg, envelope, err = s.readHandshakeMessage(wire.TypeCertificateVerify)
	if err != nil {
		return err
	}
	verify := msg.(*wire.MessageCertificateVerify)
	if err := s.authenticatePeer(certificate.Certificate, verify, s.transcript.atCertificate); err != nil {
		return err
	}
	s.transcript.append(envelope)
	s.transition(StatePeerAuthenticated)

	// Server Finished: proof the server derived the same handshake secret
	// over the same transcript.
	msg, envelope, err = s.readHandshakeMessage(wire.TypeFinished)
	if err != nil {
		return err
	}
	finished := msg.(*wire.MessageFinished)
	expected := s.ks.verifyData(s.ks.serverHsTraffic, s.transcript.digest())
	if !hmac.Equal(expected, finished.VerifyData) {
		return ErrFinishedVerification
	}
	s.transcript.append(envelope)
	s.transcript.markServerFinished()

	if s.cfg.RequireMutualAuth {
		envelope, err = s.sendHandshakeMessage(&wire.MessageCertificate{Certificate: s.cfg.Certificate})
		if err != nil {
			return err
		}
		s.transcript.append(envelope)

		envelope, err = s.sendHandshakeMessage(signTranscript(s.cfg.PrivateKey, s.transcript.digest()))
		if err != nil {
			return err
		}
		s.transcript.append(envelope)
	}

	envelope, err = s.sendHandshakeMessage(&wire.MessageFinished{
		VerifyData: s.ks.verifyData(s.ks.clientHsTraffic, s.transcript.digest()),
	})
	if err != nil {
		return err
	}
	s.transcript.append(envelope)

	// Application secrets hang off the digest at the server Finished, so
	// both sides derive them at the same transcript point.
	s.ks.deriveApplication(s.transcript.atServerFinished)
	s.rl.send.install(s.ks.clientApTraffic)
	s.rl.recv.install(s.ks.serverApTraffic)
	s.ks.dropHandshakeSecrets()
	s.transcript.discard()
	s.transition(StateEstablished)

	return nil
}
