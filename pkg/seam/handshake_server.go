package seam

import (
	"crypto/hmac"

	"github.com/seamproto/seam/pkg/crypto"
	"github.com/seamproto/seam/pkg/wire"
)

// runServer drives the accepting side, the mirror of runClient. The
// server always authenticates; the client only does when mutual
// authentication is configured on both ends.
func (s *Session) runServer() error {
	if len(s.cfg.Certificate) == 0 || s.cfg.PrivateKey == nil {
		return errNoServerCert
	}

	msg, envelope, err := s.readHandshakeMessage(wire.TypeClientHello)
	if err != nil {
		return err
	}
	clientHello := msg.(*wire.MessageClientHello)
	if len(clientHello.CipherSuites) == 0 {
		return ErrEmptyCipherSuites
	}
	if err := checkRandom(clientHello.Random); err != nil {
		return err
	}

	// Suite selection is server-authoritative: first entry of our own
	// preference list that the client also offered.
	selected, err := selectSuite(s.cfg.suites(), clientHello.CipherSuites)
	if err != nil {
		return err
	}
	if err := s.adoptSuite(selected); err != nil {
		return err
	}
	s.transcript.append(envelope)
	s.transition(StateHelloReceived)

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

	envelope, err = s.sendHandshakeMessage(&wire.MessageServerHello{
		Random:      random,
		CipherSuite: uint16(selected),
		KeyShare:    share.PublicKey,
	})
	if err != nil {
		return err
	}
	s.transcript.append(envelope)
	s.transcript.markServerHello()
	s.transition(StateHelloSent)

	sharedSecret, err := share.SharedSecret(clientHello.KeyShare)
	if err != nil {
		return ErrUnexpectedMessage
	}
	s.ks.deriveHandshake(sharedSecret, s.transcript.atServerHello)
	crypto.Zero(sharedSecret)
	s.transition(StateKeyExchanged)

	// Server authentication: chain, signature over the transcript digest
	// up to and including Certificate, then Finished over everything so
	// far under the server handshake traffic secret.
	envelope, err = s.sendHandshakeMessage(&wire.MessageCertificate{Certificate: s.cfg.Certificate})
	if err != nil {
		return err
	}
	s.transcript.append(envelope)
	s.transcript.markCertificate()

	envelope, err = s.sendHandshakeMessage(signTranscript(s.cfg.PrivateKey, s.transcript.atCertificate))
	if err != nil {
		return err
	}
	s.transcript.append(envelope)

	envelope, err = s.sendHandshakeMessage(&wire.MessageFinished{
		VerifyData: s.ks.verifyData(s.ks.serverHsTraffic, s.transcript.digest()),
	})
	if err != nil {
		return err
	}
	s.transcript.append(envelope)
	s.transcript.markServerFinished()

	if s.cfg.RequireMutualAuth {
		msg, envelope, err = s.readHandshakeMessage(wire.TypeCertificate)
		if err != nil {
			return err
		}
		clientCert := msg.(*wire.MessageCertificate)
		s.transcript.append(envelope)
		digestAtClientCert := s.transcript.digest()

		msg, envelope, err = s.readHandshakeMessage(wire.TypeCertificateVerify)
		if err != nil {
			return err
		}
		verify := msg.(*wire.MessageCertificateVerify)
		if err := s.authenticatePeer(clientCert.Certificate, verify, digestAtClientCert); err != nil {
			return err
		}
		s.transcript.append(envelope)
	}

	msg, envelope, err = s.readHandshakeMessage(wire.TypeFinished)
	if err != nil {
		return err
	}
	finished := msg.(*wire.MessageFinished)
	expected := s.ks.verifyData(s.ks.clientHsTraffic, s.transcript.digest())
	if !hmac.Equal(expected, finished.VerifyData) {
		return ErrFinishedVerification
	}
	s.transcript.append(envelope)
	s.transition(StatePeerAuthenticated)

	s.ks.deriveApplication(s.transcript.atServerFinished)
	s.rl.send.install(s.ks.serverApTraffic)
	s.rl.recv.install(s.ks.clientApTraffic)
	s.ks.dropHandshakeSecrets()
	s.transcript.discard()
	s.transition(StateEstablished)

	return nil
}

// selectSuite returns the first of the server's preferences that the
// client also offered.
func selectSuite(preferences []crypto.SuiteID, offered []uint16) (crypto.SuiteID, error) {
	for _, want := range preferences {
		for _, got := range offered {
			if uint16(want) == got {
				return want, nil
			}
		}
	}
	return 0, ErrNoCommonCipherSuite
}
