package crypto

import (
	"errors"

	"github.com/pion/dtls/v2/pkg/crypto/elliptic"
	"github.com/pion/dtls/v2/pkg/crypto/prf"
	"golang.org/x/crypto/curve25519"
)

const KeyShareLength = 32

var errBadPeerShare = errors.New("peer key share has wrong length")

// KeyShare is one side's ephemeral X25519 key pair. The private scalar is
// drawn from the session's Provider so a mocked provider yields a fully
// deterministic handshake.
type KeyShare struct {
	PrivateKey []byte
	PublicKey  []byte
}

// GenerateKeyShare creates an ephemeral X25519 key pair from p's entropy.
func GenerateKeyShare(p Provider) (*KeyShare, error) {
	priv, err := p.RandomBytes(KeyShareLength)
	if err != nil {
		return nil, err
	}
	priv[0] &= 248
	priv[31] &= 127
	priv[31] |= 64

	pub, err := curve25519.X25519(priv, curve25519.Basepoint)
	if err != nil {
		return nil, err
	}

	return &KeyShare{PrivateKey: priv, PublicKey: pub}, nil
}

// SharedSecret combines the local private scalar with the peer's public
// share. Both sides arrive at the same 32-byte secret.
func (k *KeyShare) SharedSecret(peerPublic []byte) ([]byte, error) {
	if len(peerPublic) != KeyShareLength {
		return nil, errBadPeerShare
	}
	return prf.PreMasterSecret(peerPublic, k.PrivateKey, elliptic.X25519)
}

// Zeroize wipes the private scalar.
func (k *KeyShare) Zeroize() {
	Zero(k.PrivateKey)
}
