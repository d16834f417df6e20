package seam

import (
	"github.com/seamproto/seam/pkg/crypto"
)

// Derivation labels. Each secret in the chain carries its own label so no
// derived value can be confused for another purpose.
const (
	labelHandshakeDerive = "handshake derive"
	labelClientHsTraffic = "c hs traffic"
	labelServerHsTraffic = "s hs traffic"
	labelDerived         = "derived"
	labelClientApTraffic = "c ap traffic"
	labelServerApTraffic = "s ap traffic"
	labelTrafficUpdate   = "traffic upd"
	labelKey             = "key"
	labelIV              = "iv"
)

// keySchedule holds the evolving secret chain:
//
//	sharedSecret -> handshakeSecret -> masterSecret -> {client,server}AppSecret
//
// Secrets are overwritten, not appended, as the schedule advances, and the
// whole chain is wiped on close.
type keySchedule struct {
	provider crypto.Provider

	handshakeSecret []byte
	masterSecret    []byte

	clientHsTraffic []byte
	serverHsTraffic []byte
	clientApTraffic []byte
	serverApTraffic []byte
}

func newKeySchedule(p crypto.Provider) *keySchedule {
	return &keySchedule{provider: p}
}

// deriveSecret is one labeled KDF step: HMAC(secret, label || 0x00 || context).
// It is pure and cannot fail; an empty input secret is a programming error.
func deriveSecret(p crypto.Provider, secret []byte, label string, context []byte) []byte {
	if len(secret) == 0 {
		panic("seam: key schedule derivation from empty secret")
	}
	data := make([]byte, 0, len(label)+1+len(context))
	data = append(data, label...)
	data = append(data, 0)
	data = append(data, context...)
	return p.HMAC(secret, data)
}

// expandKey produces exact-length key material from a traffic secret: the
// HKDF-Expand construction (RFC 5869) built on the provider's HMAC, so a
// substituted provider carries the expansion step too.
func expandKey(p crypto.Provider, secret []byte, label string, length int) []byte {
	if len(secret) == 0 {
		panic("seam: key expansion from empty secret")
	}

	info := []byte("seam " + label)
	out := make([]byte, 0, length+p.HashLen())
	var block []byte
	for counter := byte(1); len(out) < length; counter++ {
		data := make([]byte, 0, len(block)+len(info)+1)
		data = append(data, block...)
		data = append(data, info...)
		data = append(data, counter)
		block = p.HMAC(secret, data)
		out = append(out, block...)
	}
	return out[:length]
}

// deriveHandshake consumes the key-exchange shared secret and the
// transcript digest at ServerHello (schedule steps 1-2).
func (ks *keySchedule) deriveHandshake(sharedSecret, digestAtServerHello []byte) {
	ks.handshakeSecret = deriveSecret(ks.provider, sharedSecret, labelHandshakeDerive, digestAtServerHello)
	ks.clientHsTraffic = deriveSecret(ks.provider, ks.handshakeSecret, labelClientHsTraffic, digestAtServerHello)
	ks.serverHsTraffic = deriveSecret(ks.provider, ks.handshakeSecret, labelServerHsTraffic, digestAtServerHello)
}

// deriveApplication advances to the master secret and the application
// traffic secrets (schedule steps 3-4). The handshake traffic secrets stay
// alive only as long as Finished verification needs them.
func (ks *keySchedule) deriveApplication(digestAtServerFinished []byte) {
	ks.masterSecret = deriveSecret(ks.provider, ks.handshakeSecret, labelDerived, nil)
	ks.clientApTraffic = deriveSecret(ks.provider, ks.masterSecret, labelClientApTraffic, digestAtServerFinished)
	ks.serverApTraffic = deriveSecret(ks.provider, ks.masterSecret, labelServerApTraffic, digestAtServerFinished)
}

// verifyData computes a Finished MAC over a transcript digest.
func (ks *keySchedule) verifyData(trafficSecret, transcriptDigest []byte) []byte {
	return ks.provider.HMAC(trafficSecret, transcriptDigest)
}

// nextTrafficSecret rolls a traffic secret forward for KeyUpdate.
func nextTrafficSecret(p crypto.Provider, secret []byte) []byte {
	return deriveSecret(p, secret, labelTrafficUpdate, nil)
}

// trafficKeys expands a traffic secret into the AEAD key and IV.
func trafficKeys(p crypto.Provider, secret []byte) (key, iv []byte) {
	return expandKey(p, secret, labelKey, p.KeyLen()), expandKey(p, secret, labelIV, p.IVLen())
}

// dropHandshakeSecrets wipes everything only the handshake phase needed.
func (ks *keySchedule) dropHandshakeSecrets() {
	crypto.Zero(ks.handshakeSecret)
	crypto.Zero(ks.clientHsTraffic)
	crypto.Zero(ks.serverHsTraffic)
	crypto.Zero(ks.masterSecret)
	ks.handshakeSecret = nil
	ks.clientHsTraffic = nil
	ks.serverHsTraffic = nil
	ks.masterSecret = nil
}

// zeroize wipes the whole chain.
func (ks *keySchedule) zeroize() {
	ks.dropHandshakeSecrets()
	crypto.Zero(ks.clientApTraffic)
	crypto.Zero(ks.serverApTraffic)
	ks.clientApTraffic = nil
	ks.serverApTraffic = nil
}
