package seam

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seamproto/seam/pkg/crypto"
)

func testProvider(t *testing.T) crypto.Provider {
	t.Helper()
	p, err := crypto.ProviderFor(crypto.SuiteCHACHA20POLY1305SHA256)
	require.NoError(t, err)
	return p
}

func TestKeyScheduleIsDeterministic(t *testing.T) {
	p := testProvider(t)
	shared := bytes.Repeat([]byte{0x42}, 32)
	digestSH := p.Hash([]byte("hello transcript"))
	digestSF := p.Hash([]byte("finished transcript"))

	derive := func() *keySchedule {
		ks := newKeySchedule(p)
		ks.deriveHandshake(shared, digestSH)
		ks.deriveApplication(digestSF)
		return ks
	}

	a, b := derive(), derive()
	assert.Equal(t, a.clientHsTraffic, b.clientHsTraffic)
	assert.Equal(t, a.serverHsTraffic, b.serverHsTraffic)
	assert.Equal(t, a.clientApTraffic, b.clientApTraffic)
	assert.Equal(t, a.serverApTraffic, b.serverApTraffic)
}

func TestKeyScheduleSecretsAreDistinct(t *testing.T) {
	p := testProvider(t)
	ks := newKeySchedule(p)
	ks.deriveHandshake(bytes.Repeat([]byte{1}, 32), p.Hash([]byte("sh")))
	ks.deriveApplication(p.Hash([]byte("sf")))

	secrets := [][]byte{
		ks.handshakeSecret,
		ks.masterSecret,
		ks.clientHsTraffic,
		ks.serverHsTraffic,
		ks.clientApTraffic,
		ks.serverApTraffic,
	}
	for i := range secrets {
		assert.Len(t, secrets[i], p.HashLen())
		for j := i + 1; j < len(secrets); j++ {
			assert.NotEqual(t, secrets[i], secrets[j], "secrets %d and %d collide", i, j)
		}
	}
}

func TestKeyScheduleContextBindsSecrets(t *testing.T) {
	p := testProvider(t)
	shared := bytes.Repeat([]byte{7}, 32)

	a := newKeySchedule(p)
	a.deriveHandshake(shared, p.Hash([]byte("transcript one")))
	b := newKeySchedule(p)
	b.deriveHandshake(shared, p.Hash([]byte("transcript two")))

	assert.NotEqual(t, a.clientHsTraffic, b.clientHsTraffic)
	assert.NotEqual(t, a.serverHsTraffic, b.serverHsTraffic)
}

func TestTrafficKeysLengths(t *testing.T) {
	p := testProvider(t)
	secret := p.Hash([]byte("traffic secret"))

	key, iv := trafficKeys(p, secret)
	assert.Len(t, key, p.KeyLen())
	assert.Len(t, iv, p.IVLen())
	assert.NotEqual(t, key[:12], iv, "key and iv expansion collide")
}

func TestNextTrafficSecretAdvances(t *testing.T) {
	p := testProvider(t)
	secret := p.Hash([]byte("gen zero"))

	next := nextTrafficSecret(p, secret)
	assert.Len(t, next, p.HashLen())
	assert.NotEqual(t, secret, next)

	// Rolling forward is one-way and deterministic.
	assert.Equal(t, next, nextTrafficSecret(p, secret))
	assert.NotEqual(t, next, nextTrafficSecret(p, next))
}

func TestDropHandshakeSecrets(t *testing.T) {
	p := testProvider(t)
	ks := newKeySchedule(p)
	ks.deriveHandshake(bytes.Repeat([]byte{9}, 32), p.Hash([]byte("sh")))
	ks.deriveApplication(p.Hash([]byte("sf")))

	ks.dropHandshakeSecrets()
	assert.Nil(t, ks.handshakeSecret)
	assert.Nil(t, ks.clientHsTraffic)
	assert.Nil(t, ks.serverHsTraffic)
	assert.Nil(t, ks.masterSecret)
	assert.NotNil(t, ks.clientApTraffic)
	assert.NotNil(t, ks.serverApTraffic)

	ks.zeroize()
	assert.Nil(t, ks.clientApTraffic)
	assert.Nil(t, ks.serverApTraffic)
}

// markedHMACProvider alters the HMAC so tests can tell whether a
// derivation step really went through the injected provider.
type markedHMACProvider struct {
	crypto.Provider
}

func (p *markedHMACProvider) HMAC(key, data []byte) []byte {
	return p.Provider.HMAC(key, append(append([]byte{}, data...), 0xFF))
}

func TestKeyExpansionUsesProviderHMAC(t *testing.T) {
	p := testProvider(t)
	marked := &markedHMACProvider{Provider: p}
	secret := p.Hash([]byte("traffic secret"))

	key, iv := trafficKeys(p, secret)
	markedKey, markedIV := trafficKeys(marked, secret)

	assert.NotEqual(t, key, markedKey)
	assert.NotEqual(t, iv, markedIV)
	assert.Len(t, markedKey, p.KeyLen())
	assert.Len(t, markedIV, p.IVLen())
}

func TestExpandKeyMultiBlock(t *testing.T) {
	p := testProvider(t)
	secret := p.Hash([]byte("long output"))

	// More than two hash blocks, deterministic, prefix-consistent.
	out := expandKey(p, secret, labelKey, 80)
	assert.Len(t, out, 80)
	assert.Equal(t, out, expandKey(p, secret, labelKey, 80))
	assert.Equal(t, out[:16], expandKey(p, secret, labelKey, 16))
	assert.NotEqual(t, out, expandKey(p, secret, labelIV, 80))
}

func TestDeriveSecretPanicsOnEmptySecret(t *testing.T) {
	p := testProvider(t)
	assert.Panics(t, func() { deriveSecret(p, nil, labelDerived, nil) })
}
