package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"errors"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	// ErrAEADOpen is returned by Open for any authentication failure.
	// Callers treat it as fatal to the connection.
	ErrAEADOpen = errors.New("aead authentication failed")

	ErrUnknownSuite  = errors.New("unknown cipher suite")
	errBadKeyLength  = errors.New("bad aead key length")
	errBadIVLength   = errors.New("bad aead nonce length")
	errEntropySource = errors.New("entropy source failed")
)

// Provider supplies every cryptographic primitive a session consumes:
// entropy, hashing, HMAC, and one AEAD. Implementations must be stateless
// or internally thread-safe; a single Provider is shared read-only across
// sessions.
type Provider interface {
	RandomBytes(n int) ([]byte, error)
	Hash(data []byte) []byte
	HMAC(key, data []byte) []byte
	Seal(key, nonce, aad, plaintext []byte) ([]byte, error)
	Open(key, nonce, aad, ciphertext []byte) ([]byte, error)

	HashLen() int
	KeyLen() int
	IVLen() int
	Overhead() int
}

// ProviderFactory resolves a negotiated suite to a Provider. Configs may
// override it to inject deterministic providers in tests.
type ProviderFactory func(id SuiteID) (Provider, error)

// ProviderFor is the standard factory covering every suite in DefaultSuites.
func ProviderFor(id SuiteID) (Provider, error) {
	switch id {
	case SuiteAES128GCMSHA256:
		return &stdProvider{
			newAEAD: newAESGCM,
			keyLen:  16,
			ivLen:   12,
		}, nil
	case SuiteCHACHA20POLY1305SHA256:
		return &stdProvider{
			newAEAD: chacha20poly1305.New,
			keyLen:  chacha20poly1305.KeySize,
			ivLen:   chacha20poly1305.NonceSize,
		}, nil
	default:
		return nil, ErrUnknownSuite
	}
}

func newAESGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// stdProvider is SHA-256 hashing/HMAC, crypto/rand entropy, and a
// per-suite AEAD constructor.
type stdProvider struct {
	newAEAD func(key []byte) (cipher.AEAD, error)
	keyLen  int
	ivLen   int
}

func (p *stdProvider) RandomBytes(n int) ([]byte, error) {
	out := make([]byte, n)
	if _, err := rand.Read(out); err != nil {
		return nil, errEntropySource
	}
	return out, nil
}

func (p *stdProvider) Hash(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

func (p *stdProvider) HMAC(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

func (p *stdProvider) Seal(key, nonce, aad, plaintext []byte) ([]byte, error) {
	aead, err := p.aead(key, nonce)
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, nonce, plaintext, aad), nil
}

func (p *stdProvider) Open(key, nonce, aad, ciphertext []byte) ([]byte, error) {
	aead, err := p.aead(key, nonce)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, ErrAEADOpen
	}
	return plaintext, nil
}

func (p *stdProvider) aead(key, nonce []byte) (cipher.AEAD, error) {
	if len(key) != p.keyLen {
		return nil, errBadKeyLength
	}
	if len(nonce) != p.ivLen {
		return nil, errBadIVLength
	}
	return p.newAEAD(key)
}

func (p *stdProvider) HashLen() int  { return sha256.Size }
func (p *stdProvider) KeyLen() int   { return p.keyLen }
func (p *stdProvider) IVLen() int    { return p.ivLen }
func (p *stdProvider) Overhead() int { return 16 }
