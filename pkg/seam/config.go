package seam

import (
	"crypto/ed25519"
	"crypto/x509"

	"github.com/seamproto/seam/pkg/crypto"
)

// Config carries everything a session needs beyond its transport.
// The zero value is usable for a client that only wants an authenticated
// server and the default suites.
type Config struct {
	// Suites is the cipher-suite preference order. Empty means
	// crypto.DefaultSuites.
	Suites []crypto.SuiteID

	// RequireMutualAuth demands a client certificate. Both peers must be
	// configured identically; there is no in-band negotiation of it.
	RequireMutualAuth bool

	// Certificate is the local DER chain, leaf first. Required for
	// servers, and for clients when RequireMutualAuth is set.
	Certificate [][]byte

	// PrivateKey signs the CertificateVerify message for Certificate.
	PrivateKey ed25519.PrivateKey

	// TrustOracle decides whether a peer chain is acceptable. When nil,
	// RootCAs is consulted; when that is nil too, every handshake that
	// must authenticate a peer fails closed.
	TrustOracle TrustOracle

	// RootCAs backs the default pool oracle.
	RootCAs *x509.CertPool

	// InsecureSkipVerify accepts any peer chain. Test and demo use only.
	InsecureSkipVerify bool

	// ProviderFor overrides the primitive provider per suite, e.g. to
	// inject a deterministic provider in tests.
	ProviderFor crypto.ProviderFactory
}

func (c *Config) suites() []crypto.SuiteID {
	if len(c.Suites) == 0 {
		return crypto.DefaultSuites
	}
	return c.Suites
}

func (c *Config) providerFor(id crypto.SuiteID) (crypto.Provider, error) {
	if c.ProviderFor != nil {
		return c.ProviderFor(id)
	}
	return crypto.ProviderFor(id)
}

func (c *Config) oracle() TrustOracle {
	if c.TrustOracle != nil {
		return c.TrustOracle
	}
	if c.InsecureSkipVerify {
		return insecureOracle{}
	}
	return &PoolOracle{Roots: c.RootCAs}
}

// supports reports whether id is in the local preference list.
func (c *Config) supports(id uint16) bool {
	for _, s := range c.suites() {
		if uint16(s) == id {
			return true
		}
	}
	return false
}
