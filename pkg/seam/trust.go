package seam

import (
	"crypto/ed25519"
	"crypto/x509"
	"time"

	"github.com/seamproto/seam/pkg/wire"
)

// TrustOracle answers whether a peer's raw DER chain (leaf first) is
// acceptable. Path building, revocation, and policy live behind this
// boundary.
type TrustOracle interface {
	IsTrusted(chain [][]byte) bool
}

// PoolOracle verifies the chain against an x509 root pool, treating any
// non-leaf certificates as intermediates. A nil pool trusts nothing.
type PoolOracle struct {
	Roots *x509.CertPool
}

func (o *PoolOracle) IsTrusted(chain [][]byte) bool {
	if o.Roots == nil {
		return false
	}
	certs, err := parseCertificates(chain)
	if err != nil {
		return false
	}

	intermediates := x509.NewCertPool()
	for _, cert := range certs[1:] {
		intermediates.AddCert(cert)
	}
	_, err = certs[0].Verify(x509.VerifyOptions{
		Roots:         o.Roots,
		Intermediates: intermediates,
		CurrentTime:   time.Now(),
	})
	return err == nil
}

// insecureOracle accepts everything. Wired only through
// Config.InsecureSkipVerify.
type insecureOracle struct{}

func (insecureOracle) IsTrusted([][]byte) bool { return true }

func parseCertificates(chain [][]byte) ([]*x509.Certificate, error) {
	if len(chain) == 0 {
		return nil, ErrCertificateInvalid
	}
	certs := make([]*x509.Certificate, 0, len(chain))
	for _, raw := range chain {
		cert, err := x509.ParseCertificate(raw)
		if err != nil {
			return nil, err
		}
		certs = append(certs, cert)
	}
	return certs, nil
}

// signTranscript produces the CertificateVerify signature over the
// transcript digest up to and including the Certificate message.
func signTranscript(key ed25519.PrivateKey, digest []byte) *wire.MessageCertificateVerify {
	return &wire.MessageCertificateVerify{
		Scheme:    wire.SchemeEd25519,
		Signature: ed25519.Sign(key, digest),
	}
}

// verifyTranscriptSignature checks a CertificateVerify against the leaf
// certificate's public key.
func verifyTranscriptSignature(chain [][]byte, verify *wire.MessageCertificateVerify, digest []byte) error {
	if verify.Scheme != wire.SchemeEd25519 {
		return ErrSignatureInvalid
	}
	leaf, err := x509.ParseCertificate(chain[0])
	if err != nil {
		return ErrCertificateInvalid
	}
	pub, ok := leaf.PublicKey.(ed25519.PublicKey)
	if !ok {
		return ErrSignatureInvalid
	}
	if !ed25519.Verify(pub, digest, verify.Signature) {
		return ErrSignatureInvalid
	}
	return nil
}
