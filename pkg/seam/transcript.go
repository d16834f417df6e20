package seam

import (
	"github.com/seamproto/seam/pkg/crypto"
)

// transcript accumulates the exact bytes of every handshake envelope in
// exchange order. Both peers must agree bit for bit: signatures and
// Finished MACs are computed over its digests, so any divergence fails
// authentication rather than producing a warning.
type transcript struct {
	provider crypto.Provider
	raw      []byte

	// Checkpoint digests consumed by the key schedule and signatures.
	atServerHello    []byte
	atCertificate    []byte
	atServerFinished []byte
}

func newTranscript(p crypto.Provider) *transcript {
	return &transcript{provider: p}
}

// setProvider swaps in the negotiated suite's provider. The hash must not
// change mid-handshake; both defined suites share SHA-256.
func (t *transcript) setProvider(p crypto.Provider) {
	t.provider = p
}

func (t *transcript) append(envelope []byte) {
	t.raw = append(t.raw, envelope...)
}

// digest hashes everything appended so far.
func (t *transcript) digest() []byte {
	return t.provider.Hash(t.raw)
}

func (t *transcript) markServerHello()    { t.atServerHello = t.digest() }
func (t *transcript) markCertificate()    { t.atCertificate = t.digest() }
func (t *transcript) markServerFinished() { t.atServerFinished = t.digest() }

// discard drops the raw transcript once the handshake completes, keeping
// only the checkpoint digests.
func (t *transcript) discard() {
	crypto.Zero(t.raw)
	t.raw = nil
}
