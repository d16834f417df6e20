package seam

import (
	"github.com/seamproto/seam/pkg/crypto"
	"github.com/seamproto/seam/pkg/wire"
)

// halfConn is one direction of the record stream: the current traffic
// secret, the keys expanded from it, and a strictly monotonic sequence
// number. The sequence never decreases and never repeats under one key;
// it resets to zero only together with a fresh key.
type halfConn struct {
	provider crypto.Provider

	secret []byte
	key    []byte
	iv     []byte
	seq    uint64
}

// install replaces the direction's keys with material expanded from
// secret and resets the sequence.
func (hc *halfConn) install(secret []byte) {
	crypto.Zero(hc.secret)
	crypto.Zero(hc.key)
	crypto.Zero(hc.iv)

	hc.secret = append([]byte{}, secret...)
	hc.key, hc.iv = trafficKeys(hc.provider, hc.secret)
	hc.seq = 0
}

// update rolls the traffic secret forward (KeyUpdate).
func (hc *halfConn) update() {
	next := nextTrafficSecret(hc.provider, hc.secret)
	hc.install(next)
	crypto.Zero(next)
}

// nonce is the IV XORed with the sequence number as a fixed-width
// big-endian value. Sequence uniqueness under one key is what makes each
// nonce unique.
func (hc *halfConn) nonce(seq uint64) []byte {
	out := append([]byte{}, hc.iv...)
	for i := 0; i < 8; i++ {
		out[len(out)-1-i] ^= byte(seq >> (8 * i))
	}
	return out
}

func (hc *halfConn) zeroize() {
	crypto.Zero(hc.secret)
	crypto.Zero(hc.key)
	crypto.Zero(hc.iv)
	hc.secret = nil
	hc.key = nil
	hc.iv = nil
}

// recordLayer seals and opens application-phase records. It may not be
// used before the handshake installs traffic keys.
type recordLayer struct {
	provider crypto.Provider
	send     halfConn
	recv     halfConn
}

func newRecordLayer(p crypto.Provider) *recordLayer {
	return &recordLayer{
		provider: p,
		send:     halfConn{provider: p},
		recv:     halfConn{provider: p},
	}
}

// seal encrypts one payload under the send direction's keys and returns
// the framed record. The sequence number is consumed only after a
// successful seal.
func (rl *recordLayer) seal(contentType wire.ContentType, plaintext []byte) ([]byte, error) {
	if rl.send.seq > wire.MaxSequenceNumber {
		return nil, &RecordError{Err: ErrSequenceOverflow}
	}
	// The header length field is a uint16; a ciphertext it cannot describe
	// must be rejected here, never truncated.
	if len(plaintext)+rl.provider.Overhead() > wire.MaxPayloadSize {
		return nil, &RecordError{Err: ErrPayloadTooLarge}
	}

	header := wire.RecordHeader{
		ContentType:    contentType,
		Version:        wire.Version1,
		SequenceNumber: rl.send.seq,
		PayloadLength:  uint16(len(plaintext) + rl.provider.Overhead()),
	}
	aad, err := header.Marshal()
	if err != nil {
		return nil, &RecordError{Err: err}
	}

	ciphertext, err := rl.provider.Seal(rl.send.key, rl.send.nonce(rl.send.seq), aad, plaintext)
	if err != nil {
		return nil, &RecordError{Err: err}
	}
	rl.send.seq++

	return append(aad, ciphertext...), nil
}

// open authenticates and decrypts one received record. Strict
// expected-next sequence matching: a replayed, reordered, or tampered
// record fails without consuming a sequence number, and the failure is
// fatal to the session.
func (rl *recordLayer) open(data []byte) (wire.ContentType, []byte, error) {
	header := wire.RecordHeader{}
	if err := header.Unmarshal(data); err != nil {
		return 0, nil, &RecordError{Err: ErrRecordAuthentication}
	}
	if int(header.PayloadLength) != len(data)-wire.RecordHeaderSize {
		return 0, nil, &RecordError{Err: ErrRecordAuthentication}
	}
	if header.SequenceNumber != rl.recv.seq {
		return 0, nil, &RecordError{Err: ErrRecordAuthentication}
	}

	aad := data[:wire.RecordHeaderSize]
	plaintext, err := rl.provider.Open(rl.recv.key, rl.recv.nonce(rl.recv.seq), aad, data[wire.RecordHeaderSize:])
	if err != nil {
		return 0, nil, &RecordError{Err: ErrRecordAuthentication}
	}
	rl.recv.seq++

	return header.ContentType, plaintext, nil
}

func (rl *recordLayer) zeroize() {
	rl.send.zeroize()
	rl.recv.zeroize()
}
