package wire

import (
	"encoding/binary"

	"github.com/seamproto/seam/pkg/util"
)

const (
	// RecordHeaderSize is contentType(1) + version(2) + sequence(6) + length(2).
	RecordHeaderSize = 11

	// MaxSequenceNumber is the largest sequence number a uint48 header
	// field can carry; sealing past it must fail.
	MaxSequenceNumber = 0x0000FFFFFFFFFFFF

	// MaxPayloadSize bounds a single record's payload (the length field
	// is a uint16).
	MaxPayloadSize = 1<<16 - 1
)

// RecordHeader frames every record. It is transmitted in the clear and
// bound to the payload as AEAD associated data, so a tampered header fails
// authentication just like a tampered payload.
type RecordHeader struct {
	ContentType    ContentType
	Version        ProtocolVersion
	SequenceNumber uint64 // uint48 on the wire
	PayloadLength  uint16
}

func (h *RecordHeader) Marshal() ([]byte, error) {
	if h.SequenceNumber > MaxSequenceNumber {
		return nil, errSequenceNumberOverflow
	}

	out := make([]byte, RecordHeaderSize)
	out[0] = byte(h.ContentType)
	binary.BigEndian.PutUint16(out[1:], uint16(h.Version))
	util.BigEndian.PutUint48(out[3:], h.SequenceNumber)
	binary.BigEndian.PutUint16(out[9:], h.PayloadLength)

	return out, nil
}

func (h *RecordHeader) Unmarshal(data []byte) error {
	if len(data) < RecordHeaderSize {
		return errBufferTooSmall
	}

	h.ContentType = ContentType(data[0])
	switch h.ContentType {
	case ContentTypeAlert, ContentTypeHandshake, ContentTypeApplicationData:
	default:
		return errInvalidContentType
	}

	h.Version = ProtocolVersion(binary.BigEndian.Uint16(data[1:]))
	if h.Version != Version1 {
		return errUnsupportedVersion
	}

	h.SequenceNumber = util.BigEndian.Uint48(data[3:])
	h.PayloadLength = binary.BigEndian.Uint16(data[9:])

	return nil
}

// Record is a framed payload. During the handshake the payload is a
// marshaled Content in the clear; once traffic keys are installed it is
// AEAD ciphertext and opaque at this layer.
type Record struct {
	Header  RecordHeader
	Payload []byte
}

func (r *Record) Marshal() ([]byte, error) {
	if len(r.Payload) > MaxPayloadSize {
		return nil, errLengthMismatch
	}
	r.Header.PayloadLength = uint16(len(r.Payload))

	header, err := r.Header.Marshal()
	if err != nil {
		return nil, err
	}
	return append(header, r.Payload...), nil
}

func (r *Record) Unmarshal(data []byte) error {
	if err := r.Header.Unmarshal(data); err != nil {
		return err
	}
	if len(data)-RecordHeaderSize != int(r.Header.PayloadLength) {
		return errLengthMismatch
	}
	r.Payload = append([]byte{}, data[RecordHeaderSize:]...)
	return nil
}
