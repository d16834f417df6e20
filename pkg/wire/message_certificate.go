package wire

import (
	"github.com/seamproto/seam/pkg/util"
)

const certificateLengthFieldSize = 3

// MessageCertificate carries a raw DER certificate chain, leaf first.
type MessageCertificate struct {
	Certificate [][]byte
}

func (m *MessageCertificate) Marshal() ([]byte, error) {
	out := make([]byte, certificateLengthFieldSize)

	for _, c := range m.Certificate {
		out = util.BigEndian.AppendUint24(out, uint32(len(c)))
		out = append(out, c...)
	}

	util.BigEndian.PutUint24(out[0:3], uint32(len(out)-certificateLengthFieldSize))
	return out, nil
}

func (m *MessageCertificate) Unmarshal(data []byte) error {
	if len(data) < certificateLengthFieldSize {
		return errBufferTooSmall
	}
	if bodyLen := int(util.BigEndian.Uint24(data)); bodyLen+certificateLengthFieldSize != len(data) {
		return errLengthMismatch
	}

	offset := certificateLengthFieldSize
	for offset < len(data) {
		if offset+certificateLengthFieldSize > len(data) {
			return errLengthMismatch
		}
		certLen := int(util.BigEndian.Uint24(data[offset:]))
		offset += certificateLengthFieldSize

		if offset+certLen > len(data) {
			return errLengthMismatch
		}
		m.Certificate = append(m.Certificate, append([]byte{}, data[offset:offset+certLen]...))
		offset += certLen
	}

	return nil
}

func (m *MessageCertificate) MessageType() MessageType {
	return TypeCertificate
}
