package wire

import "encoding/binary"

// SignatureScheme identifies the algorithm behind a CertificateVerify
// signature. Only Ed25519 is defined today; the field exists so a new
// scheme is a new code point, not a new message.
type SignatureScheme uint16

const SchemeEd25519 SignatureScheme = 0x0807

// MessageCertificateVerify proves possession of the certificate's private
// key: a signature over the transcript digest up to and including the
// Certificate message.
type MessageCertificateVerify struct {
	Scheme    SignatureScheme
	Signature []byte
}

func (m *MessageCertificateVerify) Marshal() ([]byte, error) {
	if len(m.Signature) > 0xFFFF {
		return nil, errSignatureTooLong
	}

	out := make([]byte, 4+len(m.Signature))
	binary.BigEndian.PutUint16(out, uint16(m.Scheme))
	binary.BigEndian.PutUint16(out[2:], uint16(len(m.Signature)))
	copy(out[4:], m.Signature)

	return out, nil
}

func (m *MessageCertificateVerify) Unmarshal(data []byte) error {
	if len(data) < 4 {
		return errBufferTooSmall
	}

	m.Scheme = SignatureScheme(binary.BigEndian.Uint16(data))
	sigLen := int(binary.BigEndian.Uint16(data[2:]))
	if len(data) != sigLen+4 {
		return errLengthMismatch
	}
	m.Signature = append([]byte{}, data[4:]...)

	return nil
}

func (m *MessageCertificateVerify) MessageType() MessageType {
	return TypeCertificateVerify
}
