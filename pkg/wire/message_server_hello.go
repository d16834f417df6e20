package wire

import "encoding/binary"

// MessageServerHello answers a ClientHello: the server's random, the single
// cipher suite it selected, and its ephemeral key-exchange share.
type MessageServerHello struct {
	Random      [RandomLength]byte
	CipherSuite uint16
	KeyShare    []byte
}

func (m *MessageServerHello) Marshal() ([]byte, error) {
	if len(m.KeyShare) > 0xFF {
		return nil, errKeyShareTooLong
	}

	out := make([]byte, RandomLength)
	copy(out, m.Random[:])
	out = binary.BigEndian.AppendUint16(out, m.CipherSuite)
	out = append(out, byte(len(m.KeyShare)))
	out = append(out, m.KeyShare...)

	return out, nil
}

func (m *MessageServerHello) Unmarshal(data []byte) error {
	if len(data) < RandomLength+3 {
		return errBufferTooSmall
	}
	copy(m.Random[:], data)
	offset := RandomLength

	m.CipherSuite = binary.BigEndian.Uint16(data[offset:])
	offset += 2

	shareLen := int(data[offset])
	offset++
	if len(data) != offset+shareLen {
		return errLengthMismatch
	}
	m.KeyShare = append([]byte{}, data[offset:offset+shareLen]...)

	return nil
}

func (m *MessageServerHello) MessageType() MessageType {
	return TypeServerHello
}
