package wire

// RandomLength is the size of the hello nonces.
const RandomLength = 32

// MessageClientHello opens the handshake: the client's random, its cipher
// suites in preference order, and its ephemeral key-exchange share.
type MessageClientHello struct {
	Random       [RandomLength]byte
	CipherSuites []uint16
	KeyShare     []byte
}

func (m *MessageClientHello) Marshal() ([]byte, error) {
	if len(m.KeyShare) > 0xFF {
		return nil, errKeyShareTooLong
	}

	out := make([]byte, RandomLength)
	copy(out, m.Random[:])
	out = append(out, encodeCipherSuiteIDs(m.CipherSuites)...)
	out = append(out, byte(len(m.KeyShare)))
	out = append(out, m.KeyShare...)

	return out, nil
}

func (m *MessageClientHello) Unmarshal(data []byte) error {
	if len(data) < RandomLength {
		return errBufferTooSmall
	}
	copy(m.Random[:], data)
	offset := RandomLength

	ids, n, err := decodeCipherSuiteIDs(data[offset:])
	if err != nil {
		return err
	}
	m.CipherSuites = ids
	offset += n

	if len(data) < offset+1 {
		return errBufferTooSmall
	}
	shareLen := int(data[offset])
	offset++
	if len(data) != offset+shareLen {
		return errLengthMismatch
	}
	m.KeyShare = append([]byte{}, data[offset:offset+shareLen]...)

	return nil
}

func (m *MessageClientHello) MessageType() MessageType {
	return TypeClientHello
}
