package wire

// MessageKeyUpdate rotates the sender's traffic keys after the handshake.
// When UpdateRequested is set the receiver answers with its own KeyUpdate.
type MessageKeyUpdate struct {
	UpdateRequested bool
}

func (m *MessageKeyUpdate) Marshal() ([]byte, error) {
	if m.UpdateRequested {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}

func (m *MessageKeyUpdate) Unmarshal(data []byte) error {
	if len(data) != 1 {
		return errLengthMismatch
	}
	switch data[0] {
	case 0:
		m.UpdateRequested = false
	case 1:
		m.UpdateRequested = true
	default:
		return errInvalidMessageType
	}
	return nil
}

func (m *MessageKeyUpdate) MessageType() MessageType {
	return TypeKeyUpdate
}
