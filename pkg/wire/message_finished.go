package wire

// MessageFinished closes one side's handshake: an HMAC over the transcript
// digest keyed with that side's handshake traffic secret.
type MessageFinished struct {
	VerifyData []byte
}

func (m *MessageFinished) Marshal() ([]byte, error) {
	return append([]byte{}, m.VerifyData...), nil
}

func (m *MessageFinished) Unmarshal(data []byte) error {
	m.VerifyData = append([]byte{}, data...)
	return nil
}

func (m *MessageFinished) MessageType() MessageType {
	return TypeFinished
}
