package wire

import (
	"github.com/seamproto/seam/pkg/util"
)

// HandshakeHeaderSize is messageType(1) + length(uint24).
const HandshakeHeaderSize = 4

// Handshake is the envelope for one handshake message: a type discriminant
// and a uint24 length followed by the message body. The marshaled envelope
// bytes are exactly what the transcript records.
type Handshake struct {
	Message Message
}

func (h *Handshake) Marshal() ([]byte, error) {
	if h.Message == nil {
		return nil, errHandshakeMessageUnset
	}

	body, err := h.Message.Marshal()
	if err != nil {
		return nil, err
	}

	out := make([]byte, HandshakeHeaderSize, HandshakeHeaderSize+len(body))
	out[0] = byte(h.Message.MessageType())
	util.BigEndian.PutUint24(out[1:], uint32(len(body)))
	return append(out, body...), nil
}

func (h *Handshake) Unmarshal(data []byte) error {
	if len(data) < HandshakeHeaderSize {
		return errBufferTooSmall
	}

	reportedLen := util.BigEndian.Uint24(data[1:])
	if uint32(len(data)-HandshakeHeaderSize) != reportedLen {
		return errLengthMismatch
	}

	switch MessageType(data[0]) {
	case TypeClientHello:
		h.Message = &MessageClientHello{}
	case TypeServerHello:
		h.Message = &MessageServerHello{}
	case TypeCertificate:
		h.Message = &MessageCertificate{}
	case TypeCertificateVerify:
		h.Message = &MessageCertificateVerify{}
	case TypeFinished:
		h.Message = &MessageFinished{}
	case TypeKeyUpdate:
		h.Message = &MessageKeyUpdate{}
	default:
		return errInvalidMessageType
	}

	return h.Message.Unmarshal(data[HandshakeHeaderSize:])
}

func (h *Handshake) ContentType() ContentType {
	return ContentTypeHandshake
}
