package wire

// ProtocolVersion identifies the protocol revision carried in every record
// header. There is exactly one today; peers reject anything else.
type ProtocolVersion uint16

const Version1 ProtocolVersion = 0x5301

type ContentType uint8

const (
	ContentTypeAlert           ContentType = 21
	ContentTypeHandshake       ContentType = 22
	ContentTypeApplicationData ContentType = 23
)

func (c ContentType) String() string {
	switch c {
	case ContentTypeAlert:
		return "Alert"
	case ContentTypeHandshake:
		return "Handshake"
	case ContentTypeApplicationData:
		return "ApplicationData"
	default:
		return "Unknown"
	}
}

// Content is a parsed record payload (alert or handshake envelope).
// Application data is opaque and never passes through this interface.
type Content interface {
	ContentType() ContentType
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
}
