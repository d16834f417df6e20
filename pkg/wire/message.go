package wire

type MessageType uint8

const (
	TypeClientHello       MessageType = 1
	TypeServerHello       MessageType = 2
	TypeCertificate       MessageType = 11
	TypeCertificateVerify MessageType = 15
	TypeFinished          MessageType = 20
	TypeKeyUpdate         MessageType = 24
)

func (t MessageType) String() string {
	switch t {
	case TypeClientHello:
		return "ClientHello"
	case TypeServerHello:
		return "ServerHello"
	case TypeCertificate:
		return "Certificate"
	case TypeCertificateVerify:
		return "CertificateVerify"
	case TypeFinished:
		return "Finished"
	case TypeKeyUpdate:
		return "KeyUpdate"
	default:
		return "Unknown"
	}
}

// Message is one variant of the handshake tagged union.
type Message interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
	MessageType() MessageType
}
