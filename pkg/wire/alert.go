package wire

type Level byte

const (
	Warning Level = 1
	Fatal   Level = 2
)

func (l Level) String() string {
	switch l {
	case Warning:
		return "Warning"
	case Fatal:
		return "Fatal"
	default:
		return "Invalid Alert Level"
	}
}

type Description byte

const (
	CloseNotify           Description = 0
	UnexpectedMessage     Description = 10
	BadRecordMAC          Description = 20
	HandshakeFailure      Description = 40
	BadCertificate        Description = 42
	DecodeError           Description = 50
	DecryptError          Description = 51
	InsufficientSecurity  Description = 71
	InternalError         Description = 80
	UserCanceled          Description = 90
	AuthenticationFailure Description = 121
)

func (d Description) String() string {
	switch d {
	case CloseNotify:
		return "CloseNotify"
	case UnexpectedMessage:
		return "UnexpectedMessage"
	case BadRecordMAC:
		return "BadRecordMAC"
	case HandshakeFailure:
		return "HandshakeFailure"
	case BadCertificate:
		return "BadCertificate"
	case DecodeError:
		return "DecodeError"
	case DecryptError:
		return "DecryptError"
	case InsufficientSecurity:
		return "InsufficientSecurity"
	case InternalError:
		return "InternalError"
	case UserCanceled:
		return "UserCanceled"
	case AuthenticationFailure:
		return "AuthenticationFailure"
	default:
		return "Invalid alert description"
	}
}

// Alert tells the peer why the connection is ending. A Fatal alert forces
// immediate closure on both sides.
type Alert struct {
	Level       Level
	Description Description
}

func (a *Alert) Marshal() ([]byte, error) {
	return []byte{byte(a.Level), byte(a.Description)}, nil
}

func (a *Alert) Unmarshal(data []byte) error {
	if len(data) < 2 {
		return errBufferTooSmall
	}

	a.Level = Level(data[0])
	a.Description = Description(data[1])

	return nil
}

func (a *Alert) ContentType() ContentType {
	return ContentTypeAlert
}
