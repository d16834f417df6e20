package seam

// State tracks the handshake state machine. Both roles share the enum and
// interpret it per role; Failed is terminal.
type State uint8

const (
	StateStart State = iota
	StateHelloSent
	StateHelloReceived
	StateKeyExchanged
	StatePeerAuthenticated
	StateEstablished
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "Start"
	case StateHelloSent:
		return "HelloSent"
	case StateHelloReceived:
		return "HelloReceived"
	case StateKeyExchanged:
		return "KeyExchanged"
	case StatePeerAuthenticated:
		return "PeerAuthenticated"
	case StateEstablished:
		return "Established"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Role distinguishes the connecting side from the accepting side.
type Role uint8

const (
	RoleClient Role = iota
	RoleServer
)

func (r Role) String() string {
	if r == RoleClient {
		return "client"
	}
	return "server"
}
