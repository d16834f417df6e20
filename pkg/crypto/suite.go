package crypto

// SuiteID names a cipher suite on the wire. The values reuse the TLS 1.3
// code points for the same primitives purely for familiarity; the protocol
// itself is not TLS.
type SuiteID uint16

const (
	SuiteAES128GCMSHA256        SuiteID = 0x1301
	SuiteCHACHA20POLY1305SHA256 SuiteID = 0x1303
)

func (s SuiteID) String() string {
	switch s {
	case SuiteAES128GCMSHA256:
		return "AES_128_GCM_SHA256"
	case SuiteCHACHA20POLY1305SHA256:
		return "CHACHA20_POLY1305_SHA256"
	default:
		return "Unknown"
	}
}

// DefaultSuites is the preference order used when a config names none.
var DefaultSuites = []SuiteID{
	SuiteCHACHA20POLY1305SHA256,
	SuiteAES128GCMSHA256,
}
