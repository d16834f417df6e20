package crypto

import "crypto/subtle"

// Zero overwrites b with zeros. Closing a session must leave no key
// material behind in its buffers.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	zero := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zero)
}
