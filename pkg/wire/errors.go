package wire

import "errors"

var (
	errSequenceNumberOverflow = errors.New("sequence number overflow")
	errBufferTooSmall         = errors.New("buffer too small")
	errUnsupportedVersion     = errors.New("unsupported protocol version")
	errInvalidContentType     = errors.New("invalid content type")
	errInvalidMessageType     = errors.New("invalid handshake message type")
	errLengthMismatch         = errors.New("length mismatch")
	errKeyShareTooLong        = errors.New("key share too long")
	errSignatureTooLong       = errors.New("signature too long")
	errHandshakeMessageUnset  = errors.New("handshake message unset")
)
