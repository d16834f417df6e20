package wire

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

func TestHandshakeEnvelopeRoundTrip(t *testing.T) {
	messages := []Message{
		&MessageClientHello{
			Random:       [RandomLength]byte{1, 2, 3},
			CipherSuites: []uint16{0x1303, 0x1301},
			KeyShare:     bytes.Repeat([]byte{0xAB}, 32),
		},
		&MessageServerHello{
			Random:      [RandomLength]byte{4, 5, 6},
			CipherSuite: 0x1303,
			KeyShare:    bytes.Repeat([]byte{0xCD}, 32),
		},
		&MessageCertificate{
			Certificate: [][]byte{{0x30, 0x82, 0x01}, {0x30, 0x82, 0x02, 0x03}},
		},
		&MessageCertificateVerify{
			Scheme:    SchemeEd25519,
			Signature: bytes.Repeat([]byte{0xEF}, 64),
		},
		&MessageFinished{
			VerifyData: bytes.Repeat([]byte{0x11}, 32),
		},
		&MessageKeyUpdate{UpdateRequested: true},
	}

	for _, msg := range messages {
		raw, err := (&Handshake{Message: msg}).Marshal()
		if err != nil {
			t.Fatalf("%s: %v", msg.MessageType(), err)
		}

		out := &Handshake{}
		if err := out.Unmarshal(raw); err != nil {
			t.Fatalf("%s: %v", msg.MessageType(), err)
		}
		if !reflect.DeepEqual(out.Message, msg) {
			t.Fatalf("%s: round trip mismatch\n got %+v\nwant %+v", msg.MessageType(), out.Message, msg)
		}
	}
}

func TestHandshakeRejectsUnknownType(t *testing.T) {
	raw, err := (&Handshake{Message: &MessageFinished{VerifyData: []byte{1}}}).Marshal()
	if err != nil {
		t.Fatal(err)
	}
	raw[0] = 0xEE

	if err := (&Handshake{}).Unmarshal(raw); !errors.Is(err, errInvalidMessageType) {
		t.Fatalf("got %v, want %v", err, errInvalidMessageType)
	}
}

func TestHandshakeRejectsLengthMismatch(t *testing.T) {
	raw, err := (&Handshake{Message: &MessageKeyUpdate{}}).Marshal()
	if err != nil {
		t.Fatal(err)
	}

	if err := (&Handshake{}).Unmarshal(append(raw, 0)); !errors.Is(err, errLengthMismatch) {
		t.Fatalf("got %v, want %v", err, errLengthMismatch)
	}
}

func TestClientHelloRejectsTrailingBytes(t *testing.T) {
	raw, err := (&MessageClientHello{
		CipherSuites: []uint16{0x1301},
		KeyShare:     bytes.Repeat([]byte{1}, 32),
	}).Marshal()
	if err != nil {
		t.Fatal(err)
	}

	if err := (&MessageClientHello{}).Unmarshal(append(raw, 0)); !errors.Is(err, errLengthMismatch) {
		t.Fatalf("got %v, want %v", err, errLengthMismatch)
	}
}

func TestCipherSuiteIDsRejectOddLength(t *testing.T) {
	if _, _, err := decodeCipherSuiteIDs([]byte{0x00, 0x03, 0x13, 0x01, 0x13}); err == nil {
		t.Fatal("odd suite list length accepted")
	}
}

func TestKeyUpdateRejectsInvalidFlag(t *testing.T) {
	if err := (&MessageKeyUpdate{}).Unmarshal([]byte{2}); err == nil {
		t.Fatal("invalid key update flag accepted")
	}
}
