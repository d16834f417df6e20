package seam

import (
	"io"

	"github.com/seamproto/seam/pkg/wire"
)

// Transport delivers whole records over a reliable, ordered byte channel.
// Loss and reordering handling is the transport's problem, not this
// protocol's.
type Transport interface {
	Send(record []byte) error
	Receive() ([]byte, error)
}

// StreamTransport frames records over any reliable byte stream (TCP,
// net.Pipe, ...). Records are self-delimiting: the fixed header carries
// the payload length.
type StreamTransport struct {
	rw io.ReadWriteCloser
}

func NewStreamTransport(rw io.ReadWriteCloser) *StreamTransport {
	return &StreamTransport{rw: rw}
}

func (t *StreamTransport) Send(record []byte) error {
	_, err := t.rw.Write(record)
	return err
}

func (t *StreamTransport) Receive() ([]byte, error) {
	buf := make([]byte, wire.RecordHeaderSize)
	if _, err := io.ReadFull(t.rw, buf); err != nil {
		return nil, err
	}

	header := wire.RecordHeader{}
	if err := header.Unmarshal(buf); err != nil {
		return nil, err
	}

	record := make([]byte, wire.RecordHeaderSize+int(header.PayloadLength))
	copy(record, buf)
	if _, err := io.ReadFull(t.rw, record[wire.RecordHeaderSize:]); err != nil {
		return nil, err
	}
	return record, nil
}

func (t *StreamTransport) Close() error {
	return t.rw.Close()
}
