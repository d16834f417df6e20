package seam

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"io"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/seamproto/seam/pkg/crypto"
)

// chanTransport is an in-memory record transport. Buffered channels keep
// both endpoints from deadlocking when a test interleaves sends and
// receives in one goroutine.
type chanTransport struct {
	out chan<- []byte
	in  <-chan []byte

	done      chan struct{}
	closeOut  func()
	closeDone sync.Once
}

func transportPair() (*chanTransport, *chanTransport) {
	ab := make(chan []byte, 32)
	ba := make(chan []byte, 32)

	var closeAB, closeBA sync.Once
	a := &chanTransport{
		out:      ab,
		in:       ba,
		done:     make(chan struct{}),
		closeOut: func() { closeAB.Do(func() { close(ab) }) },
	}
	b := &chanTransport{
		out:      ba,
		in:       ab,
		done:     make(chan struct{}),
		closeOut: func() { closeBA.Do(func() { close(ba) }) },
	}
	return a, b
}

func (t *chanTransport) Send(record []byte) error {
	select {
	case <-t.done:
		return io.ErrClosedPipe
	default:
	}
	t.out <- append([]byte{}, record...)
	return nil
}

func (t *chanTransport) Receive() ([]byte, error) {
	select {
	case record, ok := <-t.in:
		if !ok {
			return nil, io.EOF
		}
		return record, nil
	case <-t.done:
		return nil, io.ErrClosedPipe
	}
}

func (t *chanTransport) Close() error {
	t.closeDone.Do(func() {
		close(t.done)
		t.closeOut()
	})
	return nil
}

// detProvider overrides the entropy source with a seeded counter stream,
// making every handshake byte reproducible.
type detProvider struct {
	crypto.Provider
	seed []byte
	ctr  uint64
}

func (p *detProvider) RandomBytes(n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for len(out) < n {
		p.ctr++
		block := p.Provider.Hash(append(p.seed, byte(p.ctr), byte(p.ctr>>8)))
		out = append(out, block...)
	}
	return out[:n], nil
}

func deterministicFactory(seed string) crypto.ProviderFactory {
	return func(id crypto.SuiteID) (crypto.Provider, error) {
		p, err := crypto.ProviderFor(id)
		if err != nil {
			return nil, err
		}
		return &detProvider{Provider: p, seed: []byte(seed)}, nil
	}
}

// recordingTransport captures every record sent through it.
type recordingTransport struct {
	Transport
	sent [][]byte
}

func (t *recordingTransport) Send(record []byte) error {
	t.sent = append(t.sent, append([]byte{}, record...))
	return t.Transport.Send(record)
}

// testIdentity is a self-signed Ed25519 certificate plus the pool that
// trusts it.
type testIdentity struct {
	chain [][]byte
	key   ed25519.PrivateKey
	pool  *x509.CertPool
}

func newTestIdentity(t *testing.T, name string) *testIdentity {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(time.Now().UnixNano()),
		Subject:               pkix.Name{CommonName: name},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, pub, priv)
	require.NoError(t, err)

	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	pool := x509.NewCertPool()
	pool.AddCert(cert)

	return &testIdentity{chain: [][]byte{der}, key: priv, pool: pool}
}

// establish runs a full handshake over an in-memory transport and returns
// both established sessions. The server handshake runs concurrently, as it
// would in production.
func establish(t *testing.T, clientCfg, serverCfg *Config) (*Session, *Session) {
	t.Helper()

	client, server, clientErr, serverErr := handshakePair(t, clientCfg, serverCfg)
	require.NoError(t, clientErr)
	require.NoError(t, serverErr)
	return client, server
}

func handshakePair(t *testing.T, clientCfg, serverCfg *Config) (*Session, *Session, error, error) {
	t.Helper()

	ct, st := transportPair()
	client, err := Client(ct, clientCfg)
	require.NoError(t, err)
	server, err := Server(st, serverCfg)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	serverDone := make(chan error, 1)
	go func() { serverDone <- server.Accept(ctx) }()
	clientErr := client.Connect(ctx)
	serverErr := <-serverDone

	return client, server, clientErr, serverErr
}
