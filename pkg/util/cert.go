package util

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
)

var (
	errNotCertificate = errors.New("file is not a certificate")
	errNoCertificate  = errors.New("no certificate found")
	errNotEd25519Key  = errors.New("key is not an Ed25519 private key")
)

// LoadCertificateChain reads a PEM file and returns the raw DER
// certificates it contains, leaf first.
func LoadCertificateChain(path string) ([][]byte, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var chain [][]byte
	for {
		block, rest := pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			return nil, errNotCertificate
		}
		chain = append(chain, block.Bytes)
		data = rest
	}

	if len(chain) == 0 {
		return nil, errNoCertificate
	}
	return chain, nil
}

// LoadEd25519Key reads a PKCS#8 PEM file holding an Ed25519 private key.
func LoadEd25519Key(path string) (ed25519.PrivateKey, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errNotEd25519Key
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errNotEd25519Key
	}
	return key, nil
}

// WritePEM writes a single PEM block to path with owner-only permissions.
func WritePEM(path, blockType string, der []byte) error {
	return os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der}), 0o600)
}
