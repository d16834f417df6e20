package main

import (
	"context"
	"crypto/x509"
	"net"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/seamproto/seam/pkg/seam"
	"github.com/seamproto/seam/pkg/util"
)

var (
	serverAddr   string
	serverCert   string
	serverKey    string
	serverCAs    string
	serverMutual bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run an echo server behind a secure channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := serverConfig()
		if err != nil {
			return err
		}

		ln, err := net.Listen("tcp", serverAddr)
		if err != nil {
			return err
		}
		defer ln.Close()
		log.Infof("listening on %s", ln.Addr())

		for {
			conn, err := ln.Accept()
			if err != nil {
				return err
			}
			go serve(conn, cfg)
		}
	},
}

func serverConfig() (*seam.Config, error) {
	chain, err := util.LoadCertificateChain(serverCert)
	if err != nil {
		return nil, err
	}
	key, err := util.LoadEd25519Key(serverKey)
	if err != nil {
		return nil, err
	}

	cfg := &seam.Config{
		Certificate:       chain,
		PrivateKey:        key,
		RequireMutualAuth: serverMutual,
	}
	if serverCAs != "" {
		roots, err := loadRoots(serverCAs)
		if err != nil {
			return nil, err
		}
		cfg.RootCAs = roots
	}
	return cfg, nil
}

func loadRoots(path string) (*x509.CertPool, error) {
	chain, err := util.LoadCertificateChain(path)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	for _, der := range chain {
		cert, err := x509.ParseCertificate(der)
		if err != nil {
			return nil, err
		}
		pool.AddCert(cert)
	}
	return pool, nil
}

// serve echoes every application record back to the client until the
// session ends.
func serve(conn net.Conn, cfg *seam.Config) {
	session, err := seam.Server(seam.NewStreamTransport(conn), cfg)
	if err != nil {
		log.Errorf("session setup: %v", err)
		conn.Close()
		return
	}
	defer session.Close()

	if err := session.Accept(context.Background()); err != nil {
		log.Errorf("handshake with %s: %v", conn.RemoteAddr(), err)
		return
	}
	log.Infof("established %s with %s", session.NegotiatedSuite(), conn.RemoteAddr())

	for {
		payload, err := session.Receive()
		if err != nil {
			log.Infof("session with %s ended: %v", conn.RemoteAddr(), err)
			return
		}
		if err := session.Send(payload); err != nil {
			log.Errorf("echo to %s: %v", conn.RemoteAddr(), err)
			return
		}
	}
}

func init() {
	serverCmd.Flags().StringVar(&serverAddr, "addr", ":7464", "listen address")
	serverCmd.Flags().StringVar(&serverCert, "cert", "cert.pem", "certificate chain (PEM)")
	serverCmd.Flags().StringVar(&serverKey, "key", "key.pem", "Ed25519 private key (PEM)")
	serverCmd.Flags().StringVar(&serverCAs, "ca", "", "roots for client certificates (PEM)")
	serverCmd.Flags().BoolVar(&serverMutual, "mutual", false, "require client certificates")
}
