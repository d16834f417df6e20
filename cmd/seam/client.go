package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/seamproto/seam/pkg/seam"
	"github.com/seamproto/seam/pkg/util"
)

var (
	clientAddr     string
	clientCAs      string
	clientCert     string
	clientKey      string
	clientInsecure bool
	clientTimeout  time.Duration
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Connect to a seam server and exchange lines from stdin",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := clientConfig()
		if err != nil {
			return err
		}

		conn, err := net.Dial("tcp", clientAddr)
		if err != nil {
			return err
		}

		session, err := seam.Client(seam.NewStreamTransport(conn), cfg)
		if err != nil {
			conn.Close()
			return err
		}
		defer session.Close()

		ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
		defer cancel()
		if err := session.Connect(ctx); err != nil {
			return err
		}
		log.Infof("established %s with %s", session.NegotiatedSuite(), clientAddr)

		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if err := session.Send(scanner.Bytes()); err != nil {
				return err
			}
			reply, err := session.Receive()
			if err != nil {
				return err
			}
			fmt.Println(string(reply))
		}
		return scanner.Err()
	},
}

func clientConfig() (*seam.Config, error) {
	cfg := &seam.Config{InsecureSkipVerify: clientInsecure}

	if clientCAs != "" {
		roots, err := loadRoots(clientCAs)
		if err != nil {
			return nil, err
		}
		cfg.RootCAs = roots
	}
	if clientCert != "" {
		chain, err := util.LoadCertificateChain(clientCert)
		if err != nil {
			return nil, err
		}
		key, err := util.LoadEd25519Key(clientKey)
		if err != nil {
			return nil, err
		}
		cfg.Certificate = chain
		cfg.PrivateKey = key
		cfg.RequireMutualAuth = true
	}
	return cfg, nil
}

func init() {
	clientCmd.Flags().StringVar(&clientAddr, "addr", "localhost:7464", "server address")
	clientCmd.Flags().StringVar(&clientCAs, "ca", "", "roots for the server certificate (PEM)")
	clientCmd.Flags().StringVar(&clientCert, "cert", "", "client certificate chain for mutual auth (PEM)")
	clientCmd.Flags().StringVar(&clientKey, "key", "", "client Ed25519 private key (PEM)")
	clientCmd.Flags().BoolVar(&clientInsecure, "insecure", false, "skip server certificate verification")
	clientCmd.Flags().DurationVar(&clientTimeout, "timeout", 10*time.Second, "handshake timeout")
}
