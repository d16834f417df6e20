package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/seamproto/seam/pkg/util"
)

var (
	gencertName string
	gencertCert string
	gencertKey  string
	gencertDays int
)

var gencertCmd = &cobra.Command{
	Use:   "gencert",
	Short: "Generate a self-signed Ed25519 certificate and key",
	RunE: func(cmd *cobra.Command, args []string) error {
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return err
		}

		serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
		if err != nil {
			return err
		}
		template := &x509.Certificate{
			SerialNumber:          serial,
			Subject:               pkix.Name{CommonName: gencertName},
			NotBefore:             time.Now().Add(-time.Hour),
			NotAfter:              time.Now().AddDate(0, 0, gencertDays),
			KeyUsage:              x509.KeyUsageDigitalSignature,
			ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
			BasicConstraintsValid: true,
			IsCA:                  true,
		}
		der, err := x509.CreateCertificate(rand.Reader, template, template, pub, priv)
		if err != nil {
			return err
		}

		keyDER, err := x509.MarshalPKCS8PrivateKey(priv)
		if err != nil {
			return err
		}
		if err := util.WritePEM(gencertCert, "CERTIFICATE", der); err != nil {
			return err
		}
		if err := util.WritePEM(gencertKey, "PRIVATE KEY", keyDER); err != nil {
			return err
		}

		log.Infof("wrote %s and %s for %q", gencertCert, gencertKey, gencertName)
		return nil
	},
}

func init() {
	gencertCmd.Flags().StringVar(&gencertName, "name", "seam", "certificate common name")
	gencertCmd.Flags().StringVar(&gencertCert, "cert", "cert.pem", "certificate output path")
	gencertCmd.Flags().StringVar(&gencertKey, "key", "key.pem", "private key output path")
	gencertCmd.Flags().IntVar(&gencertDays, "days", 365, "validity in days")
}
