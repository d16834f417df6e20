package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "seam",
	Short: "seam is an authenticated encrypted channel over TCP",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable handshake debug logging")
	rootCmd.AddCommand(serverCmd, clientCmd, gencertCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
