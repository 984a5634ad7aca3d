package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	password string
	output   string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:           "pdftool",
	Short:         "Split, merge, reorganize and edit PDF files",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "Password of an encrypted input PDF")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output file or directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
