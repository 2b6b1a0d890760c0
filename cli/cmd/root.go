package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "cmm",
		Short:        "cmm",
		SilenceUsage: true,
		Long:         `cmm is the C-- front end: scanner, parser, name resolver, and canonical unparser.`,
	}

	configPath string
	logLevel   string
)

// Execute executes the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to .cmmrc.yaml (defaults to .cmmrc.yaml next to the input file)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "logrus level for the structured diagnostic log (debug, info, warn, error)")
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(func() {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			level = logrus.InfoLevel
		}
		logrus.SetLevel(level)
	})
}
