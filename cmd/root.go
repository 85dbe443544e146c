package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath  string
	profileName string
	logLevel    string
	logFile     string
	plainOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "smartstitch",
	Short: "smartstitch - re-paginate comic strips at clean cut lines",
	Long: "smartstitch stitches a folder of page images into one continuous strip and slices it\n" +
		"back into pages of a target height, cutting only through visually uniform rows.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLogging()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		closeLogging()
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default $HOME/.smartstitch/config.toml)")
	pf.StringVarP(&profileName, "profile", "p", "", "profile to start from (default: the current profile)")
	pf.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.StringVar(&logFile, "log-file", "", "append JSON logs to this file instead of stderr")
	pf.BoolVar(&plainOutput, "plain", false, "print log lines instead of the progress view")
}
