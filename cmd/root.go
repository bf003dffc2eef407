package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var tomlFile string

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "canbustiming",
	Short: "canbustiming calculates CAN and CAN FD bit timing",
	Long: `A suite of tooling that derives CAN controller segment lengths from a
bitrate, checks them against device limits and calculates the oscillator
tolerance of CAN FD timing.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setLogLevel(logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&tomlFile, "config", "f", "", "TOML profile")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level [debug,info,warn,error]")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
