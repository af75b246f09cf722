package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "lifelayer",
	Short: "Lifelayer Relay - WebSocket gateway for streaming LLM providers",
	Long: `Lifelayer Relay bridges WebSocket clients to streaming LLM providers.

Clients hold one duplex connection and send JSON envelopes; the relay
forwards chat requests to OpenAI, Claude, Gemini, or a local Ollama
instance and streams response fragments back as they arrive. Every
request ends with exactly one response or error event.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
}
