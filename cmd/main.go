package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

// rootCmd runs the server when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "copy-ai-server",
	Short: "Generate marketing copy with a hosted language model",
	Long: `Serves a form for describing a product and turns it into marketing copy
(product descriptions, social posts, tweets) with Gemini or an
OpenAI-compatible model, then lets you refine the result in a chat.

Quick Start:
  GEMINI_API_KEY=... copy-ai-server            # serve on :8080
  copy-ai-server prompt --type Tweet            # print the prompt for a config`,
	RunE: runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config-dir", ".", "Directory containing config.yaml")
	rootCmd.AddCommand(serveCmd, promptCmd)
}
