// Package main is the entry point for the scorer CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scorer",
	Short: "Score pre-trained models for reuse",
	Long: `scorer rates Hugging Face models on how safe they are to reuse. Each model is
scored on licensing, documentation, maintenance, size, linked datasets and code
quality, and the sub-scores are blended into a single net score.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
