package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pragati",
	Short: "Resume intake for the PRAGATI internship wizard",
	Long: `pragati reads student resumes (PDF, DOCX or plain text), extracts profile fields
and pre-fills the registration wizard. It runs as a one-shot parser, an HTTP API
or a queue worker.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
