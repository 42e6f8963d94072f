// Package main provides the smart_applier command line: job matching,
// skill-gap analysis and resume tailoring against a stored profile, plus the
// HTTP API server.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	storeKind   string
	dataDir     string
	databaseURL string
	verbose     bool
	jsonOutput  bool
)

var rootCmd = &cobra.Command{
	Use:   "smart_applier",
	Short: "Semantic job matching and skill-gap engine",
	Long: `smart_applier ranks a job corpus against a candidate profile, reports the
skills the candidate is missing and tailors a LaTeX resume to a job description.

Configuration is read from --config (JSON or TOML), then the environment
(GEMINI_API_KEY, OPENAI_API_KEY, DATABASE_URL, S3_*), then flags.`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to config file (.json or .toml)")
	pf.StringVar(&storeKind, "store", "", "Store backend: sqlite (default), postgres, or memory for data that only lives as long as the command")
	pf.StringVar(&dataDir, "data-dir", "", "Base directory for local data (defaults to the XDG data home)")
	pf.StringVar(&databaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
	pf.BoolVar(&jsonOutput, "json", false, "Print results as JSON")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
