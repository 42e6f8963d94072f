package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/smart-applier/internal/observability"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank stored jobs against a user's profile",
	RunE:  runMatch,
}

var (
	matchUser   string
	matchTopK   int
	matchRecord bool
)

func init() {
	matchCmd.Flags().StringVarP(&matchUser, "user", "u", "", "User ID")
	matchCmd.Flags().IntVarP(&matchTopK, "top-k", "k", 0, "Number of jobs to return (defaults to config top_k)")
	matchCmd.Flags().BoolVar(&matchRecord, "record", false, "Persist the results to the match history")
	_ = matchCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	app, err := setup(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	topK := matchTopK
	if !cmd.Flags().Changed("top-k") {
		topK = app.cfg.TopK
	}
	matches, err := app.svc.Match(cmd.Context(), matchUser, topK, matchRecord)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), matches)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintMatches(matches)
	return nil
}
