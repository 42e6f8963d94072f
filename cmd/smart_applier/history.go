package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded matches, stored resumes and tailoring sessions",
}

var historyMatchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List the most recent recorded matches",
	RunE:  runHistoryMatches,
}

var historyResumesCmd = &cobra.Command{
	Use:   "resumes",
	Short: "List stored resumes",
	RunE:  runHistoryResumes,
}

var historySessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List logged tailoring sessions",
	RunE:  runHistorySessions,
}

var (
	historyLimit int
	historyUser  string
)

func init() {
	historyCmd.PersistentFlags().IntVar(&historyLimit, "limit", 20, "Maximum entries to list (0 for all)")
	historyResumesCmd.Flags().StringVarP(&historyUser, "user", "u", "", "Only list resumes of this user")

	historyCmd.AddCommand(historyMatchesCmd, historyResumesCmd, historySessionsCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryMatches(cmd *cobra.Command, _ []string) error {
	app, err := setup(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	matches, err := app.store.LatestMatches(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), matches)
	}
	for _, m := range matches {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%.4f\n",
			m.CreatedAt.Format("2006-01-02 15:04"), m.UserID, m.JobTitle, m.Score)
	}
	return nil
}

func runHistoryResumes(cmd *cobra.Command, _ []string) error {
	app, err := setup(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	resumes, err := app.store.ListResumes(cmd.Context(), historyUser, historyLimit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), resumes)
	}
	for _, r := range resumes {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%.2f%%\n", r.ID, r.UserID, r.JobTitle, r.Coverage)
	}
	return nil
}

func runHistorySessions(cmd *cobra.Command, _ []string) error {
	app, err := setup(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	sessions, err := app.store.ListTailoringSessions(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), sessions)
	}
	for _, s := range sessions {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%.2f%%\n",
			s.CreatedAt.Format("2006-01-02 15:04"), s.UserEmail, s.Coverage)
	}
	return nil
}
