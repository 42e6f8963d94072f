package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/smart-applier/internal/ingestion"
	"github.com/jonathan/smart-applier/internal/observability"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage the job corpus",
}

var jobsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import jobs from a CSV or JSON file",
	Long: `Import jobs from a CSV table or a JSON array of objects. One column must
name a skills field (any header containing "skill").`,
	RunE: runJobsImport,
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored jobs",
	RunE:  runJobsList,
}

var (
	jobsFile  string
	jobsLimit int
)

func init() {
	jobsImportCmd.Flags().StringVarP(&jobsFile, "in", "i", "", "Path to jobs file (.csv or .json)")
	_ = jobsImportCmd.MarkFlagRequired("in")

	jobsListCmd.Flags().IntVar(&jobsLimit, "limit", 50, "Maximum jobs to list (0 for all)")

	jobsCmd.AddCommand(jobsImportCmd, jobsListCmd)
	rootCmd.AddCommand(jobsCmd)
}

func runJobsImport(cmd *cobra.Command, _ []string) error {
	jobs, meta, err := ingestion.ReadJobsFile(jobsFile)
	if err != nil {
		return err
	}

	app, err := setup(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	app.logger.Debug("read jobs", "source", meta.Source, "format", meta.Format, "hash", meta.Hash)

	saved, err := app.svc.ImportJobs(cmd.Context(), jobs)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), saved)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d jobs from %s\n", len(saved), jobsFile)
	return nil
}

func runJobsList(cmd *cobra.Command, _ []string) error {
	app, err := setup(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	jobs, err := app.store.ListJobs(cmd.Context(), jobsLimit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), jobs)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintJobs(jobs)
	return nil
}
