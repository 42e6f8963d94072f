package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/smart-applier/internal/ingestion"
	"github.com/jonathan/smart-applier/internal/observability"
	"github.com/jonathan/smart-applier/internal/pipeline"
	"github.com/jonathan/smart-applier/internal/types"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor a user's resume to a job description",
	Long: `Extract the keywords of a job description, compare them with the user's
skills, rewrite the profile when a generative model is configured and render
the result as a LaTeX resume.`,
	RunE: runTailor,
}

var (
	tailorUser      string
	tailorJD        string
	tailorTitle     string
	tailorThreshold float64
	tailorOut       string
)

func init() {
	tailorCmd.Flags().StringVarP(&tailorUser, "user", "u", "", "User ID")
	tailorCmd.Flags().StringVarP(&tailorJD, "jd", "j", "", "Path to job description file (text or HTML)")
	tailorCmd.Flags().StringVarP(&tailorTitle, "title", "t", "", "Job title recorded with the resume")
	tailorCmd.Flags().Float64Var(&tailorThreshold, "threshold", 0, "Similarity at which a keyword counts as covered")
	tailorCmd.Flags().StringVarP(&tailorOut, "out", "o", "", "Write the rendered resume to this file")
	_ = tailorCmd.MarkFlagRequired("user")
	_ = tailorCmd.MarkFlagRequired("jd")
	rootCmd.AddCommand(tailorCmd)
}

func runTailor(cmd *cobra.Command, _ []string) error {
	jd, meta, err := ingestion.ReadJobDescription(tailorJD)
	if err != nil {
		return err
	}

	app, err := setup(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	app.logger.Debug("read job description", "source", meta.Source, "format", meta.Format, "hash", meta.Hash)

	opts := pipeline.TailorOptions{JobTitle: tailorTitle}
	if cmd.Flags().Changed("threshold") {
		opts.Threshold = &tailorThreshold
	}
	result, resume, err := app.svc.Tailor(cmd.Context(), tailorUser, jd, opts)
	if err != nil {
		return err
	}
	if err := writeResume(tailorOut, result); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, map[string]any{"result": result, "resume": resume})
	}
	observability.NewPrinter(out).PrintTailorResult(result)
	if resume != nil {
		_, _ = fmt.Fprintf(out, "Stored resume %s\n", resume.ID)
	}
	if tailorOut != "" {
		_, _ = fmt.Fprintf(out, "Wrote %s\n", tailorOut)
	}
	return nil
}

// writeResume writes the rendered document to path when both are present
func writeResume(path string, result *types.TailorResult) error {
	if path == "" || result == nil || len(result.Document) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, result.Document, 0644); err != nil {
		return fmt.Errorf("failed to write resume: %w", err)
	}
	return nil
}
