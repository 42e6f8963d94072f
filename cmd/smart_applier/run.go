package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/jonathan/smart-applier/internal/ingestion"
	"github.com/jonathan/smart-applier/internal/observability"
	"github.com/jonathan/smart-applier/internal/pipeline"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Match, analyse skill gaps and tailor a resume in one pass",
	Long: `Orchestrates the whole flow: load profile -> load jobs -> match -> skill gap
and tailoring in parallel. Without --jd the resume is tailored to the best
matching job.`,
	RunE: runPipelineCmd,
}

var (
	runUser      string
	runTopK      int
	runTopN      int
	runJD        string
	runRecord    bool
	runRecommend bool
	runOut       string
)

func init() {
	runCommand.Flags().StringVarP(&runUser, "user", "u", "", "User ID")
	runCommand.Flags().IntVarP(&runTopK, "top-k", "k", 0, "Number of jobs to match (defaults to config top_k)")
	runCommand.Flags().IntVarP(&runTopN, "top-n", "n", 0, "Number of missing skills to report (defaults to config top_n)")
	runCommand.Flags().StringVarP(&runJD, "jd", "j", "", "Path to job description file (optional)")
	runCommand.Flags().BoolVar(&runRecord, "record", false, "Persist the matches to the match history")
	runCommand.Flags().BoolVar(&runRecommend, "recommend", false, "Include learning recommendations")
	runCommand.Flags().StringVarP(&runOut, "out", "o", "", "Write the rendered resume to this file")
	_ = runCommand.MarkFlagRequired("user")
	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	var jd string
	if runJD != "" {
		text, _, err := ingestion.ReadJobDescription(runJD)
		if err != nil {
			return err
		}
		jd = text
	}

	app, err := setup(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	opts := pipeline.RunOptions{
		UserID:         runUser,
		TopK:           app.cfg.TopK,
		TopN:           app.cfg.TopN,
		JobDescription: jd,
		Record:         runRecord,
		Recommend:      runRecommend,
	}
	if cmd.Flags().Changed("top-k") {
		opts.TopK = runTopK
	}
	if cmd.Flags().Changed("top-n") {
		opts.TopN = runTopN
	}

	out := cmd.OutOrStdout()
	if !jsonOutput && app.cfg.Verbose {
		var mu sync.Mutex
		opts.OnProgress = func(e pipeline.ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			_, _ = fmt.Fprintf(out, "[%s] %s\n", e.Step, e.Message)
		}
	}

	result, err := app.svc.Run(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if err := writeResume(runOut, result.Tailored); err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(out, result)
	}

	printer := observability.NewPrinter(out)
	printer.PrintMatches(result.Matches)
	printer.PrintSkillGap(result.SkillGap)
	if result.TargetJob != nil {
		_, _ = fmt.Fprintf(out, "Tailored to: %s\n", result.TargetJob.Title)
	}
	printer.PrintTailorResult(result.Tailored)
	if result.Resume != nil {
		_, _ = fmt.Fprintf(out, "Stored resume %s\n", result.Resume.ID)
	}
	return nil
}
