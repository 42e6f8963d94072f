package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/smart-applier/internal/ingestion"
	"github.com/jonathan/smart-applier/internal/observability"
	"github.com/jonathan/smart-applier/internal/pipeline"
)

var skillGapCmd = &cobra.Command{
	Use:   "skill-gap",
	Short: "Report the skills a user is missing for the stored jobs or a job description",
	Long: `Report the skills a user is missing. Without --jd the whole stored corpus is
analysed; with --jd the keywords of that job description form a one-job corpus
and learning recommendations are always included.`,
	RunE: runSkillGap,
}

var (
	gapUser      string
	gapTopN      int
	gapThreshold float64
	gapRecommend bool
	gapJD        string
)

func init() {
	skillGapCmd.Flags().StringVarP(&gapUser, "user", "u", "", "User ID")
	skillGapCmd.Flags().IntVarP(&gapTopN, "top-n", "n", 0, "Number of missing skills to report (defaults to config top_n)")
	skillGapCmd.Flags().Float64Var(&gapThreshold, "threshold", 0, "Similarity below which a skill counts as missing")
	skillGapCmd.Flags().BoolVar(&gapRecommend, "recommend", false, "Include learning recommendations")
	skillGapCmd.Flags().StringVar(&gapJD, "jd", "", "Analyse against this job description file instead of the corpus")
	_ = skillGapCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(skillGapCmd)
}

func runSkillGap(cmd *cobra.Command, _ []string) error {
	app, err := setup(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	topN := gapTopN
	if !cmd.Flags().Changed("top-n") {
		topN = app.cfg.TopN
	}
	out := cmd.OutOrStdout()

	if gapJD != "" {
		jd, _, err := ingestion.ReadJobDescription(gapJD)
		if err != nil {
			return err
		}
		gap, err := app.svc.JDSkillGap(cmd.Context(), gapUser, jd, topN)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(out, gap)
		}
		_, _ = fmt.Fprintf(out, "Job description keywords: %s\n", strings.Join(gap.Keywords, ", "))
		observability.NewPrinter(out).PrintSkillGap(gap.Report)
		return nil
	}

	opts := pipeline.GapOptions{TopN: topN, Recommend: gapRecommend}
	if cmd.Flags().Changed("threshold") {
		opts.Threshold = &gapThreshold
	}
	report, err := app.svc.SkillGap(cmd.Context(), gapUser, opts)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(out, report)
	}
	observability.NewPrinter(out).PrintSkillGap(report)
	return nil
}
