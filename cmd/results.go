package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/raflytch/resume-analyzer/internal/domain"
	"github.com/raflytch/resume-analyzer/internal/presenter"
	"github.com/raflytch/resume-analyzer/internal/service"

	"github.com/spf13/cobra"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Print the last stored analysis",
	Args:  cobra.NoArgs,
	RunE:  runResults,
}

var resultsJSON bool

func init() {
	resultsCmd.Flags().BoolVar(&resultsJSON, "json", false, "Print the raw analysis document")
	rootCmd.AddCommand(resultsCmd)
}

func runResults(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	store, closeStore, err := newResultStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	result, err := service.NewResultBridge(store, cfg.Storage.Key).LoadLast(ctx)
	if err != nil {
		return err
	}
	if result == nil {
		return domain.ErrNoResult
	}

	return printResult(os.Stdout, result, resultsJSON)
}

func printResult(w io.Writer, result *domain.AnalysisResult, raw bool) error {
	if raw {
		_, err := fmt.Fprintln(w, string(result.Raw()))
		return err
	}

	view := presenter.Decode(result)
	details := view.PersonalDetails

	var b strings.Builder
	fmt.Fprintf(&b, "Score:       %g / 100\n", view.Score)
	fmt.Fprintf(&b, "Name:        %s\n", details.Name)
	fmt.Fprintf(&b, "Email:       %s\n", details.Email)
	fmt.Fprintf(&b, "Phone:       %s\n", details.Phone)
	fmt.Fprintf(&b, "Location:    %s\n", details.Location)
	if details.GitHub != nil {
		fmt.Fprintf(&b, "GitHub:      %s (%s)\n", details.GitHub.Username, details.GitHub.URL)
	}
	fmt.Fprintf(&b, "Soft skills: %g%%\n", view.SkillsScores.SoftSkills)
	fmt.Fprintf(&b, "Hard skills: %g%%\n", view.SkillsScores.HardSkills)
	fmt.Fprintf(&b, "Breakdown:   formatting %g, experience %g, skills %g, education %g\n",
		view.ScoreBreakdown.Formatting,
		view.ScoreBreakdown.Experience,
		view.ScoreBreakdown.Skills,
		view.ScoreBreakdown.Education,
	)

	if chart := view.ChartSkills(); len(chart) > 0 {
		b.WriteString("\nTop skills:\n")
		for _, skill := range chart {
			fmt.Fprintf(&b, "  %-24s %g\n", skill.Name, skill.Confidence)
		}
	}

	if len(view.Projects) > 0 {
		b.WriteString("\nProjects:\n")
		for _, proj := range view.Projects {
			fmt.Fprintf(&b, "  %s  %s\n", proj.Name, proj.Link)
		}
	}

	writeList(&b, "Strengths", view.SWOT.Strengths)
	writeList(&b, "Weaknesses", view.SWOT.Weaknesses)
	writeList(&b, "Opportunities", view.SWOT.Opportunities)
	writeList(&b, "Threats", view.SWOT.Threats)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "  - %s\n", item)
	}
}
