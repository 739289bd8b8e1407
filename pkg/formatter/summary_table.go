package formatter

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/younsl/tagsched/internal/models"
	"github.com/younsl/tagsched/pkg/scheduler"
	"github.com/younsl/tagsched/pkg/utils"
)

var (
	startColor = color.New(color.FgGreen).SprintFunc()
	stopColor  = color.New(color.FgRed).SprintFunc()
	scaleColor = color.New(color.FgYellow).SprintFunc()
	errorColor = color.New(color.FgRed, color.Bold).SprintFunc()
)

// colorAction renders the action name in its color. All colors have the
// same escape length so tabwriter columns stay aligned.
func colorAction(action models.Action) string {
	switch action {
	case models.ActionStart:
		return startColor(string(action))
	case models.ActionStop:
		return stopColor(string(action))
	case models.ActionScale:
		return scaleColor(string(action))
	default:
		return string(action)
	}
}

// PrintSummary prints scan statistics, changes and failures of a run
func PrintSummary(out io.Writer, summary *scheduler.Summary) {
	printTimestamp(out, summary)
	PrintStatsTable(out, summary.Accounts)
	PrintChangesTable(out, summary.Accounts)
	PrintFailuresTable(out, summary.Failures())
}

// PrintStatsTable prints scanned and changed counts per account and kind
func PrintStatsTable(out io.Writer, accounts []models.AccountResult) {
	if len(accounts) == 0 {
		fmt.Fprintln(out, "No accounts configured.")
		return
	}

	fmt.Fprintln(out, "\n## Scan Statistics")

	// kubectl style tabwriter
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ACCOUNT\tREGION\tTYPE\tSCANNED\tCHANGED")

	var totalScanned, totalChanged int
	for _, account := range accounts {
		region := account.Region
		if name := utils.GetRegionDescriptiveName(region); name != region {
			region = fmt.Sprintf("%s (%s)", region, name)
		}
		for _, kind := range models.Kinds {
			stats, ok := account.Stats[kind]
			if !ok {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				account.AccountID,
				region,
				kind.Label(),
				humanize.Comma(int64(stats.Scanned)),
				humanize.Comma(int64(stats.Changed)),
			)
			totalScanned += stats.Scanned
			totalChanged += stats.Changed
		}
	}

	fmt.Fprintf(w, "Total:\t\t\t%s\t%s\n",
		humanize.Comma(int64(totalScanned)),
		humanize.Comma(int64(totalChanged)),
	)
	w.Flush()
}

// PrintChangesTable prints every change in arrival order
func PrintChangesTable(out io.Writer, accounts []models.AccountResult) {
	total := 0
	for _, account := range accounts {
		total += len(account.Changes)
	}
	if total == 0 {
		fmt.Fprintln(out, "\nNo changes.")
		return
	}

	fmt.Fprintf(out, "\n## Changes (%d)\n", total)

	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ACCOUNT\tACTION\tTYPE\tID\tDETAILS")
	for _, account := range accounts {
		for _, change := range account.Changes {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				account.AccountID,
				colorAction(change.Action),
				change.Kind.Label(),
				change.ResourceID,
				dashIfEmpty(change.Extra()),
			)
		}
	}
	w.Flush()
}

// PrintFailuresTable prints failures, if any
func PrintFailuresTable(out io.Writer, failures []models.Failure) {
	if len(failures) == 0 {
		return
	}

	fmt.Fprintf(out, "\n## %s\n", errorColor(fmt.Sprintf("Failures (%d)", len(failures))))

	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ACCOUNT\tTYPE\tID\tERROR")
	for _, f := range failures {
		kind := "-"
		if f.Kind != "" {
			kind = f.Kind.Label()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.AccountID, kind, dashIfEmpty(f.ResourceID), f.Message)
	}
	w.Flush()
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
