package formatter

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/younsl/tagsched/pkg/scheduler"
)

// printTimestamp prints the run time, its id and how long ago it started
func printTimestamp(out io.Writer, summary *scheduler.Summary) {
	// Format the run time
	timeStr := summary.Time.Format("2006-01-02 15:04 MST")

	fmt.Fprintf(out, "Run %s at %s (started %s)\n",
		summary.RunID, timeStr, humanize.RelTime(summary.Time, time.Now(), "ago", "from now"))
}
