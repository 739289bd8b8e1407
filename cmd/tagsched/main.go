package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/younsl/tagsched/internal/logging"
	"github.com/younsl/tagsched/internal/models"
	"github.com/younsl/tagsched/internal/settings"
	"github.com/younsl/tagsched/internal/version"
	"github.com/younsl/tagsched/pkg/aws"
	"github.com/younsl/tagsched/pkg/formatter"
	"github.com/younsl/tagsched/pkg/notify"
	"github.com/younsl/tagsched/pkg/schedule"
	"github.com/younsl/tagsched/pkg/scheduler"
)

// Output formats
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

var (
	showVersion  bool
	accountsFile string
	logLevel     string
	logFormat    string
	output       string
	timezone     string
	region       string
)

// errRunFailed signals that the summary, already printed, holds failures
var errRunFailed = errors.New("run finished with failures")

// startRunSpinner creates and starts a spinner on stderr
func startRunSpinner(accounts int) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[9], 200*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = fmt.Sprintf(" Reconciling %d account(s) ...", accounts)
	s.Start()
	return s
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "tagsched",
		Short: "Start, stop and scale AWS resources on tag-defined schedules",
		Long: `tagsched reads schedule tags on EC2 instances, RDS instances and clusters,
and Auto Scaling groups in every configured account, and starts, stops or
resizes each resource so that it matches its schedule at the current time.

Configuration comes from environment variables (TIMEZONE, ENABLE_EC2,
ENABLE_RDS, ENABLE_ASG, TAG_*_KEY, ACCOUNTS_JSON, ...). Flags override them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// If version flag is set, print version info and exit
			if showVersion {
				fmt.Println(version.Get())
				return nil
			}
			return run(cmd)
		},
	}

	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")
	rootCmd.Flags().StringVarP(&accountsFile, "accounts-file", "f", "", "YAML or JSON file with target accounts (overrides ACCOUNTS_JSON)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	rootCmd.Flags().StringVar(&logFormat, "log-format", "", "Log format: json or console (overrides LOG_FORMAT)")
	rootCmd.Flags().StringVarP(&output, "output", "o", OutputTable, "Summary format: table or json")
	rootCmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone for schedules (overrides TIMEZONE)")
	rootCmd.Flags().StringVarP(&region, "region", "r", "", "Region for STS and metrics calls (default: SDK chain, then instance metadata)")

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errRunFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func run(cmd *cobra.Command) error {
	if output != OutputTable && output != OutputJSON {
		return fmt.Errorf("unsupported output format %q (use %s or %s)", output, OutputTable, OutputJSON)
	}

	cfg, clock, err := prepare(os.LookupEnv, flagOverrides(cmd), time.Now())
	if err != nil {
		return err
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	base, err := aws.LoadBaseConfig(ctx, region)
	if err != nil {
		return err
	}

	opts := scheduler.Options{
		Factory:       aws.NewSessionFactory(base),
		Notifier:      notify.NewClient(notify.Options{RetryMax: notify.DefaultRetryMax, Logger: log}),
		Enabled:       cfg.Enabled,
		Config:        cfg.Schedule,
		NotifyTagKeys: cfg.NotifyTagKeys,
		Logger:        log,
	}
	if cfg.MetricsNamespace != "" {
		opts.Metrics = aws.NewMetricsPublisher(base, cfg.MetricsNamespace)
	}

	var sp *spinner.Spinner
	if output == OutputTable && isatty.IsTerminal(os.Stderr.Fd()) {
		sp = startRunSpinner(len(cfg.Accounts))
		opts.OnProgress = func(account models.Account, kind models.ResourceKind) {
			sp.Lock()
			sp.Suffix = fmt.Sprintf(" Reconciling %s in %s (%s) ...", kind.Label(), account.Title(), account.Region)
			sp.Unlock()
		}
	}

	start := time.Now()
	summary := scheduler.NewRunner(opts).Run(ctx, cfg.Accounts, clock)
	elapsed := time.Since(start)

	if sp != nil {
		sp.FinalMSG = fmt.Sprintf("✓ [%s changes] %d account(s) reconciled - Completed in %.2f seconds\n",
			humanize.Comma(int64(summary.Changes())), len(summary.Accounts), elapsed.Seconds())
		sp.Stop()
	}

	if err := printSummary(os.Stdout, summary); err != nil {
		return err
	}

	if err := summary.Err(); err != nil {
		log.Error().Err(err).Int("failures", len(summary.Failures())).Msg("run finished with failures")
		return errRunFailed
	}
	logDone(log, summary, elapsed)
	return nil
}

// overrides holds the flags that were set on the command line
type overrides struct {
	logLevel     string
	logFormat    string
	timezone     string
	accountsFile string
}

func flagOverrides(cmd *cobra.Command) overrides {
	var o overrides
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		o.logLevel = logLevel
	}
	if flags.Changed("log-format") {
		o.logFormat = logFormat
	}
	if flags.Changed("timezone") {
		o.timezone = timezone
	}
	o.accountsFile = accountsFile
	return o
}

// prepare loads the settings, lets flags win over the environment and
// resolves the run clock. Every error here stops the run before any AWS call.
func prepare(lookup settings.LookupFunc, o overrides, now time.Time) (*settings.Settings, schedule.Clock, error) {
	cfg, err := settings.Load(lookup)
	if err != nil {
		return nil, schedule.Clock{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.logFormat != "" {
		cfg.LogFormat = o.logFormat
	}
	if o.timezone != "" {
		cfg.Timezone = o.timezone
	}
	if o.accountsFile != "" {
		if cfg.Accounts, err = settings.LoadAccountsFile(o.accountsFile); err != nil {
			return nil, schedule.Clock{}, err
		}
	}

	clock, err := schedule.LoadClock(now, cfg.Timezone)
	if err != nil {
		return nil, schedule.Clock{}, err
	}
	return cfg, clock, nil
}

func printSummary(out io.Writer, summary *scheduler.Summary) error {
	if output == OutputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			return fmt.Errorf("error encoding summary: %w", err)
		}
		return nil
	}
	formatter.PrintSummary(out, summary)
	return nil
}

func logDone(log zerolog.Logger, summary *scheduler.Summary, elapsed time.Duration) {
	log.Info().
		Str("run_id", summary.RunID).
		Int("accounts", len(summary.Accounts)).
		Int("changes", summary.Changes()).
		Dur("elapsed", elapsed).
		Msg("scheduler done")
}
