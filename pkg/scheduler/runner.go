package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/younsl/tagsched/internal/models"
	"github.com/younsl/tagsched/pkg/schedule"
)

// Notifier delivers the changes made in one account
type Notifier interface {
	Notify(ctx context.Context, account models.Account, changes []models.Change, now time.Time) error
}

// MetricsRecorder publishes per-account run statistics
type MetricsRecorder interface {
	Record(ctx context.Context, result models.AccountResult) error
}

// Options configures a Runner
type Options struct {
	Factory       ProviderFactory
	Notifier      Notifier
	Metrics       MetricsRecorder
	Enabled       Enabled
	Config        schedule.Config
	NotifyTagKeys []string
	Logger        zerolog.Logger

	// OnProgress is called before each resource kind of each account is scanned
	OnProgress func(account models.Account, kind models.ResourceKind)
}

// Runner reconciles every configured account once per Run call.
// Accounts, kinds and resources are processed sequentially.
type Runner struct {
	opts Options
}

// NewRunner creates a Runner. Blank tag keys take their defaults.
func NewRunner(opts Options) *Runner {
	opts.Config = opts.Config.WithDefaults()
	return &Runner{opts: opts}
}

// Summary is the outcome of a run
type Summary struct {
	RunID    string                 `json:"run_id"`
	Time     time.Time              `json:"time"`
	Accounts []models.AccountResult `json:"summary"`
}

// Changes returns the number of changes across all accounts
func (s *Summary) Changes() int {
	n := 0
	for _, a := range s.Accounts {
		n += len(a.Changes)
	}
	return n
}

// Failures returns every failure in account order
func (s *Summary) Failures() []models.Failure {
	var failures []models.Failure
	for _, a := range s.Accounts {
		failures = append(failures, a.Failures...)
	}
	return failures
}

// Err aggregates all failures of the run, or returns nil
func (s *Summary) Err() error {
	var result *multierror.Error
	for _, f := range s.Failures() {
		result = multierror.Append(result, f)
	}
	return result.ErrorOrNil()
}

// Run reconciles accounts against the schedule at clock.
// Failures are isolated per resource and reported in the summary.
func (r *Runner) Run(ctx context.Context, accounts []models.Account, clock schedule.Clock) *Summary {
	summary := &Summary{
		RunID: uuid.NewString(),
		Time:  clock.Time,
	}
	log := r.opts.Logger.With().Str("run_id", summary.RunID).Logger()

	log.Info().
		Str("now", clock.Time.Format("2006-01-02 15:04:05 MST")).
		Str("weekday", schedule.WeekdayToken(clock.Weekday)).
		Int("accounts", len(accounts)).
		Msg("scheduler start")

	env := Env{
		Config:        r.opts.Config,
		Clock:         clock,
		NotifyTagKeys: r.opts.NotifyTagKeys,
	}

	for _, account := range accounts {
		if err := ctx.Err(); err != nil {
			log.Warn().Err(err).Str("account", account.AccountID).Msg("run cancelled, account skipped")
			summary.Accounts = append(summary.Accounts, skippedAccount(account, err))
			continue
		}
		result := r.runAccount(ctx, account, env, log)
		summary.Accounts = append(summary.Accounts, result)
	}

	return summary
}

// skippedAccount is the result of an account that was never reconciled
func skippedAccount(account models.Account, err error) models.AccountResult {
	return models.AccountResult{
		AccountID: account.AccountID,
		Region:    account.Region,
		Changes:   []models.Change{},
		Stats:     make(map[models.ResourceKind]models.KindStats),
		Failures: []models.Failure{
			models.NewFailure(account.AccountID, "", "", fmt.Errorf("account skipped: %w", err)),
		},
	}
}

func (r *Runner) runAccount(ctx context.Context, account models.Account, env Env, log zerolog.Logger) models.AccountResult {
	log = log.With().Str("account", account.AccountID).Str("region", account.Region).Logger()
	result := models.AccountResult{
		AccountID: account.AccountID,
		Region:    account.Region,
		Changes:   []models.Change{},
		Stats:     make(map[models.ResourceKind]models.KindStats),
	}

	providers, err := r.opts.Factory.Providers(ctx, account, r.opts.Enabled)
	if err != nil {
		log.Error().Err(err).Msg("failed to prepare account")
		result.Failures = append(result.Failures, models.NewFailure(account.AccountID, "", "", err))
		return result
	}

	scan := &accountScan{
		ctx:     ctx,
		account: account,
		log:     log,
		result:  &result,
	}

	if r.opts.Enabled.Compute && providers.Compute != nil {
		r.progress(account, models.KindCompute)
		p := providers.Compute
		filter := models.TagFilter{Key: env.Config.FlagKey, Value: env.Config.FlagValue}
		scan.kind(models.KindCompute, func(visit visitFunc) error {
			return p.EachInstance(ctx, filter, func(inst models.Instance) error {
				return visit(inst.InstanceID, func() (*models.Change, error) {
					return ReconcileInstance(ctx, p, inst, env)
				})
			})
		})
	}

	if r.opts.Enabled.Database && providers.Database != nil {
		p := providers.Database
		r.progress(account, models.KindDatabaseInstance)
		scan.kind(models.KindDatabaseInstance, func(visit visitFunc) error {
			return p.EachDBInstance(ctx, func(inst models.DBInstance) error {
				return visit(inst.Identifier, func() (*models.Change, error) {
					return ReconcileDBInstance(ctx, p, inst, env)
				})
			})
		})
		r.progress(account, models.KindDatabaseCluster)
		scan.kind(models.KindDatabaseCluster, func(visit visitFunc) error {
			return p.EachDBCluster(ctx, func(cluster models.DBCluster) error {
				return visit(cluster.Identifier, func() (*models.Change, error) {
					return ReconcileDBCluster(ctx, p, cluster, env)
				})
			})
		})
	}

	if r.opts.Enabled.AutoScaling && providers.AutoScaling != nil {
		p := providers.AutoScaling
		r.progress(account, models.KindAutoScalingGroup)
		scan.kind(models.KindAutoScalingGroup, func(visit visitFunc) error {
			return p.EachGroup(ctx, func(group models.AutoScalingGroup) error {
				return visit(group.Name, func() (*models.Change, error) {
					return ReconcileGroup(ctx, p, group, env)
				})
			})
		})
	}

	r.logStats(log, result)
	r.notify(ctx, account, &result, env.Clock.Time, log)

	if r.opts.Metrics != nil {
		if err := r.opts.Metrics.Record(ctx, result); err != nil {
			log.Warn().Err(err).Msg("failed to publish run metrics")
		}
	}

	return result
}

func (r *Runner) progress(account models.Account, kind models.ResourceKind) {
	if r.opts.OnProgress != nil {
		r.opts.OnProgress(account, kind)
	}
}

func (r *Runner) notify(ctx context.Context, account models.Account, result *models.AccountResult, now time.Time, log zerolog.Logger) {
	if len(result.Changes) == 0 {
		log.Info().Msg("no changes")
		return
	}
	if r.opts.Notifier == nil {
		return
	}
	if err := r.opts.Notifier.Notify(ctx, account, result.Changes, now); err != nil {
		log.Error().Err(err).Msg("failed to send notification")
		result.Failures = append(result.Failures,
			models.NewFailure(account.AccountID, "", "", fmt.Errorf("notification: %w", err)))
	}
}

func (r *Runner) logStats(log zerolog.Logger, result models.AccountResult) {
	ev := log.Info()
	for _, kind := range models.Kinds {
		stats, ok := result.Stats[kind]
		if !ok {
			continue
		}
		ev = ev.Int(string(kind)+"_scanned", stats.Scanned).Int(string(kind)+"_changes", stats.Changed)
	}
	ev.Int("changes", len(result.Changes)).Int("failures", len(result.Failures)).Msg("account processed")
}

type visitFunc func(id string, reconcile func() (*models.Change, error)) error

// accountScan accumulates the results of one account in arrival order
type accountScan struct {
	ctx     context.Context
	account models.Account
	log     zerolog.Logger
	result  *models.AccountResult
}

func (s *accountScan) kind(kind models.ResourceKind, enumerate func(visit visitFunc) error) {
	stats := s.result.Stats[kind]
	log := s.log.With().Str("kind", string(kind)).Logger()

	err := enumerate(func(id string, reconcile func() (*models.Change, error)) error {
		if err := s.ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		change, err := reconcile()
		if err != nil {
			log.Error().Err(err).Str("resource_id", id).Msg("failed to reconcile resource")
			s.result.Failures = append(s.result.Failures, models.NewFailure(s.account.AccountID, kind, id, err))
			return nil
		}
		if change == nil {
			return nil
		}
		stats.Changed++
		log.Info().
			Str("action", string(change.Action)).
			Str("resource_id", change.ResourceID).
			Str("details", change.Details).
			Str("tags", change.TagSummary).
			Msg("resource changed")
		s.result.Changes = append(s.result.Changes, *change)
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to list resources")
		s.result.Failures = append(s.result.Failures,
			models.NewFailure(s.account.AccountID, kind, "", fmt.Errorf("failed to list resources: %w", err)))
	}

	s.result.Stats[kind] = stats
}
