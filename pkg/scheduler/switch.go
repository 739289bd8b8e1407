package scheduler

import (
	"context"
	"fmt"

	"github.com/younsl/tagsched/internal/models"
	"github.com/younsl/tagsched/pkg/schedule"
)

// Status values that allow a transition. Anything else, including
// transitional states such as "starting" or "stopping", is left alone.
const (
	StatusStopped   = "stopped"
	StatusRunning   = "running"
	StatusAvailable = "available"
)

// Env is the evaluation input shared by every resource in a run
type Env struct {
	Config        schedule.Config
	Clock         schedule.Clock
	NotifyTagKeys []string
}

// Switchable is a resource with a binary on/off lifecycle. Each resource
// kind supplies its own status vocabulary through CanStart and CanStop.
type Switchable interface {
	Kind() models.ResourceKind
	ID() string
	Status() string
	CanStart() bool
	CanStop() bool
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// ReconcileSwitch starts or stops r when its tags and status disagree.
// It returns nil when nothing was done.
func ReconcileSwitch(ctx context.Context, r Switchable, tags schedule.Tags, env Env) (*models.Change, error) {
	switch schedule.Evaluate(tags, env.Config, env.Clock) {
	case schedule.Run:
		if !r.CanStart() {
			return nil, nil
		}
		if err := r.Start(ctx); err != nil {
			return nil, fmt.Errorf("failed to start %s %s (status %s): %w", r.Kind(), r.ID(), r.Status(), err)
		}
		return newChange(models.ActionStart, r.Kind(), r.ID(), tags, env, ""), nil
	case schedule.Halt:
		if !r.CanStop() {
			return nil, nil
		}
		if err := r.Stop(ctx); err != nil {
			return nil, fmt.Errorf("failed to stop %s %s (status %s): %w", r.Kind(), r.ID(), r.Status(), err)
		}
		return newChange(models.ActionStop, r.Kind(), r.ID(), tags, env, ""), nil
	default:
		return nil, nil
	}
}

func newChange(action models.Action, kind models.ResourceKind, id string, tags schedule.Tags, env Env, details string) *models.Change {
	return &models.Change{
		Action:     action,
		Kind:       kind,
		ResourceID: id,
		Details:    details,
		TagSummary: tags.Annotation(env.NotifyTagKeys),
	}
}
