package scheduler

import (
	"context"

	"github.com/younsl/tagsched/internal/models"
	"github.com/younsl/tagsched/pkg/schedule"
)

// ComputeProvider lists and switches EC2 instances.
// Each* methods stream resources to fn page by page and stop at the first
// error returned by fn.
type ComputeProvider interface {
	EachInstance(ctx context.Context, filter models.TagFilter, fn func(models.Instance) error) error
	StartInstance(ctx context.Context, id string) error
	StopInstance(ctx context.Context, id string) error
}

// DatabaseProvider lists and switches RDS instances and clusters
type DatabaseProvider interface {
	EachDBInstance(ctx context.Context, fn func(models.DBInstance) error) error
	EachDBCluster(ctx context.Context, fn func(models.DBCluster) error) error
	ListTags(ctx context.Context, arn string) (map[string]string, error)
	StartDBInstance(ctx context.Context, id string) error
	StopDBInstance(ctx context.Context, id string) error
	StartDBCluster(ctx context.Context, id string) error
	StopDBCluster(ctx context.Context, id string) error
}

// AutoScalingProvider lists and resizes autoscaling groups
type AutoScalingProvider interface {
	EachGroup(ctx context.Context, fn func(models.AutoScalingGroup) error) error
	SetCapacity(ctx context.Context, name string, capacity schedule.Capacity) error
}

// Providers holds the clients of one account. A nil provider disables its kinds.
type Providers struct {
	Compute     ComputeProvider
	Database    DatabaseProvider
	AutoScaling AutoScalingProvider
}

// Enabled selects which resource kinds a run reconciles
type Enabled struct {
	Compute     bool
	Database    bool
	AutoScaling bool
}

// ProviderFactory builds the providers for an account, typically after
// assuming a role in it
type ProviderFactory interface {
	Providers(ctx context.Context, account models.Account, enabled Enabled) (Providers, error)
}
