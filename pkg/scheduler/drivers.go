package scheduler

import (
	"context"
	"fmt"

	"github.com/younsl/tagsched/internal/models"
	"github.com/younsl/tagsched/pkg/schedule"
)

type computeInstance struct {
	provider ComputeProvider
	instance models.Instance
}

func (c computeInstance) Kind() models.ResourceKind { return models.KindCompute }
func (c computeInstance) ID() string                { return c.instance.InstanceID }
func (c computeInstance) Status() string            { return c.instance.State }
func (c computeInstance) CanStart() bool            { return c.instance.State == StatusStopped }
func (c computeInstance) CanStop() bool             { return c.instance.State == StatusRunning }

func (c computeInstance) Start(ctx context.Context) error {
	return c.provider.StartInstance(ctx, c.instance.InstanceID)
}

func (c computeInstance) Stop(ctx context.Context) error {
	return c.provider.StopInstance(ctx, c.instance.InstanceID)
}

type dbInstance struct {
	provider DatabaseProvider
	instance models.DBInstance
}

func (d dbInstance) Kind() models.ResourceKind { return models.KindDatabaseInstance }
func (d dbInstance) ID() string                { return d.instance.Identifier }
func (d dbInstance) Status() string            { return d.instance.Status }
func (d dbInstance) CanStart() bool            { return d.instance.Status == StatusStopped }
func (d dbInstance) CanStop() bool             { return d.instance.Status == StatusAvailable }

func (d dbInstance) Start(ctx context.Context) error {
	return d.provider.StartDBInstance(ctx, d.instance.Identifier)
}

func (d dbInstance) Stop(ctx context.Context) error {
	return d.provider.StopDBInstance(ctx, d.instance.Identifier)
}

type dbCluster struct {
	provider DatabaseProvider
	cluster  models.DBCluster
}

func (d dbCluster) Kind() models.ResourceKind { return models.KindDatabaseCluster }
func (d dbCluster) ID() string                { return d.cluster.Identifier }
func (d dbCluster) Status() string            { return d.cluster.Status }
func (d dbCluster) CanStart() bool            { return d.cluster.Status == StatusStopped }
func (d dbCluster) CanStop() bool             { return d.cluster.Status == StatusAvailable }

func (d dbCluster) Start(ctx context.Context) error {
	return d.provider.StartDBCluster(ctx, d.cluster.Identifier)
}

func (d dbCluster) Stop(ctx context.Context) error {
	return d.provider.StopDBCluster(ctx, d.cluster.Identifier)
}

// ReconcileInstance reconciles one EC2 instance
func ReconcileInstance(ctx context.Context, p ComputeProvider, inst models.Instance, env Env) (*models.Change, error) {
	if inst.InstanceID == "" {
		return nil, nil
	}
	return ReconcileSwitch(ctx, computeInstance{provider: p, instance: inst}, inst.Tags, env)
}

// ReconcileDBInstance reconciles one RDS instance. Cluster members are
// skipped; they are handled through their cluster.
func ReconcileDBInstance(ctx context.Context, p DatabaseProvider, inst models.DBInstance, env Env) (*models.Change, error) {
	if inst.ClusterIdentifier != "" || inst.ARN == "" {
		return nil, nil
	}
	tags, err := p.ListTags(ctx, inst.ARN)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags of %s: %w", inst.Identifier, err)
	}
	return ReconcileSwitch(ctx, dbInstance{provider: p, instance: inst}, tags, env)
}

// ReconcileDBCluster reconciles one RDS cluster
func ReconcileDBCluster(ctx context.Context, p DatabaseProvider, cluster models.DBCluster, env Env) (*models.Change, error) {
	if cluster.ARN == "" {
		return nil, nil
	}
	tags, err := p.ListTags(ctx, cluster.ARN)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags of %s: %w", cluster.Identifier, err)
	}
	return ReconcileSwitch(ctx, dbCluster{provider: p, cluster: cluster}, tags, env)
}

// ReconcileGroup resizes one autoscaling group to its scheduled capacity,
// or to zero outside the schedule window
func ReconcileGroup(ctx context.Context, p AutoScalingProvider, group models.AutoScalingGroup, env Env) (*models.Change, error) {
	if group.Name == "" {
		return nil, nil
	}

	tags := schedule.Tags(group.Tags)
	state := schedule.Evaluate(tags, env.Config, env.Clock)
	if state == schedule.Undetermined {
		return nil, nil
	}

	current := schedule.Capacity{
		Min:     group.MinSize,
		Max:     group.MaxSize,
		Desired: group.DesiredCapacity,
	}
	target, ok := schedule.ReconcileCapacity(current, tags, env.Config.Capacity, state)
	if !ok {
		return nil, nil
	}

	if err := p.SetCapacity(ctx, group.Name, target); err != nil {
		return nil, fmt.Errorf("failed to update capacity of %s: %w", group.Name, err)
	}
	return newChange(models.ActionScale, models.KindAutoScalingGroup, group.Name, tags, env, target.String()), nil
}
