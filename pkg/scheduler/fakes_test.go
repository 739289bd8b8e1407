package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/younsl/tagsched/internal/models"
	"github.com/younsl/tagsched/pkg/schedule"
)

// fakeCloud is an in-memory account whose mutations update observed state
// the way a provider eventually would
type fakeCloud struct {
	instances   []models.Instance
	dbInstances []models.DBInstance
	dbClusters  []models.DBCluster
	groups      []models.AutoScalingGroup
	dbTags      map[string]map[string]string

	failIDs map[string]error
	listErr error
	calls   []string
	filter  models.TagFilter
}

func (f *fakeCloud) fail(id string) error {
	if f.failIDs == nil {
		return nil
	}
	return f.failIDs[id]
}

func (f *fakeCloud) EachInstance(ctx context.Context, filter models.TagFilter, fn func(models.Instance) error) error {
	f.filter = filter
	if f.listErr != nil {
		return f.listErr
	}
	for _, inst := range f.instances {
		if err := fn(inst); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeCloud) setInstanceState(id, state string) {
	for i := range f.instances {
		if f.instances[i].InstanceID == id {
			f.instances[i].State = state
		}
	}
}

func (f *fakeCloud) StartInstance(ctx context.Context, id string) error {
	f.calls = append(f.calls, "start-instance:"+id)
	if err := f.fail(id); err != nil {
		return err
	}
	f.setInstanceState(id, "pending")
	return nil
}

func (f *fakeCloud) StopInstance(ctx context.Context, id string) error {
	f.calls = append(f.calls, "stop-instance:"+id)
	if err := f.fail(id); err != nil {
		return err
	}
	f.setInstanceState(id, "stopping")
	return nil
}

func (f *fakeCloud) EachDBInstance(ctx context.Context, fn func(models.DBInstance) error) error {
	for _, inst := range f.dbInstances {
		if err := fn(inst); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeCloud) EachDBCluster(ctx context.Context, fn func(models.DBCluster) error) error {
	for _, c := range f.dbClusters {
		if err := fn(c); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeCloud) ListTags(ctx context.Context, arn string) (map[string]string, error) {
	f.calls = append(f.calls, "list-tags:"+arn)
	if err := f.fail(arn); err != nil {
		return nil, err
	}
	return f.dbTags[arn], nil
}

func (f *fakeCloud) StartDBInstance(ctx context.Context, id string) error {
	f.calls = append(f.calls, "start-db-instance:"+id)
	return f.fail(id)
}

func (f *fakeCloud) StopDBInstance(ctx context.Context, id string) error {
	f.calls = append(f.calls, "stop-db-instance:"+id)
	return f.fail(id)
}

func (f *fakeCloud) StartDBCluster(ctx context.Context, id string) error {
	f.calls = append(f.calls, "start-db-cluster:"+id)
	return f.fail(id)
}

func (f *fakeCloud) StopDBCluster(ctx context.Context, id string) error {
	f.calls = append(f.calls, "stop-db-cluster:"+id)
	return f.fail(id)
}

func (f *fakeCloud) EachGroup(ctx context.Context, fn func(models.AutoScalingGroup) error) error {
	for _, g := range f.groups {
		if err := fn(g); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeCloud) SetCapacity(ctx context.Context, name string, c schedule.Capacity) error {
	f.calls = append(f.calls, "set-capacity:"+name+":"+c.String())
	if err := f.fail(name); err != nil {
		return err
	}
	for i := range f.groups {
		if f.groups[i].Name == name {
			f.groups[i].MinSize = c.Min
			f.groups[i].MaxSize = c.Max
			f.groups[i].DesiredCapacity = c.Desired
		}
	}
	return nil
}

type fakeFactory struct {
	clouds map[string]*fakeCloud
	err    error
}

func (f *fakeFactory) Providers(ctx context.Context, account models.Account, enabled Enabled) (Providers, error) {
	if f.err != nil {
		return Providers{}, f.err
	}
	cloud, ok := f.clouds[account.AccountID]
	if !ok {
		return Providers{}, errors.New("no such account")
	}
	var p Providers
	if enabled.Compute {
		p.Compute = cloud
	}
	if enabled.Database {
		p.Database = cloud
	}
	if enabled.AutoScaling {
		p.AutoScaling = cloud
	}
	return p, nil
}

type notification struct {
	account models.Account
	changes []models.Change
	now     time.Time
}

type fakeNotifier struct {
	sent []notification
	err  error
}

func (n *fakeNotifier) Notify(ctx context.Context, account models.Account, changes []models.Change, now time.Time) error {
	n.sent = append(n.sent, notification{account: account, changes: changes, now: now})
	return n.err
}

type fakeMetrics struct {
	results []models.AccountResult
}

func (m *fakeMetrics) Record(ctx context.Context, result models.AccountResult) error {
	m.results = append(m.results, result)
	return nil
}

// cancelNotifier cancels the run once the first account has been notified
type cancelNotifier struct {
	fakeNotifier
	cancel context.CancelFunc
}

func (n *cancelNotifier) Notify(ctx context.Context, account models.Account, changes []models.Change, now time.Time) error {
	err := n.fakeNotifier.Notify(ctx, account, changes, now)
	n.cancel()
	return err
}
