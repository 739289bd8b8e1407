package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/younsl/tagsched/internal/models"
	"github.com/younsl/tagsched/pkg/scheduler"
	"github.com/younsl/tagsched/pkg/utils"
)

// DefaultSessionName is the role session name used when assuming account roles
const DefaultSessionName = "scheduler-lambda"

const imdsTimeout = 2 * time.Second

// RegionGetter is the subset of the IMDS client used to discover the region
type RegionGetter interface {
	GetRegion(ctx context.Context, params *imds.GetRegionInput, optFns ...func(*imds.Options)) (*imds.GetRegionOutput, error)
}

// ResolveRegion asks instance metadata for the current region and falls
// back to the default region when metadata is unavailable
func ResolveRegion(ctx context.Context, client RegionGetter) string {
	ctx, cancel := context.WithTimeout(ctx, imdsTimeout)
	defer cancel()

	out, err := client.GetRegion(ctx, &imds.GetRegionInput{})
	if err != nil || out == nil || out.Region == "" {
		return utils.GetDefaultRegion()
	}
	return out.Region
}

// LoadBaseConfig loads the credentials of the caller. region may be empty,
// in which case the SDK chain and then instance metadata decide.
func LoadBaseConfig(ctx context.Context, region string) (aws.Config, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("error loading AWS config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = ResolveRegion(ctx, imds.NewFromConfig(cfg))
	}
	return cfg, nil
}

// SessionFactory assumes a role in each account and builds its clients
type SessionFactory struct {
	base        aws.Config
	sts         stscreds.AssumeRoleAPIClient
	sessionName string
}

// NewSessionFactory creates a SessionFactory using the base config for STS
func NewSessionFactory(base aws.Config) *SessionFactory {
	return NewSessionFactoryWithAPI(base, sts.NewFromConfig(base))
}

// NewSessionFactoryWithAPI creates a SessionFactory around an existing STS client
func NewSessionFactoryWithAPI(base aws.Config, client stscreds.AssumeRoleAPIClient) *SessionFactory {
	return &SessionFactory{
		base:        base,
		sts:         client,
		sessionName: DefaultSessionName,
	}
}

// AccountConfig returns a config for the account's region whose credentials
// come from assuming the account role
func (f *SessionFactory) AccountConfig(account models.Account) aws.Config {
	cfg := f.base.Copy()
	cfg.Region = account.Region

	provider := stscreds.NewAssumeRoleProvider(f.sts, account.RoleARN(), func(o *stscreds.AssumeRoleOptions) {
		o.RoleSessionName = f.sessionName
	})
	cfg.Credentials = aws.NewCredentialsCache(provider)
	return cfg
}

// Providers assumes the account role and builds clients for the enabled kinds.
// Credentials are retrieved up front so a bad role fails the account before
// any resource is listed.
func (f *SessionFactory) Providers(ctx context.Context, account models.Account, enabled scheduler.Enabled) (scheduler.Providers, error) {
	cfg := f.AccountConfig(account)
	if _, err := cfg.Credentials.Retrieve(ctx); err != nil {
		return scheduler.Providers{}, fmt.Errorf("failed to assume role %s: %w", account.RoleARN(), err)
	}

	var providers scheduler.Providers
	if enabled.Compute {
		providers.Compute = NewEC2Client(cfg)
	}
	if enabled.Database {
		providers.Database = NewRDSClient(cfg)
	}
	if enabled.AutoScaling {
		providers.AutoScaling = NewAutoScalingClient(cfg)
	}
	return providers, nil
}
