package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/younsl/tagsched/internal/models"
	"github.com/younsl/tagsched/pkg/utils"
)

// RDSAPI is the subset of the RDS client used by RDSClient
type RDSAPI interface {
	rds.DescribeDBInstancesAPIClient
	rds.DescribeDBClustersAPIClient
	ListTagsForResource(ctx context.Context, params *rds.ListTagsForResourceInput, optFns ...func(*rds.Options)) (*rds.ListTagsForResourceOutput, error)
	StartDBInstance(ctx context.Context, params *rds.StartDBInstanceInput, optFns ...func(*rds.Options)) (*rds.StartDBInstanceOutput, error)
	StopDBInstance(ctx context.Context, params *rds.StopDBInstanceInput, optFns ...func(*rds.Options)) (*rds.StopDBInstanceOutput, error)
	StartDBCluster(ctx context.Context, params *rds.StartDBClusterInput, optFns ...func(*rds.Options)) (*rds.StartDBClusterOutput, error)
	StopDBCluster(ctx context.Context, params *rds.StopDBClusterInput, optFns ...func(*rds.Options)) (*rds.StopDBClusterOutput, error)
}

// RDSClient lists and switches RDS instances and clusters
type RDSClient struct {
	client RDSAPI
	region string
}

// NewRDSClient creates a new RDSClient from an account config
func NewRDSClient(cfg aws.Config) *RDSClient {
	return &RDSClient{
		client: rds.NewFromConfig(cfg),
		region: cfg.Region,
	}
}

// NewRDSClientWithAPI creates an RDSClient around an existing API implementation
func NewRDSClientWithAPI(client RDSAPI, region string) *RDSClient {
	return &RDSClient{client: client, region: region}
}

// EachDBInstance pages through all DB instances
func (c *RDSClient) EachDBInstance(ctx context.Context, fn func(models.DBInstance) error) error {
	paginator := rds.NewDescribeDBInstancesPaginator(c.client, &rds.DescribeDBInstancesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("error describing DB instances in %s: %w", c.region, err)
		}
		for _, instance := range page.DBInstances {
			info := models.DBInstance{
				Identifier:        aws.ToString(instance.DBInstanceIdentifier),
				ARN:               aws.ToString(instance.DBInstanceArn),
				Status:            aws.ToString(instance.DBInstanceStatus),
				ClusterIdentifier: aws.ToString(instance.DBClusterIdentifier),
			}
			if err := fn(info); err != nil {
				return err
			}
		}
	}
	return nil
}

// EachDBCluster pages through all DB clusters
func (c *RDSClient) EachDBCluster(ctx context.Context, fn func(models.DBCluster) error) error {
	paginator := rds.NewDescribeDBClustersPaginator(c.client, &rds.DescribeDBClustersInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("error describing DB clusters in %s: %w", c.region, err)
		}
		for _, cluster := range page.DBClusters {
			info := models.DBCluster{
				Identifier: aws.ToString(cluster.DBClusterIdentifier),
				ARN:        aws.ToString(cluster.DBClusterArn),
				Status:     aws.ToString(cluster.Status),
			}
			if err := fn(info); err != nil {
				return err
			}
		}
	}
	return nil
}

// ListTags returns the tags of the RDS resource with the given ARN
func (c *RDSClient) ListTags(ctx context.Context, arn string) (map[string]string, error) {
	resp, err := c.client.ListTagsForResource(ctx, &rds.ListTagsForResourceInput{
		ResourceName: aws.String(arn),
	})
	if err != nil {
		return nil, fmt.Errorf("error listing tags for %s: %w", arn, err)
	}
	return utils.GetRDSTagsMap(resp.TagList), nil
}

// StartDBInstance starts a stopped DB instance
func (c *RDSClient) StartDBInstance(ctx context.Context, id string) error {
	if _, err := c.client.StartDBInstance(ctx, &rds.StartDBInstanceInput{
		DBInstanceIdentifier: aws.String(id),
	}); err != nil {
		return fmt.Errorf("error starting DB instance %s: %w", id, err)
	}
	return nil
}

// StopDBInstance stops an available DB instance
func (c *RDSClient) StopDBInstance(ctx context.Context, id string) error {
	if _, err := c.client.StopDBInstance(ctx, &rds.StopDBInstanceInput{
		DBInstanceIdentifier: aws.String(id),
	}); err != nil {
		return fmt.Errorf("error stopping DB instance %s: %w", id, err)
	}
	return nil
}

// StartDBCluster starts a stopped DB cluster
func (c *RDSClient) StartDBCluster(ctx context.Context, id string) error {
	if _, err := c.client.StartDBCluster(ctx, &rds.StartDBClusterInput{
		DBClusterIdentifier: aws.String(id),
	}); err != nil {
		return fmt.Errorf("error starting DB cluster %s: %w", id, err)
	}
	return nil
}

// StopDBCluster stops an available DB cluster
func (c *RDSClient) StopDBCluster(ctx context.Context, id string) error {
	if _, err := c.client.StopDBCluster(ctx, &rds.StopDBClusterInput{
		DBClusterIdentifier: aws.String(id),
	}); err != nil {
		return fmt.Errorf("error stopping DB cluster %s: %w", id, err)
	}
	return nil
}
