package aws

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/younsl/tagsched/internal/models"
	"github.com/younsl/tagsched/pkg/utils"
)

// EC2API is the subset of the EC2 client used by EC2Client
type EC2API interface {
	ec2.DescribeInstancesAPIClient
	StartInstances(ctx context.Context, params *ec2.StartInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error)
	StopInstances(ctx context.Context, params *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error)
}

// EC2Client struct for EC2 client
type EC2Client struct {
	client EC2API
	region string
}

// NewEC2Client creates a new EC2Client from an account config
func NewEC2Client(cfg aws.Config) *EC2Client {
	return &EC2Client{
		client: ec2.NewFromConfig(cfg),
		region: cfg.Region,
	}
}

// NewEC2ClientWithAPI creates an EC2Client around an existing API implementation
func NewEC2ClientWithAPI(client EC2API, region string) *EC2Client {
	return &EC2Client{client: client, region: region}
}

// instanceFilters builds the server-side tag filter. The schedule evaluator
// still makes the final, case-insensitive decision.
func instanceFilters(filter models.TagFilter) []types.Filter {
	if filter.Key == "" {
		return nil
	}
	if strings.TrimSpace(filter.Value) != "" {
		return []types.Filter{{
			Name:   aws.String("tag:" + filter.Key),
			Values: utils.CandidateTagValues(strings.TrimSpace(filter.Value)),
		}}
	}
	return []types.Filter{{
		Name:   aws.String("tag-key"),
		Values: []string{filter.Key},
	}}
}

// EachInstance pages through instances matching filter and passes each one to fn
func (c *EC2Client) EachInstance(ctx context.Context, filter models.TagFilter, fn func(models.Instance) error) error {
	input := &ec2.DescribeInstancesInput{
		Filters: instanceFilters(filter),
	}

	paginator := ec2.NewDescribeInstancesPaginator(c.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("error querying EC2 instances in %s: %w", c.region, err)
		}

		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				info := models.Instance{
					InstanceID: aws.ToString(instance.InstanceId),
					Tags:       utils.GetTagsMap(instance.Tags),
				}
				if instance.State != nil {
					info.State = string(instance.State.Name)
				}

				if err := fn(info); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// StartInstance starts a stopped instance
func (c *EC2Client) StartInstance(ctx context.Context, id string) error {
	_, err := c.client.StartInstances(ctx, &ec2.StartInstancesInput{
		InstanceIds: []string{id},
	})
	if err != nil {
		return fmt.Errorf("error starting EC2 instance %s: %w", id, err)
	}
	return nil
}

// StopInstance stops a running instance
func (c *EC2Client) StopInstance(ctx context.Context, id string) error {
	_, err := c.client.StopInstances(ctx, &ec2.StopInstancesInput{
		InstanceIds: []string{id},
	})
	if err != nil {
		return fmt.Errorf("error stopping EC2 instance %s: %w", id, err)
	}
	return nil
}
