package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	"github.com/younsl/tagsched/internal/models"
	"github.com/younsl/tagsched/pkg/schedule"
	"github.com/younsl/tagsched/pkg/utils"
)

// AutoScalingAPI is the subset of the Auto Scaling client used by AutoScalingClient
type AutoScalingAPI interface {
	autoscaling.DescribeAutoScalingGroupsAPIClient
	UpdateAutoScalingGroup(ctx context.Context, params *autoscaling.UpdateAutoScalingGroupInput, optFns ...func(*autoscaling.Options)) (*autoscaling.UpdateAutoScalingGroupOutput, error)
}

// AutoScalingClient lists and resizes autoscaling groups
type AutoScalingClient struct {
	client AutoScalingAPI
	region string
}

// NewAutoScalingClient creates a new AutoScalingClient from an account config
func NewAutoScalingClient(cfg aws.Config) *AutoScalingClient {
	return &AutoScalingClient{
		client: autoscaling.NewFromConfig(cfg),
		region: cfg.Region,
	}
}

// NewAutoScalingClientWithAPI creates an AutoScalingClient around an existing API implementation
func NewAutoScalingClientWithAPI(client AutoScalingAPI, region string) *AutoScalingClient {
	return &AutoScalingClient{client: client, region: region}
}

// EachGroup pages through all autoscaling groups. Groups missing any of
// their size fields are skipped.
func (c *AutoScalingClient) EachGroup(ctx context.Context, fn func(models.AutoScalingGroup) error) error {
	paginator := autoscaling.NewDescribeAutoScalingGroupsPaginator(c.client, &autoscaling.DescribeAutoScalingGroupsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("error describing autoscaling groups in %s: %w", c.region, err)
		}
		for _, group := range page.AutoScalingGroups {
			sizes, ok := utils.Int32Values(group.MinSize, group.MaxSize, group.DesiredCapacity)
			if !ok {
				continue
			}
			info := models.AutoScalingGroup{
				Name:            aws.ToString(group.AutoScalingGroupName),
				MinSize:         sizes[0],
				MaxSize:         sizes[1],
				DesiredCapacity: sizes[2],
				Tags:            utils.GetASGTagsMap(group.Tags),
			}
			if err := fn(info); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetCapacity updates the min, max and desired size of a group in one call
func (c *AutoScalingClient) SetCapacity(ctx context.Context, name string, capacity schedule.Capacity) error {
	_, err := c.client.UpdateAutoScalingGroup(ctx, &autoscaling.UpdateAutoScalingGroupInput{
		AutoScalingGroupName: aws.String(name),
		MinSize:              aws.Int32(capacity.Min),
		MaxSize:              aws.Int32(capacity.Max),
		DesiredCapacity:      aws.Int32(capacity.Desired),
	})
	if err != nil {
		return fmt.Errorf("error updating autoscaling group %s: %w", name, err)
	}
	return nil
}
