package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/younsl/tagsched/internal/models"
)

// Metric names published per account
const (
	MetricChanges  = "Changes"
	MetricFailures = "Failures"
	MetricScanned  = "Scanned"
)

// CloudWatchAPI is the subset of the CloudWatch client used by MetricsPublisher
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// MetricsPublisher sends per-account run statistics to CloudWatch
type MetricsPublisher struct {
	client    CloudWatchAPI
	namespace string
}

// NewMetricsPublisher creates a publisher writing to namespace with the caller's credentials
func NewMetricsPublisher(cfg aws.Config, namespace string) *MetricsPublisher {
	return NewMetricsPublisherWithAPI(cloudwatch.NewFromConfig(cfg), namespace)
}

// NewMetricsPublisherWithAPI creates a publisher around an existing CloudWatch client
func NewMetricsPublisherWithAPI(client CloudWatchAPI, namespace string) *MetricsPublisher {
	return &MetricsPublisher{client: client, namespace: namespace}
}

func datum(name string, value int, dims ...cwTypes.Dimension) cwTypes.MetricDatum {
	return cwTypes.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(float64(value)),
		Unit:       cwTypes.StandardUnitCount,
		Dimensions: dims,
	}
}

func dimension(name, value string) cwTypes.Dimension {
	return cwTypes.Dimension{Name: aws.String(name), Value: aws.String(value)}
}

// Record publishes Changes and Failures for the account and Scanned per resource kind
func (p *MetricsPublisher) Record(ctx context.Context, result models.AccountResult) error {
	account := dimension("AccountId", result.AccountID)

	data := []cwTypes.MetricDatum{
		datum(MetricChanges, len(result.Changes), account),
		datum(MetricFailures, len(result.Failures), account),
	}
	for _, kind := range models.Kinds {
		stats, ok := result.Stats[kind]
		if !ok {
			continue
		}
		data = append(data, datum(MetricScanned, stats.Scanned, account, dimension("Kind", string(kind))))
	}

	_, err := p.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(p.namespace),
		MetricData: data,
	})
	if err != nil {
		return fmt.Errorf("error putting metric data to %s: %w", p.namespace, err)
	}
	return nil
}
