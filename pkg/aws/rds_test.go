package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/younsl/tagsched/internal/models"
)

func TestRDSClient_EachDBInstance(t *testing.T) {
	mockClient := new(MockRDSClient)
	mockClient.On("DescribeDBInstances", mock.Anything, mock.Anything).Return(&rds.DescribeDBInstancesOutput{
		DBInstances: []types.DBInstance{
			{
				DBInstanceIdentifier: aws.String("db-1"),
				DBInstanceArn:        aws.String("arn:aws:rds:ap-northeast-2:111111111111:db:db-1"),
				DBInstanceStatus:     aws.String("available"),
			},
			{
				DBInstanceIdentifier: aws.String("aurora-1"),
				DBInstanceArn:        aws.String("arn:aws:rds:ap-northeast-2:111111111111:db:aurora-1"),
				DBInstanceStatus:     aws.String("available"),
				DBClusterIdentifier:  aws.String("aurora"),
			},
		},
	}, nil)

	var got []models.DBInstance
	err := NewRDSClientWithAPI(mockClient, "ap-northeast-2").EachDBInstance(context.Background(), func(inst models.DBInstance) error {
		got = append(got, inst)
		return nil
	})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.DBInstance{
		Identifier: "db-1",
		ARN:        "arn:aws:rds:ap-northeast-2:111111111111:db:db-1",
		Status:     "available",
	}, got[0])
	assert.Equal(t, "aurora", got[1].ClusterIdentifier)
}

func TestRDSClient_EachDBCluster(t *testing.T) {
	mockClient := new(MockRDSClient)
	mockClient.On("DescribeDBClusters", mock.Anything, mock.Anything).Return(&rds.DescribeDBClustersOutput{
		DBClusters: []types.DBCluster{{
			DBClusterIdentifier: aws.String("aurora"),
			DBClusterArn:        aws.String("arn:aws:rds:ap-northeast-2:111111111111:cluster:aurora"),
			Status:              aws.String("stopped"),
		}},
	}, nil)

	var got []models.DBCluster
	err := NewRDSClientWithAPI(mockClient, "ap-northeast-2").EachDBCluster(context.Background(), func(c models.DBCluster) error {
		got = append(got, c)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []models.DBCluster{{
		Identifier: "aurora",
		ARN:        "arn:aws:rds:ap-northeast-2:111111111111:cluster:aurora",
		Status:     "stopped",
	}}, got)
}

func TestRDSClient_ListTags(t *testing.T) {
	arn := "arn:aws:rds:ap-northeast-2:111111111111:db:db-1"
	mockClient := new(MockRDSClient)
	mockClient.On("ListTagsForResource", mock.Anything, &rds.ListTagsForResourceInput{ResourceName: aws.String(arn)}).
		Return(&rds.ListTagsForResourceOutput{
			TagList: []types.Tag{
				{Key: aws.String("Schedule"), Value: aws.String("True")},
				{Key: aws.String("Empty")},
			},
		}, nil)

	tags, err := NewRDSClientWithAPI(mockClient, "ap-northeast-2").ListTags(context.Background(), arn)

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Schedule": "True", "Empty": ""}, tags)
}

func TestRDSClient_StartStop(t *testing.T) {
	mockClient := new(MockRDSClient)
	mockClient.On("StartDBInstance", mock.Anything, &rds.StartDBInstanceInput{DBInstanceIdentifier: aws.String("db-1")}).
		Return(&rds.StartDBInstanceOutput{}, nil)
	mockClient.On("StopDBInstance", mock.Anything, &rds.StopDBInstanceInput{DBInstanceIdentifier: aws.String("db-1")}).
		Return(&rds.StopDBInstanceOutput{}, nil)
	mockClient.On("StartDBCluster", mock.Anything, &rds.StartDBClusterInput{DBClusterIdentifier: aws.String("aurora")}).
		Return(&rds.StartDBClusterOutput{}, nil)
	mockClient.On("StopDBCluster", mock.Anything, &rds.StopDBClusterInput{DBClusterIdentifier: aws.String("aurora")}).
		Return(nil, errors.New("InvalidDBClusterStateFault"))

	client := NewRDSClientWithAPI(mockClient, "ap-northeast-2")
	ctx := context.Background()

	assert.NoError(t, client.StartDBInstance(ctx, "db-1"))
	assert.NoError(t, client.StopDBInstance(ctx, "db-1"))
	assert.NoError(t, client.StartDBCluster(ctx, "aurora"))
	assert.Error(t, client.StopDBCluster(ctx, "aurora"))
	mockClient.AssertExpectations(t)
}
