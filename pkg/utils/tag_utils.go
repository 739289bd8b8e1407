package utils

import (
	"sort"
	"strings"

	asgTypes "github.com/aws/aws-sdk-go-v2/service/autoscaling/types"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	rdsTypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
)

// GetTagsMap converts a slice of EC2 tags to a map.
// A tag with a nil value is kept with an empty value.
func GetTagsMap(tags []types.Tag) map[string]string {
	result := make(map[string]string, len(tags))
	for _, tag := range tags {
		if tag.Key != nil && *tag.Key != "" {
			result[*tag.Key] = SafeDeref(tag.Value)
		}
	}
	return result
}

// GetRDSTagsMap converts a slice of RDS tags to a map
func GetRDSTagsMap(tags []rdsTypes.Tag) map[string]string {
	result := make(map[string]string, len(tags))
	for _, tag := range tags {
		if tag.Key != nil && *tag.Key != "" {
			result[*tag.Key] = SafeDeref(tag.Value)
		}
	}
	return result
}

// GetASGTagsMap converts autoscaling group tag descriptions to a map
func GetASGTagsMap(tags []asgTypes.TagDescription) map[string]string {
	result := make(map[string]string, len(tags))
	for _, tag := range tags {
		if tag.Key != nil && *tag.Key != "" {
			result[*tag.Key] = SafeDeref(tag.Value)
		}
	}
	return result
}

// CandidateTagValues returns value in its given, lower and upper case forms,
// sorted and without duplicates. EC2 tag filters match values exactly, so
// this widens a filter to the common spellings.
func CandidateTagValues(value string) []string {
	seen := map[string]bool{}
	var values []string
	for _, v := range []string{value, strings.ToLower(value), strings.ToUpper(value)} {
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	sort.Strings(values)
	return values
}
