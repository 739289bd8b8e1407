package models

// Action is the kind of mutation applied to a resource
type Action string

const (
	ActionStart Action = "start"
	ActionStop  Action = "stop"
	ActionScale Action = "scale"
)

// ResourceKind identifies which driver handled a resource
type ResourceKind string

const (
	KindCompute          ResourceKind = "compute"
	KindDatabaseInstance ResourceKind = "database-instance"
	KindDatabaseCluster  ResourceKind = "database-cluster"
	KindAutoScalingGroup ResourceKind = "autoscaling-group"
)

// Kinds lists resource kinds in processing order
var Kinds = []ResourceKind{
	KindCompute,
	KindDatabaseInstance,
	KindDatabaseCluster,
	KindAutoScalingGroup,
}

// Label returns the short label used in reports
func (k ResourceKind) Label() string {
	switch k {
	case KindCompute:
		return "EC2"
	case KindDatabaseInstance:
		return "RDS-Instance"
	case KindDatabaseCluster:
		return "RDS-Cluster"
	case KindAutoScalingGroup:
		return "ASG"
	default:
		return string(k)
	}
}

// Change describes one mutation that was issued
type Change struct {
	Action     Action       `json:"action"`
	Kind       ResourceKind `json:"resource_type"`
	ResourceID string       `json:"resource_id"`
	Details    string       `json:"details,omitempty"`
	TagSummary string       `json:"tag_summary,omitempty"`
}

// Extra joins details and tag summary for display
func (c Change) Extra() string {
	switch {
	case c.Details != "" && c.TagSummary != "":
		return c.Details + "; " + c.TagSummary
	case c.Details != "":
		return c.Details
	default:
		return c.TagSummary
	}
}
