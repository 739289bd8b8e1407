package models

// Instance is an observed EC2 instance
type Instance struct {
	InstanceID string
	State      string
	Tags       map[string]string
}

// DBInstance is an observed RDS instance. Tags are not part of the
// descriptor and are fetched by ARN.
type DBInstance struct {
	Identifier        string
	ARN               string
	Status            string
	ClusterIdentifier string
}

// DBCluster is an observed RDS cluster
type DBCluster struct {
	Identifier string
	ARN        string
	Status     string
}

// AutoScalingGroup is an observed autoscaling group with its current size
type AutoScalingGroup struct {
	Name            string
	MinSize         int32
	MaxSize         int32
	DesiredCapacity int32
	Tags            map[string]string
}
