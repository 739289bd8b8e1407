package models

import "fmt"

// Failure is an error tied to one resource, resource kind or account.
// ResourceID is empty when a whole kind or the account failed.
type Failure struct {
	AccountID  string       `json:"account_id"`
	Kind       ResourceKind `json:"resource_type,omitempty"`
	ResourceID string       `json:"resource_id,omitempty"`
	Err        error        `json:"-"`
	Message    string       `json:"error"`
}

// NewFailure builds a Failure keeping the error message for reports
func NewFailure(accountID string, kind ResourceKind, resourceID string, err error) Failure {
	return Failure{
		AccountID:  accountID,
		Kind:       kind,
		ResourceID: resourceID,
		Err:        err,
		Message:    err.Error(),
	}
}

func (f Failure) Error() string {
	switch {
	case f.ResourceID != "":
		return fmt.Sprintf("account %s: %s %s: %v", f.AccountID, f.Kind, f.ResourceID, f.Err)
	case f.Kind != "":
		return fmt.Sprintf("account %s: %s: %v", f.AccountID, f.Kind, f.Err)
	default:
		return fmt.Sprintf("account %s: %v", f.AccountID, f.Err)
	}
}

func (f Failure) Unwrap() error {
	return f.Err
}

// KindStats counts scanned resources and issued changes for one kind
type KindStats struct {
	Scanned int `json:"scanned"`
	Changed int `json:"changed"`
}

// AccountResult is the outcome of one account in a run
type AccountResult struct {
	AccountID string                     `json:"account"`
	Region    string                     `json:"region"`
	Changes   []Change                   `json:"changes"`
	Stats     map[ResourceKind]KindStats `json:"stats"`
	Failures  []Failure                  `json:"failures,omitempty"`
}
