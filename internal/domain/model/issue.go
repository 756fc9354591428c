package model

import "fmt"

// IssueKind classifies a recovered data-quality anomaly.
type IssueKind string

const (
	IssueMissingField     IssueKind = "missing_field"
	IssueUnmappedCategory IssueKind = "unmapped_category"
	IssueMalformedNumeric IssueKind = "malformed_numeric"
)

// Issue is a data-quality note. Issues never abort a run; the offending value
// has already been scored as zero when an Issue is produced.
type Issue struct {
	Kind  IssueKind `json:"kind"`
	Team  int       `json:"team"`
	Match int       `json:"match"`
	Phase string    `json:"phase"`
	Field string    `json:"field"`
	Value any       `json:"value,omitempty"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: team %d match %d %s/%q (value %v)", i.Kind, i.Team, i.Match, i.Phase, i.Field, i.Value)
}
