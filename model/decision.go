package model

import "time"

// Outcome represents the verdict carried by a single decision.
type Outcome string

const (
	OutcomeApproved Outcome = "APPROVED"
	OutcomeRejected Outcome = "REJECTED"
)

// Decision is an immutable, append-only record of a single approver's
// verdict on a request.  The approver name is denormalised at submission
// time so the audit trail stays readable even if the registry changes.
type Decision struct {
	ApproverID   string                 `json:"approverId"`
	ApproverName string                 `json:"approverName"`
	Outcome      Outcome                `json:"outcome"`
	Reasoning    string                 `json:"reasoning,omitempty"`
	DecidedAt    time.Time              `json:"decidedAt"`
	Meta         map[string]interface{} `json:"meta,omitempty"`
}

// Clone returns a copy of the decision.
func (d *Decision) Clone() *Decision {
	if d == nil {
		return nil
	}
	ret := *d
	if d.Meta != nil {
		ret.Meta = make(map[string]interface{}, len(d.Meta))
		for k, v := range d.Meta {
			ret.Meta[k] = v
		}
	}
	return &ret
}
