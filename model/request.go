package model

import "time"

// Status represents the lifecycle state of an approval request.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusEscalated Status = "ESCALATED" // reporting view of a PENDING request above Level1
	StatusTimeout   Status = "TIMEOUT"
	StatusCancelled Status = "CANCELLED"
)

// IsTerminal reports whether the status accepts no further mutation.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusTimeout, StatusCancelled:
		return true
	}
	return false
}

// EscalationLevel represents the urgency tier of a pending request.  Levels
// are ordered; a request's level never decreases.
type EscalationLevel string

const (
	Level1         EscalationLevel = "LEVEL_1"
	Level2         EscalationLevel = "LEVEL_2"
	Level3         EscalationLevel = "LEVEL_3"
	LevelExecutive EscalationLevel = "EXECUTIVE"
)

// Rank returns the numeric rank of the level, starting at 1 for Level1.
// Unknown levels rank 0 so they always lose comparisons.
func (l EscalationLevel) Rank() int {
	switch l {
	case Level1:
		return 1
	case Level2:
		return 2
	case Level3:
		return 3
	case LevelExecutive:
		return 4
	}
	return 0
}

// ApprovalRequest is the aggregate root routed through the engine.  The
// bound policy is a value copy taken at creation; Deadline is computed once
// from CreatedAt + policy timeout and never recomputed.
type ApprovalRequest struct {
	ID            string                 `json:"id"`
	RequestType   string                 `json:"requestType"`
	RequesterID   string                 `json:"requesterId"`
	RequesterName string                 `json:"requesterName,omitempty"`
	TenantID      string                 `json:"tenantId,omitempty"`
	Title         string                 `json:"title"`
	Description   string                 `json:"description,omitempty"`
	RiskScore     float64                `json:"riskScore"`
	Policy        ApprovalPolicy         `json:"policy"`
	Payload       interface{}            `json:"payload,omitempty"`
	Status        Status                 `json:"status"`
	Decisions     []*Decision            `json:"decisions"`
	Escalation    EscalationLevel        `json:"escalationLevel"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
	Deadline      time.Time              `json:"deadline"`
	Meta          map[string]interface{} `json:"meta,omitempty"`
}

// DecisionBy returns the decision recorded by the given approver, if any.
func (r *ApprovalRequest) DecisionBy(approverID string) *Decision {
	for _, d := range r.Decisions {
		if d.ApproverID == approverID {
			return d
		}
	}
	return nil
}

// Approvals returns the decisions with an APPROVED outcome, in submission
// order.
func (r *ApprovalRequest) Approvals() []*Decision {
	var ret []*Decision
	for _, d := range r.Decisions {
		if d.Outcome == OutcomeApproved {
			ret = append(ret, d)
		}
	}
	return ret
}

// Clone returns a deep copy of the request so DAO implementations can hand
// out snapshots without data races.
func (r *ApprovalRequest) Clone() *ApprovalRequest {
	if r == nil {
		return nil
	}
	ret := *r
	ret.Policy = *r.Policy.Clone()
	if r.Decisions != nil {
		ret.Decisions = make([]*Decision, len(r.Decisions))
		for i, d := range r.Decisions {
			ret.Decisions[i] = d.Clone()
		}
	}
	if r.Meta != nil {
		ret.Meta = make(map[string]interface{}, len(r.Meta))
		for k, v := range r.Meta {
			ret.Meta[k] = v
		}
	}
	return &ret
}
