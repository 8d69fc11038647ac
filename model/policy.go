package model

import (
	"fmt"
	"time"
)

// ApprovalPolicy is the named, immutable rule set governing how many and
// which approvers a request needs and how long it may remain open.  A policy
// is captured by value on every request at creation time, so later catalog
// updates never change the rules of an in-flight request.
type ApprovalPolicy struct {
	ID                 string  `json:"id" yaml:"id"`
	Description        string  `json:"description,omitempty" yaml:"description,omitempty"`
	RequiredRoles      []Role  `json:"requiredRoles" yaml:"requiredRoles"`
	MinApprovers       int     `json:"minApprovers" yaml:"minApprovers"`
	RequireAllRoles    bool    `json:"requireAllRoles" yaml:"requireAllRoles"`
	TimeoutHours       float64 `json:"timeoutHours" yaml:"timeoutHours"`
	EscalationHours    float64 `json:"escalationHours" yaml:"escalationHours"`
	AllowSelfApproval  bool    `json:"allowSelfApproval" yaml:"allowSelfApproval"`
	RequireReasoning   bool    `json:"requireReasoning" yaml:"requireReasoning"`
	AutoApproveLowRisk bool    `json:"autoApproveLowRisk" yaml:"autoApproveLowRisk"`
	RiskThreshold      float64 `json:"riskThreshold" yaml:"riskThreshold"`
}

// Timeout returns the policy timeout as a duration.
func (p *ApprovalPolicy) Timeout() time.Duration {
	return time.Duration(p.TimeoutHours * float64(time.Hour))
}

// EscalationInterval returns the escalation threshold as a duration.
func (p *ApprovalPolicy) EscalationInterval() time.Duration {
	return time.Duration(p.EscalationHours * float64(time.Hour))
}

// Validate returns an error describing the first invalid setting or nil.
func (p *ApprovalPolicy) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("policy id is required")
	}
	if p.MinApprovers <= 0 {
		return fmt.Errorf("policy %s: minApprovers must be > 0", p.ID)
	}
	if p.TimeoutHours <= 0 {
		return fmt.Errorf("policy %s: timeoutHours must be > 0", p.ID)
	}
	if p.EscalationHours <= 0 {
		return fmt.Errorf("policy %s: escalationHours must be > 0", p.ID)
	}
	if p.RiskThreshold < 0 || p.RiskThreshold > 1 {
		return fmt.Errorf("policy %s: riskThreshold must be within [0,1]", p.ID)
	}
	for _, role := range p.RequiredRoles {
		if !role.IsValid() {
			return fmt.Errorf("policy %s: unknown role %q", p.ID, role)
		}
	}
	return nil
}

// Clone returns a deep copy of the policy.
func (p *ApprovalPolicy) Clone() *ApprovalPolicy {
	if p == nil {
		return nil
	}
	ret := *p
	ret.RequiredRoles = append([]Role(nil), p.RequiredRoles...)
	return &ret
}
