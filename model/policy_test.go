package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApprovalPolicy_Validate(t *testing.T) {
	base := func() ApprovalPolicy {
		return ApprovalPolicy{
			ID:              "standard",
			RequiredRoles:   []Role{RoleEngineeringLead},
			MinApprovers:    1,
			TimeoutHours:    24,
			EscalationHours: 4,
		}
	}

	type testCase struct {
		name   string
		mutate func(*ApprovalPolicy)
		valid  bool
	}
	testCases := []testCase{
		{name: "valid", mutate: func(*ApprovalPolicy) {}, valid: true},
		{name: "missing id", mutate: func(p *ApprovalPolicy) { p.ID = "" }},
		{name: "zero approvers", mutate: func(p *ApprovalPolicy) { p.MinApprovers = 0 }},
		{name: "zero timeout", mutate: func(p *ApprovalPolicy) { p.TimeoutHours = 0 }},
		{name: "zero escalation", mutate: func(p *ApprovalPolicy) { p.EscalationHours = 0 }},
		{name: "threshold above one", mutate: func(p *ApprovalPolicy) { p.RiskThreshold = 1.5 }},
		{name: "unknown role", mutate: func(p *ApprovalPolicy) { p.RequiredRoles = []Role{"WIZARD"} }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			policy := base()
			tc.mutate(&policy)
			err := policy.Validate()
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestApprovalPolicy_Durations(t *testing.T) {
	policy := ApprovalPolicy{TimeoutHours: 1.5, EscalationHours: 0.25}
	assert.Equal(t, 90*time.Minute, policy.Timeout())
	assert.Equal(t, 15*time.Minute, policy.EscalationInterval())
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusEscalated.IsTerminal())
	for _, status := range []Status{StatusApproved, StatusRejected, StatusTimeout, StatusCancelled} {
		assert.True(t, status.IsTerminal(), string(status))
	}
}

func TestEscalationLevel_Rank(t *testing.T) {
	assert.True(t, Level1.Rank() < Level2.Rank())
	assert.True(t, Level2.Rank() < Level3.Rank())
	assert.True(t, Level3.Rank() < LevelExecutive.Rank())
	assert.Equal(t, 0, EscalationLevel("BOGUS").Rank())
}

func TestApprovalRequest_Clone(t *testing.T) {
	request := &ApprovalRequest{
		ID:     "r1",
		Policy: ApprovalPolicy{ID: "p1", RequiredRoles: []Role{RoleOnCall}},
		Decisions: []*Decision{
			{ApproverID: "a1", Outcome: OutcomeApproved},
		},
		Meta: map[string]interface{}{"k": "v"},
	}
	clone := request.Clone()
	clone.Decisions[0].Outcome = OutcomeRejected
	clone.Policy.RequiredRoles[0] = RoleSecurityTeam
	clone.Meta["k"] = "changed"

	assert.Equal(t, OutcomeApproved, request.Decisions[0].Outcome)
	assert.Equal(t, RoleOnCall, request.Policy.RequiredRoles[0])
	assert.Equal(t, "v", request.Meta["k"])
}
