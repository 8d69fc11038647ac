package validator

import (
	"testing"

	"github.com/arbiterhq/arbiter/model"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	roles := func(approverID string) []model.Role {
		switch approverID {
		case "sec":
			return []model.Role{model.RoleSecurityTeam}
		case "eng":
			return []model.Role{model.RoleEngineeringLead}
		case "both":
			return []model.Role{model.RoleSecurityTeam, model.RoleEngineeringLead}
		}
		return nil
	}
	approved := func(approverID string) *model.Decision {
		return &model.Decision{ApproverID: approverID, Outcome: model.OutcomeApproved}
	}
	rejected := func(approverID string) *model.Decision {
		return &model.Decision{ApproverID: approverID, Outcome: model.OutcomeRejected}
	}

	type testCase struct {
		name         string
		policy       model.ApprovalPolicy
		decisions    []*model.Decision
		requesterID  string
		expectOK     bool
		expectReason string
		expectRoles  []model.Role
	}

	testCases := []testCase{
		{
			name:         "no decisions yet",
			policy:       model.ApprovalPolicy{MinApprovers: 2},
			expectReason: "Need 2 more approval(s): 0 of 2 received",
		},
		{
			name:         "one of two approvals",
			policy:       model.ApprovalPolicy{MinApprovers: 2},
			decisions:    []*model.Decision{approved("sec")},
			expectReason: "Need 1 more approval(s): 1 of 2 received",
		},
		{
			name:      "quorum reached without role constraint",
			policy:    model.ApprovalPolicy{MinApprovers: 2},
			decisions: []*model.Decision{approved("sec"), approved("eng")},
			expectOK:  true,
		},
		{
			name:         "rejection does not count toward quorum",
			policy:       model.ApprovalPolicy{MinApprovers: 2},
			decisions:    []*model.Decision{approved("sec"), rejected("eng")},
			expectReason: "Need 1 more approval(s): 1 of 2 received",
		},
		{
			name:         "self approval blocked",
			policy:       model.ApprovalPolicy{MinApprovers: 1},
			decisions:    []*model.Decision{approved("sec")},
			requesterID:  "sec",
			expectReason: "Self-approval not allowed",
		},
		{
			name:        "self approval allowed when policy permits",
			policy:      model.ApprovalPolicy{MinApprovers: 1, AllowSelfApproval: true},
			decisions:   []*model.Decision{approved("sec")},
			requesterID: "sec",
			expectOK:    true,
		},
		{
			name: "all roles covered",
			policy: model.ApprovalPolicy{
				MinApprovers:    2,
				RequireAllRoles: true,
				RequiredRoles:   []model.Role{model.RoleSecurityTeam, model.RoleEngineeringLead},
			},
			decisions: []*model.Decision{approved("sec"), approved("eng")},
			expectOK:  true,
		},
		{
			name: "missing role reported",
			policy: model.ApprovalPolicy{
				MinApprovers:    1,
				RequireAllRoles: true,
				RequiredRoles:   []model.Role{model.RoleSecurityTeam, model.RoleEngineeringLead},
			},
			decisions:    []*model.Decision{approved("sec")},
			expectReason: "Missing approvals from required role(s): ENGINEERING_LEAD",
			expectRoles:  []model.Role{model.RoleEngineeringLead},
		},
		{
			name: "one approver can cover every role",
			policy: model.ApprovalPolicy{
				MinApprovers:    1,
				RequireAllRoles: true,
				RequiredRoles:   []model.Role{model.RoleSecurityTeam, model.RoleEngineeringLead},
			},
			decisions: []*model.Decision{approved("both")},
			expectOK:  true,
		},
		{
			name: "any-of role satisfied",
			policy: model.ApprovalPolicy{
				MinApprovers:  1,
				RequiredRoles: []model.Role{model.RoleSecurityTeam, model.RoleComplianceTeam},
			},
			decisions: []*model.Decision{approved("sec")},
			expectOK:  true,
		},
		{
			name: "any-of role unsatisfied",
			policy: model.ApprovalPolicy{
				MinApprovers:  1,
				RequiredRoles: []model.Role{model.RoleComplianceTeam},
			},
			decisions:    []*model.Decision{approved("eng")},
			expectReason: "No approval from any required role: COMPLIANCE_TEAM",
			expectRoles:  []model.Role{model.RoleComplianceTeam},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := Validate(&tc.policy, tc.decisions, tc.requesterID, roles)
			assert.Equal(t, tc.expectOK, result.OK)
			assert.Equal(t, tc.expectReason, result.Reason)
			assert.Equal(t, tc.expectRoles, result.MissingRoles)
		})
	}
}

func TestValidateIsPure(t *testing.T) {
	policy := &model.ApprovalPolicy{MinApprovers: 1}
	decisions := []*model.Decision{{ApproverID: "sec", Outcome: model.OutcomeApproved}}
	first := Validate(policy, decisions, "", func(string) []model.Role { return nil })
	second := Validate(policy, decisions, "", func(string) []model.Role { return nil })
	assert.Equal(t, first, second)
	assert.Len(t, decisions, 1)
}
