// Package validator implements the quorum check that decides whether the
// decisions recorded so far satisfy a policy.  It is a pure function over
// domain values so the engine can use it online ("can we finalize now?")
// and auditors can replay it offline against a historical decision list.
package validator

import (
	"fmt"
	"strings"

	"github.com/arbiterhq/arbiter/model"
)

// RoleResolver reports the roles held by an approver.  The live registry
// satisfies it via a closure; audit replays supply a historical snapshot.
type RoleResolver func(approverID string) []model.Role

// Result carries the validation verdict.  Reason is caller-presentable and
// names the exact deficit; MissingRoles is populated only when role
// coverage failed.
type Result struct {
	OK           bool
	Reason       string
	MissingRoles []model.Role
}

// Validate checks the recorded decisions against the policy.
//
// The checks run in order: approval count, self-approval, role coverage.
// A REJECTED decision is not this function's concern – rejection
// short-circuits in the engine before the validator is consulted.
func Validate(policy *model.ApprovalPolicy, decisions []*model.Decision, requesterID string, roles RoleResolver) Result {
	var approvals []*model.Decision
	for _, decision := range decisions {
		if decision.Outcome == model.OutcomeApproved {
			approvals = append(approvals, decision)
		}
	}

	if len(approvals) < policy.MinApprovers {
		return Result{Reason: fmt.Sprintf("Need %d more approval(s): %d of %d received",
			policy.MinApprovers-len(approvals), len(approvals), policy.MinApprovers)}
	}

	if !policy.AllowSelfApproval {
		for _, decision := range approvals {
			if decision.ApproverID == requesterID {
				return Result{Reason: "Self-approval not allowed"}
			}
		}
	}

	if policy.RequireAllRoles {
		covered := map[model.Role]bool{}
		for _, decision := range approvals {
			for _, role := range roles(decision.ApproverID) {
				covered[role] = true
			}
		}
		var missing []model.Role
		for _, role := range policy.RequiredRoles {
			if !covered[role] {
				missing = append(missing, role)
			}
		}
		if len(missing) > 0 {
			return Result{
				Reason:       fmt.Sprintf("Missing approvals from required role(s): %s", joinRoles(missing)),
				MissingRoles: missing,
			}
		}
		return Result{OK: true}
	}

	// Any-of semantics: one approval from a holder of any required role
	// suffices; an empty required set imposes no role constraint.
	if len(policy.RequiredRoles) == 0 {
		return Result{OK: true}
	}
	for _, decision := range approvals {
		for _, role := range roles(decision.ApproverID) {
			for _, required := range policy.RequiredRoles {
				if role == required {
					return Result{OK: true}
				}
			}
		}
	}
	return Result{
		Reason:       fmt.Sprintf("No approval from any required role: %s", joinRoles(policy.RequiredRoles)),
		MissingRoles: append([]model.Role(nil), policy.RequiredRoles...),
	}
}

func joinRoles(roles []model.Role) string {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	return strings.Join(names, ", ")
}
