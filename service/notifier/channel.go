// Package notifier fans approval lifecycle notifications out to external
// channels.  Delivery is strictly best-effort: a slow or failing channel is
// logged and skipped, never surfaced to the decision path.
package notifier

import (
	"context"

	"github.com/arbiterhq/arbiter/model"
)

// Channel is the strategy interface implemented by concrete notification
// transports (chat, paging, e-mail).  Implementations return an error to
// report delivery failure; they must not panic, although the dispatcher
// contains panics regardless.
type Channel interface {
	// Name identifies the channel in logs.
	Name() string

	// SendApprovalRequest announces a newly created request to its
	// eligible approvers.
	SendApprovalRequest(ctx context.Context, request *model.ApprovalRequest, approvers []*model.Approver) error

	// SendDecisionNotification announces a recorded decision.
	SendDecisionNotification(ctx context.Context, request *model.ApprovalRequest, decision *model.Decision) error

	// SendEscalationNotification announces an escalation-level change or
	// an escalation-worthy validation outcome.
	SendEscalationNotification(ctx context.Context, request *model.ApprovalRequest, level model.EscalationLevel) error
}
