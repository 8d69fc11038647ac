// Package memory provides an in-process notification channel that records
// every send.  It backs tests and local development; production deployments
// plug real transports behind the same interface.
package memory

import (
	"context"
	"sync"

	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/notifier"
)

// Notification is a recorded send.
type Notification struct {
	Kind      string // approval_request | decision | escalation
	RequestID string
	Approvers []string
	Decision  *model.Decision
	Level     model.EscalationLevel
}

// Channel records notifications in memory.  An optional Err makes every
// send fail, which tests use to verify the dispatcher's failure isolation.
type Channel struct {
	name string
	mux  sync.Mutex
	sent []Notification

	// Err, when set, is returned by every send.
	Err error
}

// New creates a recording channel.
func New(name string) *Channel {
	return &Channel{name: name}
}

// Name implements notifier.Channel.
func (c *Channel) Name() string { return c.name }

// SendApprovalRequest implements notifier.Channel.
func (c *Channel) SendApprovalRequest(_ context.Context, request *model.ApprovalRequest, approvers []*model.Approver) error {
	ids := make([]string, len(approvers))
	for i, approver := range approvers {
		ids[i] = approver.ID
	}
	c.record(Notification{Kind: "approval_request", RequestID: request.ID, Approvers: ids})
	return c.Err
}

// SendDecisionNotification implements notifier.Channel.
func (c *Channel) SendDecisionNotification(_ context.Context, request *model.ApprovalRequest, decision *model.Decision) error {
	c.record(Notification{Kind: "decision", RequestID: request.ID, Decision: decision.Clone()})
	return c.Err
}

// SendEscalationNotification implements notifier.Channel.
func (c *Channel) SendEscalationNotification(_ context.Context, request *model.ApprovalRequest, level model.EscalationLevel) error {
	c.record(Notification{Kind: "escalation", RequestID: request.ID, Level: level})
	return c.Err
}

func (c *Channel) record(n Notification) {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.sent = append(c.sent, n)
}

// Sent returns a copy of the recorded notifications.
func (c *Channel) Sent() []Notification {
	c.mux.Lock()
	defer c.mux.Unlock()
	return append([]Notification(nil), c.sent...)
}

var _ notifier.Channel = (*Channel)(nil)
