package workflow

import (
	"context"
	"time"
)

// Lifecycle event topics published to the event queue.
const (
	TopicRequestCreated   = "request.created"
	TopicDecisionCreated  = "decision.created"
	TopicRequestApproved  = "request.approved"
	TopicRequestRejected  = "request.rejected"
	TopicRequestEscalated = "request.escalated"
	TopicRequestExpired   = "request.expired"
	TopicRequestCancelled = "request.cancelled"
)

// Event is a lifecycle notification published after every state change.
// Consumers drain the queue at their own pace; publishing never blocks a
// decision beyond the queue buffer.
type Event struct {
	Topic     string                 `json:"topic"`
	RequestID string                 `json:"requestId"`
	TenantID  string                 `json:"tenantId,omitempty"`
	At        time.Time              `json:"at"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// AuditFunc receives every published event synchronously.  A returned error
// or panic is logged and discarded; the audit hook can observe but never
// veto a state change.
type AuditFunc func(ctx context.Context, event *Event) error
