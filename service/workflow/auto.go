package workflow

import (
	"context"

	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/messaging"
)

// Rule inspects a request and returns an outcome plus reasoning, or an
// empty outcome to abstain.
type Rule func(request *model.ApprovalRequest) (model.Outcome, string)

// AutoDecider is an unattended approver: it consumes lifecycle events and
// submits decisions for newly created requests according to a rule.  The
// deciding identity must be registered like any human approver; every
// policy constraint still applies to its decisions.
type AutoDecider struct {
	engine     *Service
	approverID string
	rule       Rule
	events     messaging.Queue[Event]
}

// NewAutoDecider creates an auto decider draining the given event queue.
// The queue should be dedicated to this consumer; events it consumes are
// gone for everyone else.
func NewAutoDecider(engine *Service, approverID string, rule Rule, events messaging.Queue[Event]) *AutoDecider {
	return &AutoDecider{engine: engine, approverID: approverID, rule: rule, events: events}
}

// Run consumes events until the context is cancelled.
func (a *AutoDecider) Run(ctx context.Context) error {
	for {
		message, err := a.events.Consume(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		event := message.T()
		if event.Topic != TopicRequestCreated {
			_ = message.Ack()
			continue
		}
		if err = a.decide(ctx, event.RequestID); err != nil {
			_ = message.Nack(err)
			continue
		}
		_ = message.Ack()
	}
}

func (a *AutoDecider) decide(ctx context.Context, requestID string) error {
	request, err := a.engine.GetRequest(ctx, requestID)
	if err != nil || request == nil || request.Status != model.StatusPending {
		return err
	}
	outcome, reasoning := a.rule(request)
	if outcome == "" {
		return nil
	}
	_, _, err = a.engine.SubmitDecision(ctx, &DecisionInput{
		RequestID:  requestID,
		ApproverID: a.approverID,
		Outcome:    outcome,
		Reasoning:  reasoning,
	})
	return err
}
