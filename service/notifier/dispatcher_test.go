package notifier_test

import (
	"context"
	"errors"
	"testing"

	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/notifier"
	"github.com/arbiterhq/arbiter/service/notifier/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type panicChannel struct{}

func (p *panicChannel) Name() string { return "panicky" }

func (p *panicChannel) SendApprovalRequest(context.Context, *model.ApprovalRequest, []*model.Approver) error {
	panic("boom")
}

func (p *panicChannel) SendDecisionNotification(context.Context, *model.ApprovalRequest, *model.Decision) error {
	panic("boom")
}

func (p *panicChannel) SendEscalationNotification(context.Context, *model.ApprovalRequest, model.EscalationLevel) error {
	panic("boom")
}

func TestDispatcher_FanOut(t *testing.T) {
	first := memory.New("first")
	second := memory.New("second")
	dispatcher := notifier.New(
		notifier.WithChannels(first, second),
		notifier.WithLogger(zerolog.Nop()),
	)

	request := &model.ApprovalRequest{ID: "r1"}
	ctx := context.Background()

	dispatcher.ApprovalRequested(ctx, request, []*model.Approver{{ID: "a1"}})
	dispatcher.DecisionRecorded(ctx, request, &model.Decision{ApproverID: "a1", Outcome: model.OutcomeApproved})
	dispatcher.Escalated(ctx, request, model.Level2)
	dispatcher.Wait()

	for _, channel := range []*memory.Channel{first, second} {
		sent := channel.Sent()
		assert.Len(t, sent, 3)
	}
}

func TestDispatcher_FailureIsolation(t *testing.T) {
	healthy := memory.New("healthy")
	failing := memory.New("failing")
	failing.Err = errors.New("transport down")
	dispatcher := notifier.New(
		notifier.WithChannels(failing, &panicChannel{}, healthy),
		notifier.WithLogger(zerolog.Nop()),
	)

	request := &model.ApprovalRequest{ID: "r1"}
	dispatcher.ApprovalRequested(context.Background(), request, nil)
	dispatcher.Wait()

	// the healthy channel delivered despite the error and the panic
	assert.Len(t, healthy.Sent(), 1)
	// the failing channel was still attempted
	assert.Len(t, failing.Sent(), 1)
}
