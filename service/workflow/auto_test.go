package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/arbiterhq/arbiter/model"
	queuemem "github.com/arbiterhq/arbiter/service/messaging/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoDecider(t *testing.T) {
	events := queuemem.NewQueue[Event](queuemem.DefaultConfig())
	engine, _ := newTestEngine(t, WithEvents(events))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rule := func(request *model.ApprovalRequest) (model.Outcome, string) {
		if request.RiskScore < 0.5 {
			return model.OutcomeApproved, "low risk, rubber-stamped"
		}
		return "", ""
	}
	decider := NewAutoDecider(engine, "eng-1", rule, events)
	done := make(chan error, 1)
	go func() { done <- decider.Run(ctx) }()

	low := createPending(t, engine, "standard") // risk 0.4
	high, err := engine.CreateRequest(ctx, &CreateInput{
		RequestType: "deployment", RequesterID: "requester-1",
		Title: "risky deploy", RiskScore: 0.9, PolicyID: "standard",
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		request, _ := engine.GetRequest(ctx, low.ID)
		return request != nil && request.Status == model.StatusApproved
	}, time.Second, 5*time.Millisecond)

	request, err := engine.GetRequest(ctx, high.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, request.Status)
	assert.Empty(t, request.Decisions)

	cancel()
	assert.NoError(t, <-done)
}
