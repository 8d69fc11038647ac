package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/arbiterhq/arbiter/internal/clock"
	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Tick(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	previous := clock.NowFunc
	clock.NowFunc = func() time.Time { return base }
	t.Cleanup(func() { clock.NowFunc = previous })

	engine := workflow.New()
	ctx := context.Background()
	require.NoError(t, engine.Catalog().Register(ctx, &model.ApprovalPolicy{
		ID: "short", MinApprovers: 1, TimeoutHours: 1, EscalationHours: 4,
	}))
	request, err := engine.CreateRequest(ctx, &workflow.CreateInput{
		RequestType: "job", RequesterID: "r", Title: "t", PolicyID: "short",
	})
	require.NoError(t, err)

	service := New(engine, Config{PollingInterval: time.Minute})

	clock.NowFunc = func() time.Time { return base.Add(30 * time.Minute) }
	require.NoError(t, service.Tick(ctx))
	swept, _ := engine.GetRequest(ctx, request.ID)
	assert.Equal(t, model.StatusPending, swept.Status)

	clock.NowFunc = func() time.Time { return base.Add(2 * time.Hour) }
	require.NoError(t, service.Tick(ctx))
	swept, _ = engine.GetRequest(ctx, request.ID)
	assert.Equal(t, model.StatusTimeout, swept.Status)
}

func TestService_StartShutdown(t *testing.T) {
	service := New(workflow.New(), Config{PollingInterval: 5 * time.Millisecond})
	done := make(chan error, 1)
	go func() { done <- service.Start(context.Background()) }()
	time.Sleep(20 * time.Millisecond)
	service.Shutdown()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestService_DefaultConfig(t *testing.T) {
	assert.Equal(t, time.Minute, DefaultConfig().PollingInterval)
	service := New(workflow.New(), Config{})
	assert.Equal(t, time.Minute, service.config.PollingInterval)
}
