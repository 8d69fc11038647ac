package arbiter

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/arbiterhq/arbiter/internal/clock"
	"github.com/arbiterhq/arbiter/model"
	notifiermem "github.com/arbiterhq/arbiter/service/notifier/memory"
	"github.com/arbiterhq/arbiter/service/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type refundPayload struct {
	OrderID string  `json:"orderId"`
	Amount  float64 `json:"amount"`
}

func TestService_EndToEnd(t *testing.T) {
	channel := notifiermem.New("test")
	var auditMux sync.Mutex
	var audited []string
	srv := New(
		WithChannels(channel),
		WithAudit(func(_ context.Context, event *workflow.Event) error {
			auditMux.Lock()
			defer auditMux.Unlock()
			audited = append(audited, event.Topic)
			return nil
		}),
	)
	srv.RegisterPayloadType("refund", reflect.TypeOf(refundPayload{}))
	ctx := context.Background()

	require.NoError(t, srv.Registry().Register(ctx, &model.Approver{
		ID: "fin-1", Name: "Faye", Roles: []model.Role{model.RoleComplianceTeam}, Active: true,
	}))
	require.NoError(t, srv.Catalog().Register(ctx, &model.ApprovalPolicy{
		ID:              "refund-approval",
		RequiredRoles:   []model.Role{model.RoleComplianceTeam},
		MinApprovers:    1,
		TimeoutHours:    8,
		EscalationHours: 2,
	}))

	engine := srv.Engine()
	request, err := engine.CreateRequest(ctx, &workflow.CreateInput{
		RequestType: "refund",
		RequesterID: "support-1",
		Title:       "refund order 42",
		RiskScore:   0.4,
		PolicyID:    "refund-approval",
		Payload:     map[string]interface{}{"orderId": "42", "amount": 99.5},
	})
	require.NoError(t, err)

	// payload re-typed through the registered type
	payload, ok := request.Payload.(*refundPayload)
	require.True(t, ok)
	assert.Equal(t, "42", payload.OrderID)

	updated, message, err := engine.SubmitDecision(ctx, &workflow.DecisionInput{
		RequestID:  request.ID,
		ApproverID: "fin-1",
		Outcome:    model.OutcomeApproved,
		Reasoning:  "receipt verified",
	})
	require.NoError(t, err)
	assert.Equal(t, workflow.MessageApproved, message)
	assert.Equal(t, model.StatusApproved, updated.Status)

	final, err := srv.Runtime().WaitForDecision(ctx, request.ID, time.Second)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, final.Status)

	srv.Dispatcher().Wait()
	assert.NotEmpty(t, channel.Sent())
	auditMux.Lock()
	defer auditMux.Unlock()
	assert.Contains(t, audited, workflow.TopicRequestCreated)
	assert.Contains(t, audited, workflow.TopicRequestApproved)
}

func TestService_RuntimeSweep(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	previous := clock.NowFunc
	clock.NowFunc = func() time.Time { return base }
	t.Cleanup(func() { clock.NowFunc = previous })

	srv := New()
	ctx := context.Background()
	require.NoError(t, srv.Catalog().Register(ctx, &model.ApprovalPolicy{
		ID: "short", MinApprovers: 1, TimeoutHours: 1, EscalationHours: 0.25,
	}))
	request, err := srv.Engine().CreateRequest(ctx, &workflow.CreateInput{
		RequestType: "maintenance", RequesterID: "r", Title: "t", PolicyID: "short",
	})
	require.NoError(t, err)

	// twenty minutes in the request escalates but does not expire
	clock.NowFunc = func() time.Time { return base.Add(20 * time.Minute) }
	require.NoError(t, srv.Runtime().Sweep(ctx))
	swept, _ := srv.Engine().GetRequest(ctx, request.ID)
	assert.Equal(t, model.StatusPending, swept.Status)
	assert.Equal(t, model.Level2, swept.Escalation)

	// past the deadline it times out
	clock.NowFunc = func() time.Time { return base.Add(2 * time.Hour) }
	require.NoError(t, srv.Runtime().Sweep(ctx))
	swept, _ = srv.Engine().GetRequest(ctx, request.ID)
	assert.Equal(t, model.StatusTimeout, swept.Status)

	require.NoError(t, srv.Runtime().Shutdown(ctx))
}

func TestService_RuntimeStartStop(t *testing.T) {
	srv := New(WithConfig(&Config{
		Scheduler: SchedulerConfig{PollingInterval: 5 * time.Millisecond},
		Events:    DefaultConfig().Events,
	}))
	ctx := context.Background()
	require.NoError(t, srv.Runtime().Start(ctx))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, srv.Runtime().Shutdown(ctx))
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	var nilConfig *Config
	assert.NoError(t, nilConfig.Validate())

	invalid := DefaultConfig()
	invalid.Scheduler.PollingInterval = 0
	assert.Error(t, invalid.Validate())

	invalid = DefaultConfig()
	invalid.Events.Buffer = 0
	assert.Error(t, invalid.Validate())
}
