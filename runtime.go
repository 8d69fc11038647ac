package arbiter

import (
	"context"
	"fmt"
	"time"

	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/scheduler"
	"github.com/arbiterhq/arbiter/service/workflow"
)

// Runtime owns the background machinery around the engine: the sweep
// scheduler and the notification workers.  The engine itself is synchronous
// and usable without ever starting the runtime; only timeout and escalation
// need the scheduler ticking.
type Runtime struct {
	engine    *workflow.Service
	scheduler *scheduler.Service
}

// Engine returns the approval engine
func (r *Runtime) Engine() *workflow.Service {
	return r.engine
}

// Start starts the background sweep loop
func (r *Runtime) Start(ctx context.Context) error {
	go r.scheduler.Start(ctx)
	return nil
}

// Sweep runs a single sweep pass immediately, outside the ticker.
func (r *Runtime) Sweep(ctx context.Context) error {
	return r.scheduler.Tick(ctx)
}

// Shutdown stops the scheduler and waits for in-flight notifications
func (r *Runtime) Shutdown(ctx context.Context) error {
	r.scheduler.Shutdown()
	r.engine.Dispatcher().Wait()
	return nil
}

// WaitForDecision polls until the request reaches a terminal status or the
// timeout elapses.  It is intended for tests and small embedders; larger
// deployments consume the event queue instead.
func (r *Runtime) WaitForDecision(ctx context.Context, requestID string, timeout time.Duration) (*model.ApprovalRequest, error) {
	deadline := time.Now().Add(timeout)
	for {
		request, err := r.engine.GetRequest(ctx, requestID)
		if err != nil {
			return nil, err
		}
		if request == nil {
			return nil, fmt.Errorf("%w: %s", workflow.ErrRequestNotFound, requestID)
		}
		if request.Status.IsTerminal() {
			return request, nil
		}
		if time.Now().After(deadline) {
			return request, fmt.Errorf("timeout waiting for decision on %q", requestID)
		}
		select {
		case <-ctx.Done():
			return request, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}
