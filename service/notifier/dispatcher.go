package notifier

import (
	"context"
	"os"
	"sync"

	"github.com/arbiterhq/arbiter/model"
	"github.com/rs/zerolog"
)

// Dispatcher fans a notification out to every configured channel.  Each
// channel runs in its own goroutine behind a recover barrier so one broken
// transport can neither delay nor fail the others – the isolate-and-log
// boundary required around all side effects.
type Dispatcher struct {
	mux      sync.RWMutex
	channels []Channel
	logger   zerolog.Logger
	wg       sync.WaitGroup
}

// Option customises the dispatcher.
type Option func(*Dispatcher)

// WithChannels registers notification channels.
func WithChannels(channels ...Channel) Option {
	return func(d *Dispatcher) { d.channels = append(d.channels, channels...) }
}

// WithLogger replaces the default stderr logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

// New creates a dispatcher.
func New(options ...Option) *Dispatcher {
	ret := &Dispatcher{
		logger: zerolog.New(os.Stderr).With().Timestamp().Str("component", "notifier").Logger(),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Register adds channels after construction.
func (d *Dispatcher) Register(channels ...Channel) {
	d.mux.Lock()
	defer d.mux.Unlock()
	d.channels = append(d.channels, channels...)
}

// ApprovalRequested dispatches the "approval needed" notification.
func (d *Dispatcher) ApprovalRequested(ctx context.Context, request *model.ApprovalRequest, approvers []*model.Approver) {
	d.fanOut(ctx, request, "approval_request", func(ctx context.Context, channel Channel) error {
		return channel.SendApprovalRequest(ctx, request, approvers)
	})
}

// DecisionRecorded dispatches the decision notification.
func (d *Dispatcher) DecisionRecorded(ctx context.Context, request *model.ApprovalRequest, decision *model.Decision) {
	d.fanOut(ctx, request, "decision", func(ctx context.Context, channel Channel) error {
		return channel.SendDecisionNotification(ctx, request, decision)
	})
}

// Escalated dispatches the escalation notification.
func (d *Dispatcher) Escalated(ctx context.Context, request *model.ApprovalRequest, level model.EscalationLevel) {
	d.fanOut(ctx, request, "escalation", func(ctx context.Context, channel Channel) error {
		return channel.SendEscalationNotification(ctx, request, level)
	})
}

func (d *Dispatcher) fanOut(ctx context.Context, request *model.ApprovalRequest, kind string, send func(context.Context, Channel) error) {
	d.mux.RLock()
	channels := append([]Channel(nil), d.channels...)
	d.mux.RUnlock()

	for _, channel := range channels {
		channel := channel
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					d.logger.Error().
						Str("channel", channel.Name()).
						Str("kind", kind).
						Str("request", request.ID).
						Interface("panic", r).
						Msg("notification channel panicked")
				}
			}()
			if err := send(ctx, channel); err != nil {
				d.logger.Warn().
					Str("channel", channel.Name()).
					Str("kind", kind).
					Str("request", request.ID).
					Err(err).
					Msg("notification delivery failed")
			}
		}()
	}
}

// Wait blocks until every in-flight notification goroutine has returned.
// Tests and graceful shutdown use it; the decision path never does.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
