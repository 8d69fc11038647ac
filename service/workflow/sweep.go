package workflow

import (
	"context"
	"time"

	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/dao"
	"github.com/arbiterhq/arbiter/tracing"
)

// levelFor maps how long a request has been open to an escalation level.
// Each multiple of the policy's escalation interval raises one level, up to
// EXECUTIVE at three intervals.
func levelFor(elapsed, interval time.Duration) model.EscalationLevel {
	if interval <= 0 {
		return model.Level1
	}
	switch {
	case elapsed >= 3*interval:
		return model.LevelExecutive
	case elapsed >= 2*interval:
		return model.Level3
	case elapsed >= interval:
		return model.Level2
	}
	return model.Level1
}

// Sweep examines every pending request at the given instant, expiring those
// past their deadline and escalating the rest as their age demands.  A
// request past its deadline times out even when the same tick would also
// escalate it.  Escalation levels only ever rise.  Sweep returns how many
// requests expired and how many escalated.
func (s *Service) Sweep(ctx context.Context, now time.Time) (expired, escalated int, err error) {
	ctx, span := tracing.StartSpan(ctx, "workflow.Sweep", "INTERNAL")
	defer tracing.EndSpan(span, err)
	pending, err := s.requests.List(ctx, dao.NewParameter("Status", string(model.StatusPending)))
	if err != nil {
		return 0, 0, err
	}
	for _, candidate := range pending {
		mux := s.lockFor(candidate.ID)
		mux.Lock()
		request, loadErr := s.requests.Load(ctx, candidate.ID)
		if loadErr != nil || request.Status != model.StatusPending {
			mux.Unlock()
			continue
		}

		if now.After(request.Deadline) {
			request.Status = model.StatusTimeout
			request.UpdatedAt = now
			if saveErr := s.requests.Save(ctx, request); saveErr != nil {
				mux.Unlock()
				return expired, escalated, saveErr
			}
			expired++
			s.publish(ctx, request, TopicRequestExpired, map[string]interface{}{
				"deadline": request.Deadline,
			})
			s.logger.Info().Str("request", request.ID).Time("deadline", request.Deadline).
				Msg("request timed out")
			mux.Unlock()
			continue
		}

		level := levelFor(now.Sub(request.CreatedAt), request.Policy.EscalationInterval())
		if level.Rank() > request.Escalation.Rank() {
			request.Escalation = level
			request.UpdatedAt = now
			if saveErr := s.requests.Save(ctx, request); saveErr != nil {
				mux.Unlock()
				return expired, escalated, saveErr
			}
			escalated++
			s.dispatcher.Escalated(ctx, request, level)
			s.publish(ctx, request, TopicRequestEscalated, map[string]interface{}{
				"level": string(level),
			})
		}
		mux.Unlock()
	}
	return expired, escalated, nil
}
