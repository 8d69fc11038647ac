package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/arbiterhq/arbiter/extension"
	"github.com/arbiterhq/arbiter/internal/clock"
	"github.com/arbiterhq/arbiter/internal/idgen"
	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/catalog"
	"github.com/arbiterhq/arbiter/service/dao"
	requestmem "github.com/arbiterhq/arbiter/service/dao/request/memory"
	"github.com/arbiterhq/arbiter/service/messaging"
	queuemem "github.com/arbiterhq/arbiter/service/messaging/memory"
	"github.com/arbiterhq/arbiter/service/notifier"
	"github.com/arbiterhq/arbiter/service/registry"
	"github.com/arbiterhq/arbiter/service/validator"
	"github.com/arbiterhq/arbiter/tracing"
	"github.com/rs/zerolog"
)

// Caller-presentable messages returned by SubmitDecision alongside the
// updated request.
const (
	MessageApproved = "request approved"
	MessageRejected = "request rejected"
)

// defaultCriticalRoles trigger an escalation notification when an approval
// leaves the request pending for lack of their sign-off.
var defaultCriticalRoles = []model.Role{model.RoleSecurityTeam, model.RoleComplianceTeam}

// CreateInput carries everything needed to open an approval request.
// PolicyID is optional; when empty the catalog selects a policy from the
// risk score.
type CreateInput struct {
	RequestType   string
	RequesterID   string
	RequesterName string
	TenantID      string
	Title         string
	Description   string
	RiskScore     float64
	PolicyID      string
	Payload       interface{}
	Meta          map[string]interface{}
}

// DecisionInput carries a single approver's verdict.
type DecisionInput struct {
	RequestID  string
	ApproverID string
	Outcome    model.Outcome
	Reasoning  string
	Meta       map[string]interface{}
}

// Service is the approval engine.  It owns no goroutines of its own; the
// scheduler drives Sweep and the dispatcher runs its own fan-out workers.
type Service struct {
	requests   dao.Service[string, model.ApprovalRequest]
	registry   *registry.Service
	catalog    *catalog.Service
	dispatcher *notifier.Dispatcher
	events     messaging.Queue[Event]
	audit      AuditFunc
	types      *extension.Types
	logger     zerolog.Logger

	// criticalRoles are the roles whose missing sign-off pings an
	// escalation notification after an otherwise valid approval
	criticalRoles []model.Role

	// locks serializes mutations per request id
	locks sync.Map
}

// New creates an engine.  Every collaborator left unset falls back to an
// in-memory default so the zero configuration is fully functional.
func New(options ...Option) *Service {
	ret := &Service{
		logger:        zerolog.New(os.Stderr).With().Timestamp().Str("component", "workflow").Logger(),
		criticalRoles: defaultCriticalRoles,
	}
	for _, option := range options {
		option(ret)
	}
	if ret.requests == nil {
		ret.requests = requestmem.New()
	}
	if ret.registry == nil {
		ret.registry = registry.New()
	}
	if ret.catalog == nil {
		ret.catalog = catalog.New()
	}
	if ret.dispatcher == nil {
		ret.dispatcher = notifier.New()
	}
	if ret.events == nil {
		ret.events = queuemem.NewQueue[Event](queuemem.DefaultConfig())
	}
	return ret
}

// Registry exposes the approver registry backing this engine.
func (s *Service) Registry() *registry.Service { return s.registry }

// Catalog exposes the policy catalog backing this engine.
func (s *Service) Catalog() *catalog.Service { return s.catalog }

// Dispatcher exposes the notification dispatcher backing this engine.
func (s *Service) Dispatcher() *notifier.Dispatcher { return s.dispatcher }

// Events exposes the lifecycle event queue.
func (s *Service) Events() messaging.Queue[Event] { return s.events }

func (s *Service) lockFor(id string) *sync.Mutex {
	actual, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// CreateRequest opens a new approval request.  The policy is captured by
// value, the deadline computed once, and eligible approvers notified.  A
// policy flagged for auto-approval finalizes the request immediately when
// the risk score falls below its threshold, skipping notification.
func (s *Service) CreateRequest(ctx context.Context, input *CreateInput) (request *model.ApprovalRequest, err error) {
	ctx, span := tracing.StartSpan(ctx, "workflow.CreateRequest", "INTERNAL")
	defer tracing.EndSpan(span, err)
	if input == nil {
		return nil, fmt.Errorf("create input was empty")
	}
	if input.RequestType == "" {
		return nil, fmt.Errorf("requestType is required")
	}
	if input.RequesterID == "" {
		return nil, fmt.Errorf("requesterId is required")
	}
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if input.RiskScore < 0 || input.RiskScore > 1 {
		return nil, fmt.Errorf("riskScore %v: must be within [0,1]", input.RiskScore)
	}

	policyID := input.PolicyID
	if policyID == "" {
		policyID = s.catalog.Select(input.RiskScore)
	}
	policy, err := s.catalog.Lookup(ctx, policyID)
	if err != nil {
		return nil, err
	}
	span.WithAttributes(map[string]string{"policy": policyID})
	if policy == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPolicy, policyID)
	}

	payload := input.Payload
	if s.types != nil {
		if payload, err = s.types.Decode(input.RequestType, payload); err != nil {
			return nil, err
		}
	}

	now := clock.Now()
	request = &model.ApprovalRequest{
		ID:            idgen.New(),
		RequestType:   input.RequestType,
		RequesterID:   input.RequesterID,
		RequesterName: input.RequesterName,
		TenantID:      input.TenantID,
		Title:         input.Title,
		Description:   input.Description,
		RiskScore:     input.RiskScore,
		Policy:        *policy,
		Payload:       payload,
		Status:        model.StatusPending,
		Decisions:     []*model.Decision{},
		Escalation:    model.Level1,
		CreatedAt:     now,
		UpdatedAt:     now,
		Deadline:      now.Add(policy.Timeout()),
		Meta:          input.Meta,
	}

	if policy.AutoApproveLowRisk && input.RiskScore < policy.RiskThreshold {
		request.Status = model.StatusApproved
		if request.Meta == nil {
			request.Meta = map[string]interface{}{}
		}
		request.Meta["autoApproved"] = true
		if err = s.requests.Save(ctx, request); err != nil {
			return nil, err
		}
		s.publish(ctx, request, TopicRequestApproved, map[string]interface{}{"auto": true})
		return request, nil
	}

	if err = s.requests.Save(ctx, request); err != nil {
		return nil, err
	}
	eligible, err := s.registry.Eligible(ctx, policy)
	if err != nil {
		s.logger.Warn().Str("request", request.ID).Err(err).Msg("eligible approver lookup failed")
	} else {
		s.dispatcher.ApprovalRequested(ctx, request, eligible)
	}
	s.publish(ctx, request, TopicRequestCreated, map[string]interface{}{"policy": policy.ID})
	return request, nil
}

// SubmitDecision records an approver's verdict and finalizes the request
// when the decision completes or breaks the quorum.  The returned message
// explains the resulting state; an insufficient quorum after a valid
// approval is a normal outcome, not an error.
func (s *Service) SubmitDecision(ctx context.Context, input *DecisionInput) (request *model.ApprovalRequest, message string, err error) {
	ctx, span := tracing.StartSpan(ctx, "workflow.SubmitDecision", "INTERNAL")
	defer tracing.EndSpan(span, err)
	if input == nil {
		return nil, "", fmt.Errorf("decision input was empty")
	}
	if input.Outcome != model.OutcomeApproved && input.Outcome != model.OutcomeRejected {
		return nil, "", fmt.Errorf("%w: %q", ErrInvalidOutcome, input.Outcome)
	}

	span.WithAttributes(map[string]string{"request.id": input.RequestID})

	mux := s.lockFor(input.RequestID)
	mux.Lock()
	defer mux.Unlock()

	request, err = s.requests.Load(ctx, input.RequestID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) || errors.Is(err, dao.ErrInvalidID) {
			return nil, "", fmt.Errorf("%w: %s", ErrRequestNotFound, input.RequestID)
		}
		return nil, "", err
	}
	if request.Status != model.StatusPending {
		return nil, "", fmt.Errorf("%w: %s is %s", ErrRequestNotPending, request.ID, request.Status)
	}

	approver, err := s.registry.Lookup(ctx, input.ApproverID)
	if err != nil {
		return nil, "", err
	}
	if approver == nil {
		return nil, "", fmt.Errorf("%w: %s", ErrApproverNotRegistered, input.ApproverID)
	}
	if request.DecisionBy(approver.ID) != nil {
		return nil, "", fmt.Errorf("%w: %s", ErrDuplicateDecision, approver.ID)
	}
	if request.Policy.RequireReasoning && strings.TrimSpace(input.Reasoning) == "" {
		return nil, "", fmt.Errorf("%w: %s", ErrReasoningRequired, request.Policy.ID)
	}

	decision := &model.Decision{
		ApproverID:   approver.ID,
		ApproverName: approver.Name,
		Outcome:      input.Outcome,
		Reasoning:    input.Reasoning,
		DecidedAt:    clock.Now(),
		Meta:         input.Meta,
	}
	request.Decisions = append(request.Decisions, decision)
	request.UpdatedAt = decision.DecidedAt

	switch input.Outcome {
	case model.OutcomeRejected:
		// a single rejection is final
		request.Status = model.StatusRejected
		message = MessageRejected
	case model.OutcomeApproved:
		result := validator.Validate(&request.Policy, request.Decisions, request.RequesterID, func(approverID string) []model.Role {
			return s.registry.Roles(ctx, approverID)
		})
		if result.OK {
			request.Status = model.StatusApproved
			message = MessageApproved
		} else {
			message = result.Reason
			if hasAnyRole(result.MissingRoles, s.criticalRoles) {
				s.dispatcher.Escalated(ctx, request, request.Escalation)
			}
		}
	}

	if err = s.requests.Save(ctx, request); err != nil {
		return nil, "", err
	}

	s.dispatcher.DecisionRecorded(ctx, request, decision)
	s.publish(ctx, request, TopicDecisionCreated, map[string]interface{}{
		"approver": decision.ApproverID,
		"outcome":  string(decision.Outcome),
	})
	switch request.Status {
	case model.StatusApproved:
		s.publish(ctx, request, TopicRequestApproved, nil)
	case model.StatusRejected:
		s.publish(ctx, request, TopicRequestRejected, map[string]interface{}{"approver": decision.ApproverID})
	}
	return request, message, nil
}

// Cancel withdraws a pending request.  It reports false without error when
// the request is unknown or already terminal, so callers can treat cancel
// as idempotent.
func (s *Service) Cancel(ctx context.Context, requestID, cancelledBy, reason string) (cancelled bool, err error) {
	ctx, span := tracing.StartSpan(ctx, "workflow.Cancel", "INTERNAL")
	defer tracing.EndSpan(span, err)
	span.WithAttributes(map[string]string{"request.id": requestID})

	mux := s.lockFor(requestID)
	mux.Lock()
	defer mux.Unlock()

	request, err := s.requests.Load(ctx, requestID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) || errors.Is(err, dao.ErrInvalidID) {
			return false, nil
		}
		return false, err
	}
	if request.Status != model.StatusPending {
		return false, nil
	}
	request.Status = model.StatusCancelled
	request.UpdatedAt = clock.Now()
	if request.Meta == nil {
		request.Meta = map[string]interface{}{}
	}
	if cancelledBy != "" {
		request.Meta["cancelledBy"] = cancelledBy
	}
	if reason != "" {
		request.Meta["cancelReason"] = reason
	}
	if err = s.requests.Save(ctx, request); err != nil {
		return false, err
	}
	s.publish(ctx, request, TopicRequestCancelled, map[string]interface{}{"by": cancelledBy})
	return true, nil
}

// GetRequest returns the request or nil when unknown.
func (s *Service) GetRequest(ctx context.Context, requestID string) (*model.ApprovalRequest, error) {
	request, err := s.requests.Load(ctx, requestID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) || errors.Is(err, dao.ErrInvalidID) {
			return nil, nil
		}
		return nil, err
	}
	return request, nil
}

func hasAnyRole(roles, wanted []model.Role) bool {
	for _, role := range roles {
		for _, w := range wanted {
			if role == w {
				return true
			}
		}
	}
	return false
}

// publish emits a lifecycle event to the queue and the audit hook.  Neither
// failure path reaches the caller.
func (s *Service) publish(ctx context.Context, request *model.ApprovalRequest, topic string, data map[string]interface{}) {
	event := &Event{
		Topic:     topic,
		RequestID: request.ID,
		TenantID:  request.TenantID,
		At:        clock.Now(),
		Data:      data,
	}
	if s.events != nil {
		if err := s.events.Publish(ctx, event); err != nil {
			s.logger.Warn().Str("topic", topic).Str("request", request.ID).Err(err).Msg("event publish failed")
		}
	}
	if s.audit != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error().Str("topic", topic).Str("request", request.ID).
						Interface("panic", r).Msg("audit hook panicked")
				}
			}()
			if err := s.audit(ctx, event); err != nil {
				s.logger.Warn().Str("topic", topic).Str("request", request.ID).Err(err).Msg("audit hook failed")
			}
		}()
	}
}
