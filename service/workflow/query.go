package workflow

import (
	"context"
	"sort"

	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/dao"
)

// QueryOption narrows a pending-request query.
type QueryOption func(*query)

type query struct {
	tenantID   string
	approverID string
}

// WithTenant restricts results to a tenant.
func WithTenant(tenantID string) QueryOption {
	return func(q *query) { q.tenantID = tenantID }
}

// ForApprover restricts results to requests the given approver can still
// act on: the approver holds a required role (or the policy names none),
// has not decided yet, and is not blocked by the self-approval rule.
func ForApprover(approverID string) QueryOption {
	return func(q *query) { q.approverID = approverID }
}

// PendingRequests returns pending requests newest first.
func (s *Service) PendingRequests(ctx context.Context, options ...QueryOption) ([]*model.ApprovalRequest, error) {
	q := &query{}
	for _, option := range options {
		option(q)
	}

	parameters := []*dao.Parameter{dao.NewParameter("Status", string(model.StatusPending))}
	if q.tenantID != "" {
		parameters = append(parameters, dao.NewParameter("TenantID", q.tenantID))
	}
	pending, err := s.requests.List(ctx, parameters...)
	if err != nil {
		return nil, err
	}

	if q.approverID != "" {
		approver, err := s.registry.Lookup(ctx, q.approverID)
		if err != nil {
			return nil, err
		}
		if approver == nil || !approver.Active {
			return nil, nil
		}
		filtered := pending[:0]
		for _, request := range pending {
			if len(request.Policy.RequiredRoles) > 0 && !approver.HasAnyRole(request.Policy.RequiredRoles) {
				continue
			}
			if request.DecisionBy(approver.ID) != nil {
				continue
			}
			if request.RequesterID == approver.ID && !request.Policy.AllowSelfApproval {
				continue
			}
			filtered = append(filtered, request)
		}
		pending = filtered
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.After(pending[j].CreatedAt)
	})
	return pending, nil
}

// Stats summarises the request population.  Pending requests escalated past
// the first level are reported as Escalated; the stored status remains
// PENDING.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
	Escalated int `json:"escalated"`
	Timeout   int `json:"timeout"`
	Cancelled int `json:"cancelled"`
	Approvers int `json:"approvers"`
	Policies  int `json:"policies"`
}

// GetStats counts requests per status plus registered approvers and
// policies.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	all, err := s.requests.List(ctx)
	if err != nil {
		return nil, err
	}
	approvers, err := s.registry.List(ctx)
	if err != nil {
		return nil, err
	}
	policies, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	ret := &Stats{Approvers: len(approvers), Policies: len(policies)}
	for _, request := range all {
		ret.Total++
		switch request.Status {
		case model.StatusPending:
			if request.Escalation.Rank() > model.Level1.Rank() {
				ret.Escalated++
			} else {
				ret.Pending++
			}
		case model.StatusApproved:
			ret.Approved++
		case model.StatusRejected:
			ret.Rejected++
		case model.StatusTimeout:
			ret.Timeout++
		case model.StatusCancelled:
			ret.Cancelled++
		}
	}
	return ret, nil
}
