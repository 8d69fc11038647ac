package memory

import (
	"context"
	"sync"

	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/dao"
	"github.com/arbiterhq/arbiter/service/dao/criteria"
)

// Service implements an in-memory approval request store.  All operations
// are thread-safe and return **copies** of the underlying aggregates to
// prevent data races when callers mutate the returned instances.
type Service struct {
	requests map[string]*model.ApprovalRequest
	mux      sync.RWMutex
}

// Compile-time check that Service implements the generic DAO interface.
var _ dao.Service[string, model.ApprovalRequest] = (*Service)(nil)

// Save persists (a clone of) the supplied request.
func (s *Service) Save(_ context.Context, r *model.ApprovalRequest) error {
	if r == nil {
		return dao.ErrNilEntity
	}
	if r.ID == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	s.requests[r.ID] = r.Clone()
	return nil
}

// Load retrieves a copy of the request or dao.ErrNotFound.
func (s *Service) Load(_ context.Context, id string) (*model.ApprovalRequest, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mux.RLock()
	r, ok := s.requests[id]
	s.mux.RUnlock()

	if !ok {
		return nil, dao.ErrNotFound
	}
	return r.Clone(), nil
}

// Delete removes a request.  The engine never deletes requests itself –
// retention is an external concern – but the DAO contract requires it.
func (s *Service) Delete(_ context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.requests[id]; !ok {
		return dao.ErrNotFound
	}
	delete(s.requests, id)
	return nil
}

// List returns copies of the stored requests, optionally filtered by the
// "Status" and "TenantID" parameters.
func (s *Service) List(_ context.Context, parameters ...*dao.Parameter) ([]*model.ApprovalRequest, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	out := make([]*model.ApprovalRequest, 0, len(s.requests))
	for _, r := range s.requests {
		if !criteria.Matches("Status", string(r.Status), parameters) {
			continue
		}
		if !criteria.Matches("TenantID", r.TenantID, parameters) {
			continue
		}
		out = append(out, r.Clone())
	}
	return out, nil
}

// New constructor.
func New() *Service {
	return &Service{requests: map[string]*model.ApprovalRequest{}}
}
