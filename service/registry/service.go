// Package registry maintains the set of approvers eligible to decide on
// requests.  It is read-mostly: registration and administrative updates are
// rare compared to eligibility lookups performed on every request creation
// and inbox query.
package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/dao"
	"github.com/arbiterhq/arbiter/service/dao/store"
	"github.com/arbiterhq/arbiter/service/meta"
)

// Service stores approvers behind the generic DAO contract so a durable
// implementation can be injected in place of the default memory store.
type Service struct {
	approvers dao.Service[string, model.Approver]
	meta      *meta.Service
}

// Option customises the registry service.
type Option func(*Service)

// WithApproverDAO replaces the default in-memory approver store.
func WithApproverDAO(dao dao.Service[string, model.Approver]) Option {
	return func(s *Service) { s.approvers = dao }
}

// WithMetaService attaches a definition loader used by LoadURL.
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) { s.meta = service }
}

func approverKey(a *model.Approver) string { return a.ID }

// New creates a registry service.
func New(options ...Option) *Service {
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	if ret.approvers == nil {
		ret.approvers = store.NewMemoryStore[string, model.Approver](approverKey,
			store.WithCloner[string, model.Approver]((*model.Approver).Clone))
	}
	return ret
}

// Register adds or replaces an approver.
func (s *Service) Register(ctx context.Context, approver *model.Approver) error {
	if approver == nil {
		return dao.ErrNilEntity
	}
	if approver.ID == "" {
		return dao.ErrInvalidID
	}
	for _, role := range approver.Roles {
		if !role.IsValid() {
			return fmt.Errorf("approver %s: unknown role %q", approver.ID, role)
		}
	}
	return s.approvers.Save(ctx, approver)
}

// Lookup returns the approver or nil when not registered.
func (s *Service) Lookup(ctx context.Context, id string) (*model.Approver, error) {
	approver, err := s.approvers.Load(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return approver, nil
}

// SetActive flips the active flag of a registered approver.
func (s *Service) SetActive(ctx context.Context, id string, active bool) error {
	approver, err := s.approvers.Load(ctx, id)
	if err != nil {
		return err
	}
	approver.Active = active
	return s.approvers.Save(ctx, approver)
}

// SetRoles replaces the role set of a registered approver.
func (s *Service) SetRoles(ctx context.Context, id string, roles ...model.Role) error {
	approver, err := s.approvers.Load(ctx, id)
	if err != nil {
		return err
	}
	for _, role := range roles {
		if !role.IsValid() {
			return fmt.Errorf("approver %s: unknown role %q", id, role)
		}
	}
	approver.Roles = roles
	return s.approvers.Save(ctx, approver)
}

// List returns every registered approver.
func (s *Service) List(ctx context.Context) ([]*model.Approver, error) {
	return s.approvers.List(ctx)
}

// Eligible returns the active approvers holding at least one of the
// policy's required roles.  With no required roles every active approver is
// eligible.
func (s *Service) Eligible(ctx context.Context, policy *model.ApprovalPolicy) ([]*model.Approver, error) {
	all, err := s.approvers.List(ctx)
	if err != nil {
		return nil, err
	}
	var ret []*model.Approver
	for _, approver := range all {
		if !approver.Active {
			continue
		}
		if len(policy.RequiredRoles) == 0 || approver.HasAnyRole(policy.RequiredRoles) {
			ret = append(ret, approver)
		}
	}
	return ret, nil
}

// Roles implements validator.RoleResolver against the live registry.
func (s *Service) Roles(ctx context.Context, approverID string) []model.Role {
	approver, err := s.approvers.Load(ctx, approverID)
	if err != nil || approver == nil {
		return nil
	}
	return approver.Roles
}

// LoadURL reads an approver roster definition (a YAML list of approvers)
// and registers every entry.
func (s *Service) LoadURL(ctx context.Context, URL string) error {
	if s.meta == nil {
		return fmt.Errorf("registry: meta service not configured")
	}
	var roster struct {
		Approvers []*model.Approver `yaml:"approvers"`
	}
	if err := s.meta.Load(ctx, URL, &roster); err != nil {
		return err
	}
	for _, approver := range roster.Approvers {
		if err := s.Register(ctx, approver); err != nil {
			return err
		}
	}
	return nil
}
