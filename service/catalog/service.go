// Package catalog holds the named approval policies and selects one for a
// request when the caller does not name a policy explicitly.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/dao"
	"github.com/arbiterhq/arbiter/service/dao/store"
	"github.com/arbiterhq/arbiter/service/meta"
)

// Band maps a minimum risk score to a policy id.  Bands are evaluated from
// the highest MinScore downwards; the first band whose MinScore the risk
// score reaches wins.
type Band struct {
	MinScore float64 `json:"minScore" yaml:"minScore"`
	PolicyID string  `json:"policyId" yaml:"policyId"`
}

// SelectorConfig drives policy selection by risk score.  The cut-offs are
// configuration, not a fixed contract – deployments tune them freely.
type SelectorConfig struct {
	Bands   []Band `json:"bands" yaml:"bands"`
	Default string `json:"default" yaml:"default"` // policy id used below every band
}

// DefaultSelectorConfig returns the reference banding: >=0.9 critical,
// >=0.7 high, >=0.5 medium, otherwise standard.
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		Bands: []Band{
			{MinScore: 0.9, PolicyID: "critical-risk"},
			{MinScore: 0.7, PolicyID: "high-risk"},
			{MinScore: 0.5, PolicyID: "medium-risk"},
		},
		Default: "standard",
	}
}

// Service stores policies behind the generic DAO contract.
type Service struct {
	policies dao.Service[string, model.ApprovalPolicy]
	selector SelectorConfig
	meta     *meta.Service
}

// Option customises the catalog service.
type Option func(*Service)

// WithPolicyDAO replaces the default in-memory policy store.
func WithPolicyDAO(dao dao.Service[string, model.ApprovalPolicy]) Option {
	return func(s *Service) { s.policies = dao }
}

// WithSelector overrides the risk-band selector configuration.
func WithSelector(config SelectorConfig) Option {
	return func(s *Service) { s.selector = config }
}

// WithMetaService attaches a definition loader used by LoadURL.
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) { s.meta = service }
}

func policyKey(p *model.ApprovalPolicy) string { return p.ID }

// New creates a catalog service.
func New(options ...Option) *Service {
	ret := &Service{selector: DefaultSelectorConfig()}
	for _, option := range options {
		option(ret)
	}
	if ret.policies == nil {
		ret.policies = store.NewMemoryStore[string, model.ApprovalPolicy](policyKey,
			store.WithCloner[string, model.ApprovalPolicy]((*model.ApprovalPolicy).Clone))
	}
	return ret
}

// Register validates and stores a policy under its id.
func (s *Service) Register(ctx context.Context, policy *model.ApprovalPolicy) error {
	if policy == nil {
		return dao.ErrNilEntity
	}
	if err := policy.Validate(); err != nil {
		return err
	}
	return s.policies.Save(ctx, policy)
}

// Lookup returns the policy or nil when absent.
func (s *Service) Lookup(ctx context.Context, id string) (*model.ApprovalPolicy, error) {
	policy, err := s.policies.Load(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return policy, nil
}

// List returns every registered policy.
func (s *Service) List(ctx context.Context) ([]*model.ApprovalPolicy, error) {
	return s.policies.List(ctx)
}

// Select returns the policy id applicable to the given risk score.
func (s *Service) Select(riskScore float64) string {
	bands := append([]Band(nil), s.selector.Bands...)
	sort.Slice(bands, func(i, j int) bool { return bands[i].MinScore > bands[j].MinScore })
	for _, band := range bands {
		if riskScore >= band.MinScore {
			return band.PolicyID
		}
	}
	return s.selector.Default
}

// LoadURL reads a catalog definition (a YAML list of policies plus an
// optional selector section) and registers every entry.
func (s *Service) LoadURL(ctx context.Context, URL string) error {
	if s.meta == nil {
		return fmt.Errorf("catalog: meta service not configured")
	}
	var definition struct {
		Policies []*model.ApprovalPolicy `yaml:"policies"`
		Selector *SelectorConfig         `yaml:"selector"`
	}
	if err := s.meta.Load(ctx, URL, &definition); err != nil {
		return err
	}
	for _, policy := range definition.Policies {
		if err := s.Register(ctx, policy); err != nil {
			return err
		}
	}
	if definition.Selector != nil {
		s.selector = *definition.Selector
	}
	return nil
}
