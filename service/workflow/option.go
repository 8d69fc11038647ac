package workflow

import (
	"github.com/arbiterhq/arbiter/extension"
	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/catalog"
	"github.com/arbiterhq/arbiter/service/dao"
	"github.com/arbiterhq/arbiter/service/messaging"
	"github.com/arbiterhq/arbiter/service/notifier"
	"github.com/arbiterhq/arbiter/service/registry"
	"github.com/rs/zerolog"
)

// Option customises the engine.
type Option func(*Service)

// WithRequestDAO replaces the default in-memory request store.
func WithRequestDAO(dao dao.Service[string, model.ApprovalRequest]) Option {
	return func(s *Service) { s.requests = dao }
}

// WithRegistry injects a shared approver registry.
func WithRegistry(registry *registry.Service) Option {
	return func(s *Service) { s.registry = registry }
}

// WithCatalog injects a shared policy catalog.
func WithCatalog(catalog *catalog.Service) Option {
	return func(s *Service) { s.catalog = catalog }
}

// WithDispatcher injects a shared notification dispatcher.
func WithDispatcher(dispatcher *notifier.Dispatcher) Option {
	return func(s *Service) { s.dispatcher = dispatcher }
}

// WithEvents replaces the default in-memory event queue.
func WithEvents(queue messaging.Queue[Event]) Option {
	return func(s *Service) { s.events = queue }
}

// WithAudit attaches a synchronous audit hook.
func WithAudit(audit AuditFunc) Option {
	return func(s *Service) { s.audit = audit }
}

// WithCriticalRoles overrides the roles considered escalation-worthy when
// their sign-off is still missing after a valid approval.
func WithCriticalRoles(roles ...model.Role) Option {
	return func(s *Service) { s.criticalRoles = roles }
}

// WithTypes attaches the payload type registry used to re-type payloads.
func WithTypes(types *extension.Types) Option {
	return func(s *Service) { s.types = types }
}

// WithLogger replaces the default stderr logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}
