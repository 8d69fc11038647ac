package arbiter

import (
	"reflect"

	"github.com/arbiterhq/arbiter/extension"
	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/catalog"
	"github.com/arbiterhq/arbiter/service/dao"
	"github.com/arbiterhq/arbiter/service/messaging"
	queuemem "github.com/arbiterhq/arbiter/service/messaging/memory"
	"github.com/arbiterhq/arbiter/service/meta"
	"github.com/arbiterhq/arbiter/service/notifier"
	"github.com/arbiterhq/arbiter/service/registry"
	"github.com/arbiterhq/arbiter/service/scheduler"
	"github.com/arbiterhq/arbiter/service/workflow"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
)

// Service assembles the approval engine and its collaborators.  Every
// collaborator left unset falls back to an in-memory default, so arbiter.New()
// with no options yields a fully working engine.
type Service struct {
	config        *Config
	runtime       *Runtime
	engine        *workflow.Service
	metaService   *meta.Service
	metaBaseURL   string
	metaFsOptions []storage.Option
	requestDAO    dao.Service[string, model.ApprovalRequest]
	approverDAO   dao.Service[string, model.Approver]
	policyDAO     dao.Service[string, model.ApprovalPolicy]
	registry      *registry.Service
	catalog       *catalog.Service
	selector      *catalog.SelectorConfig
	dispatcher    *notifier.Dispatcher
	channels      []notifier.Channel
	events        messaging.Queue[workflow.Event]
	audit         workflow.AuditFunc
	types         *extension.Types
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()

	engineOptions := []workflow.Option{
		workflow.WithRegistry(s.registry),
		workflow.WithCatalog(s.catalog),
		workflow.WithDispatcher(s.dispatcher),
		workflow.WithEvents(s.events),
		workflow.WithTypes(s.types),
	}
	if s.requestDAO != nil {
		engineOptions = append(engineOptions, workflow.WithRequestDAO(s.requestDAO))
	}
	if s.audit != nil {
		engineOptions = append(engineOptions, workflow.WithAudit(s.audit))
	}
	s.engine = workflow.New(engineOptions...)
	s.runtime = &Runtime{
		engine:    s.engine,
		scheduler: scheduler.New(s.engine, scheduler.Config{PollingInterval: s.config.Scheduler.PollingInterval}),
	}
}

func (s *Service) ensureBaseSetup() {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if s.metaService == nil {
		s.metaService = meta.New(afs.New(), s.metaBaseURL, s.metaFsOptions...)
	}
	if s.registry == nil {
		registryOptions := []registry.Option{registry.WithMetaService(s.metaService)}
		if s.approverDAO != nil {
			registryOptions = append(registryOptions, registry.WithApproverDAO(s.approverDAO))
		}
		s.registry = registry.New(registryOptions...)
	}
	if s.catalog == nil {
		catalogOptions := []catalog.Option{catalog.WithMetaService(s.metaService)}
		if s.policyDAO != nil {
			catalogOptions = append(catalogOptions, catalog.WithPolicyDAO(s.policyDAO))
		}
		if s.selector != nil {
			catalogOptions = append(catalogOptions, catalog.WithSelector(*s.selector))
		}
		s.catalog = catalog.New(catalogOptions...)
	}
	if s.dispatcher == nil {
		s.dispatcher = notifier.New(notifier.WithChannels(s.channels...))
	} else if len(s.channels) > 0 {
		s.dispatcher.Register(s.channels...)
	}
	if s.events == nil {
		s.events = queuemem.NewQueue[workflow.Event](queuemem.Config{
			MaxRetries:  s.config.Events.MaxRetries,
			RetryDelay:  s.config.Events.RetryDelay,
			DeadLetter:  s.config.Events.DeadLetter,
			QueueBuffer: s.config.Events.Buffer,
		})
	}
	if s.types == nil {
		s.types = extension.NewTypes()
	}
}

// Engine returns the approval engine
func (s *Service) Engine() *workflow.Service {
	return s.engine
}

// Runtime returns the background runtime
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// Registry returns the approver registry
func (s *Service) Registry() *registry.Service {
	return s.registry
}

// Catalog returns the policy catalog
func (s *Service) Catalog() *catalog.Service {
	return s.catalog
}

// Dispatcher returns the notification dispatcher
func (s *Service) Dispatcher() *notifier.Dispatcher {
	return s.dispatcher
}

// RegisterPayloadType binds a request type name to a payload Go type
func (s *Service) RegisterPayloadType(requestType string, rType reflect.Type) {
	s.types.Register(requestType, rType)
}

// New creates a service façade
func New(options ...Option) *Service {
	ret := &Service{}
	ret.init(options)
	return ret
}
