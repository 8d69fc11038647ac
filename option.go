package arbiter

import (
	"github.com/arbiterhq/arbiter/extension"
	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/catalog"
	"github.com/arbiterhq/arbiter/service/dao"
	"github.com/arbiterhq/arbiter/service/messaging"
	"github.com/arbiterhq/arbiter/service/meta"
	"github.com/arbiterhq/arbiter/service/notifier"
	"github.com/arbiterhq/arbiter/service/registry"
	"github.com/arbiterhq/arbiter/service/workflow"
	"github.com/arbiterhq/arbiter/tracing"
	"github.com/viant/afs/storage"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the service façade
type Option func(s *Service)

// WithConfig replaces the default configuration
func WithConfig(config *Config) Option {
	return func(s *Service) { s.config = config }
}

// WithRequestDAO sets the approval request DAO
func WithRequestDAO(dao dao.Service[string, model.ApprovalRequest]) Option {
	return func(s *Service) { s.requestDAO = dao }
}

// WithApproverDAO sets the approver DAO backing the default registry
func WithApproverDAO(dao dao.Service[string, model.Approver]) Option {
	return func(s *Service) { s.approverDAO = dao }
}

// WithPolicyDAO sets the policy DAO backing the default catalog
func WithPolicyDAO(dao dao.Service[string, model.ApprovalPolicy]) Option {
	return func(s *Service) { s.policyDAO = dao }
}

// WithRegistry sets a fully built approver registry
func WithRegistry(service *registry.Service) Option {
	return func(s *Service) { s.registry = service }
}

// WithCatalog sets a fully built policy catalog
func WithCatalog(service *catalog.Service) Option {
	return func(s *Service) { s.catalog = service }
}

// WithSelector sets the risk-band selector used by the default catalog
func WithSelector(config catalog.SelectorConfig) Option {
	return func(s *Service) { s.selector = &config }
}

// WithChannels registers notification channels on the default dispatcher
func WithChannels(channels ...notifier.Channel) Option {
	return func(s *Service) { s.channels = append(s.channels, channels...) }
}

// WithDispatcher sets a fully built notification dispatcher
func WithDispatcher(dispatcher *notifier.Dispatcher) Option {
	return func(s *Service) { s.dispatcher = dispatcher }
}

// WithEvents sets the lifecycle event queue
func WithEvents(queue messaging.Queue[workflow.Event]) Option {
	return func(s *Service) { s.events = queue }
}

// WithAudit attaches a synchronous audit hook
func WithAudit(audit workflow.AuditFunc) Option {
	return func(s *Service) { s.audit = audit }
}

// WithPayloadTypes sets the payload type registry
func WithPayloadTypes(types *extension.Types) Option {
	return func(s *Service) { s.types = types }
}

// WithMetaService sets the meta service
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) { s.metaService = service }
}

// WithMetaBaseURL sets the meta base URL
func WithMetaBaseURL(url string) Option {
	return func(s *Service) { s.metaBaseURL = url }
}

// WithMetaFsOptions with meta file system options
func WithMetaFsOptions(options ...storage.Option) Option {
	return func(s *Service) { s.metaFsOptions = options }
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile
// is empty the stdout exporter is used; otherwise traces are written to the
// supplied file path. The function is safe to call multiple times – the first
// successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom
// SpanExporter. This enables integrations with exporters other than the
// built-in stdout exporter, for example OTLP, Jaeger or Zipkin. The function
// is safe to call multiple times – the first successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
