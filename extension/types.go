package extension

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/viant/x"
)

// payloadPkgPath namespaces request-type names inside the x.Registry.  The
// registry keys entries by package path and name combined, and an empty
// package path would be refilled from the reflect type, so registration and
// lookup both qualify the request-type name with this fixed path.
const payloadPkgPath = "arbiter/payload"

// Types is a registry of payload Go types keyed by request type name.
type Types struct {
	registry *x.Registry
}

// NewTypes creates a payload type registry.
func NewTypes(options ...x.RegistryOption) *Types {
	return &Types{registry: x.NewRegistry(options...)}
}

// Register adds a payload type under the given request type name.
func (t *Types) Register(requestType string, rType reflect.Type) {
	t.registry.Register(x.NewType(rType, x.WithName(requestType), x.WithPkgPath(payloadPkgPath)))
}

// Lookup returns the payload type registered for the request type, or nil.
func (t *Types) Lookup(requestType string) reflect.Type {
	entry := t.registry.Lookup(payloadPkgPath + "." + requestType)
	if entry == nil {
		return nil
	}
	return entry.Type
}

// Decode re-types a payload into the registered Go type for requestType.
// Payloads of unregistered request types are returned unchanged.
func (t *Types) Decode(requestType string, payload interface{}) (interface{}, error) {
	rType := t.Lookup(requestType)
	if rType == nil || payload == nil {
		return payload, nil
	}
	if reflect.TypeOf(payload) == rType || (rType.Kind() != reflect.Ptr && reflect.TypeOf(payload) == reflect.PtrTo(rType)) {
		return payload, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload for %s: %w", requestType, err)
	}
	value := reflect.New(rType).Interface()
	if err = json.Unmarshal(data, value); err != nil {
		return nil, fmt.Errorf("failed to decode payload for %s: %w", requestType, err)
	}
	return value, nil
}
