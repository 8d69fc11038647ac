package extension

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deployPayload struct {
	Service string `json:"service"`
	Version string `json:"version"`
}

func TestTypes_Decode(t *testing.T) {
	types := NewTypes()
	types.Register("deployment", reflect.TypeOf(deployPayload{}))

	// a generic map round-trips into the registered struct
	decoded, err := types.Decode("deployment", map[string]interface{}{
		"service": "payments",
		"version": "v2",
	})
	require.NoError(t, err)
	typed, ok := decoded.(*deployPayload)
	require.True(t, ok)
	assert.Equal(t, "payments", typed.Service)
	assert.Equal(t, "v2", typed.Version)

	// already typed payloads pass through
	original := &deployPayload{Service: "x"}
	passthrough, err := types.Decode("deployment", original)
	require.NoError(t, err)
	assert.Same(t, original, passthrough)

	// unregistered request types are untouched
	raw := map[string]interface{}{"k": "v"}
	decoded, err = types.Decode("unknown", raw)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)

	// nil payload stays nil
	decoded, err = types.Decode("deployment", nil)
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestTypes_Lookup(t *testing.T) {
	types := NewTypes()
	assert.Nil(t, types.Lookup("missing"))
	types.Register("deployment", reflect.TypeOf(deployPayload{}))
	assert.Equal(t, reflect.TypeOf(deployPayload{}), types.Lookup("deployment"))
}

func TestTypes_LookupByRequestTypeName(t *testing.T) {
	types := NewTypes()
	types.Register("deployment", reflect.TypeOf(deployPayload{}))
	types.Register("rollback", reflect.TypeOf(deployPayload{}))

	// entries resolve by the request-type name they were registered under,
	// never by the Go type's own name
	assert.Equal(t, reflect.TypeOf(deployPayload{}), types.Lookup("deployment"))
	assert.Equal(t, reflect.TypeOf(deployPayload{}), types.Lookup("rollback"))
	assert.Nil(t, types.Lookup("deployPayload"))
}
