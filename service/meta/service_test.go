package meta

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

func TestService_Load(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	err := fs.Upload(ctx, "mem://localhost/defs/policies.yaml", file.DefaultFileOsMode,
		strings.NewReader("name: ${env.META_TEST_NAME}\ncount: 3\n"))
	require.NoError(t, err)
	t.Setenv("META_TEST_NAME", "standard")

	var target struct {
		Name  string `yaml:"name"`
		Count int    `yaml:"count"`
	}

	// absolute URL
	service := New(fs, "")
	require.NoError(t, service.Load(ctx, "mem://localhost/defs/policies.yaml", &target))
	assert.Equal(t, "standard", target.Name)
	assert.Equal(t, 3, target.Count)

	// relative URL joined with base
	service = New(fs, "mem://localhost/defs")
	target.Name = ""
	require.NoError(t, service.Load(ctx, "policies.yaml", &target))
	assert.Equal(t, "standard", target.Name)
}

func TestService_LoadErrors(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	service := New(fs, "")

	var target map[string]interface{}
	err := service.Load(ctx, "mem://localhost/missing.yaml", &target)
	assert.Error(t, err)

	require.NoError(t, fs.Upload(ctx, "mem://localhost/broken.yaml", file.DefaultFileOsMode,
		strings.NewReader(":\n\t- not yaml")))
	err = service.Load(ctx, "mem://localhost/broken.yaml", &target)
	assert.Error(t, err)
}
