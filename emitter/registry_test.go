package emitter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/typomatic/schema"
)

func TestRegistry_RegisterIsIdempotent(t *testing.T) {
	r := NewRegistry()
	invoice := &schema.Declaration{Name: "InvoiceSerializer", Origin: "billing.serializers", Schema: true}

	assert.True(t, r.Register(invoice, "billing"))
	assert.False(t, r.Register(invoice, "billing"))

	assert.Len(t, r.Declarations("billing"), 1)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_KeyedByNameWithinContext(t *testing.T) {
	r := NewRegistry()
	a := &schema.Declaration{Name: "AccountSerializer", Origin: "users.serializers", Schema: true}
	b := &schema.Declaration{Name: "AccountSerializer", Origin: "users.serializers.admin", Schema: true}
	c := &schema.Declaration{Name: "AccountSerializer", Origin: "billing.serializers", Schema: true}

	assert.True(t, r.Register(a, "users"))
	assert.False(t, r.Register(b, "users"), "same declared name in the same context collapses")
	assert.True(t, r.Register(c, "billing"), "same name in another context is distinct")

	assert.Same(t, a, r.Declarations("users")[0])
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_ContextsInFirstSeenOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(&schema.Declaration{Name: "B"}, "users")
	r.Register(&schema.Declaration{Name: "A"}, "billing")
	r.Register(&schema.Declaration{Name: "C"}, "users")

	assert.Equal(t, []schema.OutputContext{"users", "billing"}, r.Contexts())

	decls := r.Declarations("users")
	require.Len(t, decls, 2)
	assert.Equal(t, "B", decls[0].Name)
	assert.Equal(t, "C", decls[1].Name)

	assert.Nil(t, r.Declarations("missing"))
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "billing", "index.ts"), OutputPath("out", "billing", "ts"))
	assert.Equal(t, filepath.Join("types", "users", "index.ts"), OutputPath("", "users", "ts"))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "billing", "index.ts")

	require.NoError(t, WriteFile(path, []byte("export {};\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "export {};\n", string(data))
}

func TestWriteFile_UnwritableRoot(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "types")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0644))

	err := WriteFile(filepath.Join(blocker, "billing", "index.ts"), []byte("x"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output directory")
}
