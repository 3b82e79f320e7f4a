package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree_DefineAndBind(t *testing.T) {
	tree := NewTree()

	invoice := &Declaration{Name: "InvoiceSerializer", Origin: "billing.serializers", Schema: true}
	shared := &Declaration{Name: "SharedSerializer", Origin: "common.serializers", Schema: true}

	tree.Define(invoice)
	tree.Define(shared)
	tree.Bind("billing.serializers", "SharedSerializer", BindStruct, shared)
	tree.Bind("billing.serializers", "NewInvoice", BindFunc, nil)

	ns, ok := tree.Lookup("billing.serializers")
	require.True(t, ok)
	assert.Equal(t, 3, ns.Len())

	members := ns.Members()
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
	}
	assert.Equal(t, []string{"InvoiceSerializer", "NewInvoice", "SharedSerializer"}, names)

	b, ok := ns.Lookup("SharedSerializer")
	require.True(t, ok)
	assert.Equal(t, "common.serializers", b.Decl.Origin, "re-export keeps its defining origin")

	_, ok = tree.Lookup("missing")
	assert.False(t, ok)
}

func TestTree_PathsAndTopLevel(t *testing.T) {
	tree := NewTree()
	tree.Namespace("billing.serializers")
	tree.Namespace("billing.serializers.internal")
	tree.Namespace("users.serializers")
	tree.Namespace("users")

	assert.Equal(t, []string{
		"billing.serializers",
		"billing.serializers.internal",
		"users",
		"users.serializers",
	}, tree.Paths())
	assert.Equal(t, []string{"billing", "users"}, tree.TopLevel())
}

func TestContextOf(t *testing.T) {
	tests := []struct {
		origin string
		want   OutputContext
	}{
		{"billing.serializers", "billing"},
		{"billing.serializers.internal", "billing"},
		{"billing", "billing"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			assert.Equal(t, tt.want, ContextOf(tt.origin))
		})
	}
}

func TestDeclaration_QualifiedAndContext(t *testing.T) {
	decl := &Declaration{Name: "LedgerSerializer", Origin: "billing.serializers.internal"}

	assert.Equal(t, "billing.serializers.internal.LedgerSerializer", decl.Qualified())
	assert.Equal(t, OutputContext("billing"), decl.Context())
}

func TestIsPublic(t *testing.T) {
	assert.True(t, IsPublic("InvoiceSerializer"))
	assert.False(t, IsPublic("_hidden"))
	assert.False(t, IsPublic(""))
}
