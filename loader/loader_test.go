package loader

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/typomatic/resolver"
	"github.com/teranos/typomatic/schema"
)

const shopBase = "example.com/shop/base.Serializer"

func newShopLoader(t *testing.T) *Loader {
	t.Helper()
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not available")
	}
	return New(Config{Dir: filepath.Join("testdata", "shop"), BaseType: shopBase})
}

func loadShop(t *testing.T) *schema.Tree {
	t.Helper()
	tree, err := newShopLoader(t).Load(context.Background())
	require.NoError(t, err)
	return tree
}

func binding(t *testing.T, tree *schema.Tree, ns, name string) schema.Binding {
	t.Helper()
	n, ok := tree.Lookup(ns)
	require.True(t, ok, "namespace %s not loaded", ns)
	b, ok := n.Lookup(name)
	require.True(t, ok, "%s not bound in %s", name, ns)
	return b
}

func TestLoad_Namespaces(t *testing.T) {
	tree := loadShop(t)

	assert.Equal(t, []string{
		"base",
		"billing.serializers",
		"billing.serializers.internal",
		"users.serializers",
	}, tree.Paths())
}

func TestLoad_BindingKinds(t *testing.T) {
	tree := loadShop(t)

	tests := []struct {
		name string
		kind schema.BindingKind
	}{
		{"InvoiceSerializer", schema.BindStruct},
		{"Money", schema.BindStruct},
		{"Account", schema.BindStruct},
		{"Status", schema.BindType},
		{"NewInvoice", schema.BindFunc},
		{"DefaultCurrency", schema.BindConst},
		{"StatusPaid", schema.BindConst},
		{"Registry", schema.BindVar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, binding(t, tree, "billing.serializers", tt.name).Kind)
		})
	}

	ns, _ := tree.Lookup("billing.serializers")
	_, ok := ns.Lookup("draftSerializer")
	assert.False(t, ok, "unexported names are not bound")
}

func TestLoad_SchemaMarker(t *testing.T) {
	tree := loadShop(t)

	assert.True(t, binding(t, tree, "billing.serializers", "InvoiceSerializer").Decl.Schema)
	assert.True(t, binding(t, tree, "billing.serializers", "AuditedSerializer").Decl.Schema,
		"embedding a schema struct makes a schema")
	assert.False(t, binding(t, tree, "billing.serializers", "Money").Decl.Schema)
	assert.False(t, binding(t, tree, "base", "Serializer").Decl.Schema)
}

func TestLoad_ReExportKeepsOrigin(t *testing.T) {
	tree := loadShop(t)

	alias := binding(t, tree, "billing.serializers", "Account")
	original := binding(t, tree, "users.serializers", "AccountSerializer")

	assert.Same(t, original.Decl, alias.Decl)
	assert.Equal(t, "users.serializers", alias.Decl.Origin)
	assert.Equal(t, "AccountSerializer", alias.Decl.Name)
}

func TestLoad_Fields(t *testing.T) {
	tree := loadShop(t)
	invoice := binding(t, tree, "billing.serializers", "InvoiceSerializer").Decl

	assert.Equal(t, "billing.serializers", invoice.Origin)
	assert.Equal(t, "InvoiceSerializer is an issued invoice.", invoice.Doc)

	byName := make(map[string]schema.Field)
	var order []string
	for _, f := range invoice.Fields {
		byName[f.JSONName] = f
		order = append(order, f.JSONName)
	}
	assert.Equal(t, []string{"number", "status", "customer", "lines", "issued_at", "notes", "currency"}, order)

	number := byName["number"]
	assert.Equal(t, schema.Basic(schema.BasicString), number.Type)
	assert.False(t, number.Optional)
	assert.Equal(t, []schema.Rule{{Name: "max", Value: "32"}}, number.Rules)
	assert.Equal(t, "Number is the human readable invoice number.", number.Doc)

	status := byName["status"]
	assert.Equal(t, []schema.Choice{
		{Value: "draft", Key: "Draft", Label: "Draft"},
		{Value: "paid", Key: "Paid", Label: "Paid in full"},
	}, status.Choices)

	customer := byName["customer"]
	assert.True(t, customer.Optional)
	assert.True(t, customer.Nullable)
	assert.Equal(t, schema.KindRef, customer.Type.Kind)
	assert.Equal(t, "users.serializers", customer.Type.Origin)
	assert.True(t, customer.Type.Schema)

	lines := byName["lines"]
	require.Equal(t, schema.KindList, lines.Type.Kind)
	assert.Equal(t, "LineItemSerializer", lines.Type.Elem.Name)
	assert.Equal(t, []schema.Rule{{Name: "min", Value: "1"}}, lines.Rules)

	assert.Equal(t, schema.Basic(schema.BasicDateTime), byName["issued_at"].Type)
	assert.True(t, byName["notes"].Optional)

	currency := byName["currency"]
	assert.Equal(t, []schema.Choice{{Value: "EUR"}, {Value: "USD"}}, currency.Choices)
}

func TestLoad_EmbeddedFieldsFlattened(t *testing.T) {
	tree := loadShop(t)
	audited := binding(t, tree, "billing.serializers", "AuditedSerializer").Decl

	require.Len(t, audited.Fields, 2)
	assert.Equal(t, "amount", audited.Fields[0].JSONName)
	assert.Equal(t, []schema.Rule{{Name: "gte", Value: "0"}}, audited.Fields[0].Rules)
	assert.Equal(t, "auditor", audited.Fields[1].JSONName)
	assert.Equal(t, "who signed off", audited.Fields[1].Doc)
}

func TestLoad_ResolvesEndToEnd(t *testing.T) {
	r := resolver.New(loadShop(t))

	var names []string
	for _, d := range r.Resolve("billing") {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"AuditedSerializer", "InvoiceSerializer", "LineItemSerializer"}, names)

	assert.Empty(t, r.Resolve("billing.Account"), "re-exports do not resolve in the importing namespace")
	assert.Len(t, r.Resolve("users.AccountSerializer"), 1)
	assert.Len(t, r.Resolve("billing.serializers.internal"), 1)
}

func TestGoPackages_ListInstalledPackages(t *testing.T) {
	l := newShopLoader(t)

	pkgs, err := NewGoPackages(l).ListInstalledPackages(context.Background())
	require.NoError(t, err)

	var names []string
	for _, p := range pkgs {
		names = append(names, p.Name)
		assert.Equal(t, p.Name, filepath.Base(p.Path))
		assert.Equal(t, "shop", filepath.Base(filepath.Dir(p.Path)))
	}
	assert.Equal(t, []string{"base", "billing", "users"}, names)
}

func TestLoad_MissingDirectory(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not available")
	}
	_, err := New(Config{Dir: filepath.Join(t.TempDir(), "nope")}).Load(context.Background())
	assert.Error(t, err)
}

func TestNamespace(t *testing.T) {
	tests := []struct {
		path, module, want string
	}{
		{"example.com/shop/billing/serializers", "example.com/shop", "billing.serializers"},
		{"example.com/shop", "example.com/shop", "shop"},
		{"example.com/shopping/cart", "example.com/shop", "example.com.shopping.cart"},
		{"billing/serializers", "", "billing.serializers"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Namespace(tt.path, tt.module))
		})
	}
}

func TestParseTag(t *testing.T) {
	info := parseTag(`json:"status,omitempty" validate:"required,oneof=a b,max=3,dive,min=1" pattern:"^[a-z]+$"`)

	assert.Equal(t, "status", info.JSONName)
	assert.True(t, info.Omitempty)
	assert.True(t, info.Required)
	assert.Equal(t, []string{"a", "b"}, info.OneOf)
	assert.Equal(t, []schema.Rule{{Name: "max", Value: "3"}}, info.Validate)
	assert.Equal(t, "^[a-z]+$", info.Pattern)

	assert.True(t, parseTag(`json:"-"`).Skip)
	assert.False(t, parseTag(`json:"-,"`).Skip, `"-," names a field "-"`)
	assert.Equal(t, tagInfo{}, parseTag(""))
}

func TestAppDir(t *testing.T) {
	dir := filepath.Join("root", "billing", "serializers", "internal")
	assert.Equal(t, filepath.Join("root", "billing"), appDir(dir, "billing.serializers.internal"))
	assert.Equal(t, "root", appDir("root", "shop"))
}
