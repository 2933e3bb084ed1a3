package v1beta1_test

import (
	"testing"

	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"

	"github.com/macropower/iconify/api/v1beta1"
)

func TestTypeMeta(t *testing.T) {
	t.Parallel()

	tm := v1beta1.TypeMeta{APIVersion: v1beta1.APIVersion, Kind: "Configuration"}

	assert.Equal(t, "iconify.macropower.dev/v1beta1", tm.GetAPIVersion())
	assert.Equal(t, "Configuration", tm.GetKind())
}

func newMetaSchema(props ...string) *jsonschema.Schema {
	jss := &jsonschema.Schema{Properties: jsonschema.NewProperties()}
	for _, p := range props {
		jss.Properties.Set(p, &jsonschema.Schema{Type: "string"})
	}

	return jss
}

func TestExtendSchemaWithEnums(t *testing.T) {
	t.Parallel()

	jss := newMetaSchema("apiVersion", "kind")

	v1beta1.ExtendSchemaWithEnums(jss, []string{"v1", "v1beta1"}, []string{"Configuration"})

	apiVersion, ok := jss.Properties.Get("apiVersion")
	assert.True(t, ok)
	assert.Len(t, apiVersion.OneOf, 2)
	assert.Equal(t, "v1beta1", apiVersion.OneOf[1].Const)

	kind, ok := jss.Properties.Get("kind")
	assert.True(t, ok)
	assert.Len(t, kind.OneOf, 1)
	assert.Equal(t, "Configuration", kind.OneOf[0].Const)
}

func TestExtendSchemaWithEnums_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		v1beta1.ExtendSchemaWithEnums(newMetaSchema("kind"), []string{"v1"}, []string{"Kind"})
	})
	assert.Panics(t, func() {
		v1beta1.ExtendSchemaWithEnums(newMetaSchema("apiVersion"), []string{"v1"}, []string{"Kind"})
	})
}
