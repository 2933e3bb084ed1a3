// Package v1beta1 contains the v1beta1 API types for iconify configuration.
package v1beta1

import "github.com/invopop/jsonschema"

// APIVersion is the current API version for all iconify configuration kinds.
const APIVersion = "iconify.macropower.dev/v1beta1"

// ValidAPIVersions contains all valid API versions.
var ValidAPIVersions = []string{APIVersion}

// TypeMeta contains the API version and kind metadata common to all config types.
type TypeMeta struct {
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind"`
}

// GetAPIVersion returns the API version.
func (tm TypeMeta) GetAPIVersion() string {
	return tm.APIVersion
}

// GetKind returns the kind.
func (tm TypeMeta) GetKind() string {
	return tm.Kind
}

// Object is the interface that all config types implement.
type Object interface {
	GetAPIVersion() string
	GetKind() string
	// EnsureDefaults fills unset fields after decoding.
	EnsureDefaults()
	// Validate checks requirements that the JSON schema cannot express.
	Validate() error
}

// ExtendSchemaWithEnums restricts the apiVersion and kind properties of a
// JSON schema to the given values. It panics if either property is missing.
func ExtendSchemaWithEnums(jss *jsonschema.Schema, apiVersions, kinds []string) {
	restrictToConsts(jss, "apiVersion", "API Version", apiVersions)
	restrictToConsts(jss, "kind", "Kind", kinds)
}

func restrictToConsts(jss *jsonschema.Schema, property, title string, values []string) {
	prop, ok := jss.Properties.Get(property)
	if !ok {
		panic(property + " property not found in schema")
	}

	for _, v := range values {
		prop.OneOf = append(prop.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: v,
			Title: title,
		})
	}

	_, _ = jss.Properties.Set(property, prop)
}
