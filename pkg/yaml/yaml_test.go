package yaml_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/iconify/pkg/yaml"
)

const testSchema = `{
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"rules": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"mode": {"enum": ["identity", "pattern"]},
					"icon": {"type": "string"}
				},
				"required": ["mode", "icon"]
			}
		}
	},
	"required": ["name"]
}`

func TestNewValidator(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		errMsg     string
		schemaData string
	}{
		"valid schema":   {schemaData: testSchema},
		"empty schema":   {schemaData: `{}`},
		"invalid json":   {schemaData: `{"invalid": json}`, errMsg: "unmarshal schema"},
		"invalid schema": {schemaData: `{"type": "invalid_type"}`, errMsg: "compile schema"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			v, err := yaml.NewValidator("test.json", []byte(tc.schemaData))
			if tc.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)
				assert.Nil(t, v)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, v)
		})
	}
}

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	v := yaml.MustNewValidator("test.json", []byte(testSchema))

	tcs := map[string]struct {
		input    string
		wantPath string
	}{
		"valid": {
			input: "name: x\nrules:\n  - mode: pattern\n    icon: a.png\n",
		},
		"missing name": {
			input:    "rules: []\n",
			wantPath: "$",
		},
		"bad mode": {
			input:    "name: x\nrules:\n  - mode: regex\n    icon: a.png\n",
			wantPath: "$.rules[0].mode",
		},
		"missing icon": {
			input:    "name: x\nrules:\n  - mode: pattern\n  - mode: identity\n    icon: b.png\n",
			wantPath: "$.rules[0]",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var data any

			require.NoError(t, yaml.NewDecoder(bytes.NewReader([]byte(tc.input))).Decode(&data))

			err := v.Validate(data)
			if tc.wantPath == "" {
				require.NoError(t, err)

				return
			}

			var yamlErr *yaml.Error
			require.ErrorAs(t, err, &yamlErr)
			require.NotNil(t, yamlErr.Path)
			assert.Equal(t, tc.wantPath, yamlErr.Path.String())
		})
	}
}

func TestError(t *testing.T) {
	t.Parallel()

	source := []byte("a: b\nb: c\nkey: value\nbaz: 5\nc: d\n")

	t.Run("without location", func(t *testing.T) {
		t.Parallel()

		err := yaml.NewError(errors.New("boom"))
		assert.Equal(t, "boom", err.Error())
	})

	t.Run("path without source", func(t *testing.T) {
		t.Parallel()

		err := yaml.NewError(errors.New("boom"),
			yaml.WithPath(yaml.NewPathBuilder().Root().Child("key").Build()),
		)
		assert.Equal(t, "error at $.key: boom", err.Error())
	})

	t.Run("path with source", func(t *testing.T) {
		t.Parallel()

		err := yaml.NewError(errors.New("boom"),
			yaml.WithPath(yaml.NewPathBuilder().Root().Child("key").Build()),
			yaml.WithSource(source),
			yaml.WithSourceLines(1),
		)

		msg := err.Error()
		assert.Contains(t, msg, "[3:1] boom")
		assert.Contains(t, msg, "key: value")
		assert.Contains(t, msg, "b: c")
		assert.NotContains(t, msg, "a: b")
		assert.NotContains(t, msg, "c: d")
		require.ErrorContains(t, errors.Unwrap(err), "boom")
	})

	t.Run("wrapper applies options", func(t *testing.T) {
		t.Parallel()

		broken := []byte("key: [unterminated\n")
		w := yaml.NewErrorWrapper(yaml.WithSource(broken))

		var data any

		err := yaml.NewDecoder(bytes.NewReader(broken)).Decode(&data)
		require.Error(t, err)

		err = w.Wrap(err)

		var yamlErr *yaml.Error
		require.ErrorAs(t, err, &yamlErr)
		assert.Equal(t, broken, yamlErr.Source)
		assert.NotNil(t, yamlErr.Token)

		plain := errors.New("plain")
		assert.Same(t, plain, w.Wrap(plain))
		assert.NoError(t, w.Wrap(nil))
	})
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	b, err := yaml.Marshal(map[string]any{"rules": []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, "rules:\n  - a\n  - b\n", string(b))
}
