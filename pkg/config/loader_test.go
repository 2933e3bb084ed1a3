package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/iconify/api/v1beta1/configs"
	"github.com/macropower/iconify/pkg/config"
	"github.com/macropower/iconify/pkg/rule"
)

const validConfig = `apiVersion: iconify.macropower.dev/v1beta1
kind: Configuration
root: Content
rules:
  - mode: pattern
    pattern: Editor
    icon: icons/editor.png
  - mode: identity
    folder: 1f0e6c2b8d6f4a4b9b7e1d2c3a4b5c6d
    icon: icons/special.png
`

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	l := config.NewLoaderFromBytes([]byte(validConfig), configs.New, configs.DefaultValidator)

	cfg, err := l.ValidateAndLoad()
	require.NoError(t, err)

	assert.True(t, cfg.IconsEnabled())
	assert.Equal(t, "Content", cfg.ContentRoot())
	require.Len(t, cfg.Rules, 2)
	assert.Equal(t, rule.ModePattern, cfg.Rules[0].Mode)
	assert.Equal(t, "icons/special.png", cfg.Rules[1].Icon)
}

func TestLoader_Validate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  string
	}{
		"wrong kind": {
			input: "apiVersion: iconify.macropower.dev/v1beta1\nkind: Other\n",
			want:  "kind",
		},
		"unknown mode": {
			input: "apiVersion: iconify.macropower.dev/v1beta1\nkind: Configuration\n" +
				"rules:\n  - mode: regex\n    icon: a.png\n",
			want: "mode",
		},
		"missing icon": {
			input: "apiVersion: iconify.macropower.dev/v1beta1\nkind: Configuration\n" +
				"rules:\n  - mode: pattern\n    pattern: Editor\n",
			want: "icon",
		},
		"syntax": {
			input: "rules: [\n",
			want:  "[",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			l := config.NewLoaderFromBytes([]byte(tc.input), configs.New, configs.DefaultValidator)
			err := l.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoader_LoadRuleErrors(t *testing.T) {
	t.Parallel()

	input := "apiVersion: iconify.macropower.dev/v1beta1\nkind: Configuration\n" +
		"rules:\n  - mode: pattern\n    pattern: Editor\n    icon: a.png\n" +
		"  - mode: identity\n    icon: b.png\n"

	l := config.NewLoaderFromBytes([]byte(input), configs.New, nil)

	require.NoError(t, l.Validate())

	_, err := l.Load()
	require.ErrorIs(t, err, rule.ErrMissingIdent)
	assert.Contains(t, err.Error(), "invalid rule")
}

func TestNewLoaderFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validConfig), 0o600))

	l, err := config.NewLoaderFromFile(path, configs.New, configs.DefaultValidator)
	require.NoError(t, err)

	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Len(t, cfg.Rules, 2)

	_, err = config.NewLoaderFromFile(filepath.Join(dir, "missing.yaml"), configs.New, nil)
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, configs.DefaultYAML(), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Rules)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("kind: Nope\n"), 0o600))

	_, err = config.Load(bad)
	require.ErrorContains(t, err, "invalid config")
}

func TestResolve(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "explicit.yaml", config.Resolve("explicit.yaml", t.TempDir()))

	dir := t.TempDir()
	project := filepath.Join(dir, ".iconify.yaml")
	require.NoError(t, os.WriteFile(project, []byte(validConfig), 0o600))

	sub := filepath.Join(dir, "Assets", "Editor")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	assert.Equal(t, project, config.Resolve("", sub))
}
