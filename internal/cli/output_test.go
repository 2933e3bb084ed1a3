package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/iconify/internal/cli"
	"github.com/macropower/iconify/pkg/folder"
	"github.com/macropower/iconify/pkg/iconify"
	"github.com/macropower/iconify/pkg/rule"
)

func assignments(icons map[string]string, paths ...string) []iconify.Assignment {
	out := make([]iconify.Assignment, 0, len(paths))
	for _, p := range paths {
		a := iconify.Assignment{Folder: folder.Folder{ID: folder.NewPathID(p), Path: p}}
		if icon, ok := icons[p]; ok {
			a.Rule = rule.NewPattern(folder.Folder{Path: p}.Name(), icon)
		}

		out = append(out, a)
	}

	return out
}

func TestGetOutput(t *testing.T) {
	t.Parallel()

	for _, o := range cli.AllOutputs {
		got, err := cli.GetOutput(o)
		require.NoError(t, err)
		assert.Equal(t, cli.Output(o), got)
	}

	_, err := cli.GetOutput("xml")
	require.ErrorIs(t, err, cli.ErrUnknownOutput)
}

func TestPrinter_Filter(t *testing.T) {
	t.Parallel()

	as := assignments(map[string]string{
		"Assets/Editor":         "editor.png",
		"Assets/Scripts/Editor": "script-editor.png",
		"Assets/Art":            "art.png",
	}, "Assets/Art", "Assets/Editor", "Assets/Scripts/Editor")

	p := cli.NewPrinter(&bytes.Buffer{}, cli.PrinterOpts{Filter: "scred"})

	entries := p.Entries(as)
	require.Len(t, entries, 1)
	assert.Equal(t, "Assets/Scripts/Editor", entries[0].Path)
}

func TestPrinter_Diff(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	p := cli.NewPrinter(&buf, cli.PrinterOpts{Diff: true})

	paths := []string{"Assets/Art", "Assets/Editor"}

	require.NoError(t, p.Print(assignments(map[string]string{"Assets/Editor": "editor.png"}, paths...), 1))
	assert.Equal(t, "Assets/Editor\teditor.png\n", buf.String())

	buf.Reset()
	require.NoError(t, p.Print(assignments(map[string]string{"Assets/Editor": "editor.png"}, paths...), 1))
	assert.Empty(t, buf.String(), "unchanged listing prints nothing")

	buf.Reset()
	require.NoError(t, p.Print(assignments(map[string]string{
		"Assets/Editor": "editor-v2.png",
		"Assets/Art":    "art.png",
	}, paths...), 2))

	out := buf.String()
	assert.Contains(t, out, "--- previous")
	assert.Contains(t, out, "+++ current")
	assert.Contains(t, out, "-Assets/Editor\teditor.png")
	assert.Contains(t, out, "+Assets/Editor\teditor-v2.png")
	assert.Contains(t, out, "+Assets/Art\tart.png")
}
