package cli

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/termenv"
	"github.com/sahilm/fuzzy"
)

const chromaStyle = "dracula"

// highlightYAML renders YAML source with terminal colors matching the
// color profile of the output.
func highlightYAML(src string, profile termenv.Profile) (string, error) {
	formatterName := "noop"
	switch profile {
	case termenv.TrueColor:
		formatterName = "terminal16m"
	case termenv.ANSI256:
		formatterName = "terminal256"
	case termenv.ANSI:
		formatterName = "terminal8"
	case termenv.Ascii:
	}

	lexer := chroma.Coalesce(lexers.Get("YAML"))

	it, err := lexer.Tokenise(nil, src)
	if err != nil {
		return "", fmt.Errorf("tokenise yaml: %w", err)
	}

	var buf bytes.Buffer

	err = formatters.Get(formatterName).Format(&buf, styles.Get(chromaStyle), it)
	if err != nil {
		return "", fmt.Errorf("format yaml: %w", err)
	}

	return buf.String(), nil
}

// filterEntries returns the entries whose path fuzzy-matches query, best
// match first.
func filterEntries(entries []Entry, query string) []Entry {
	targets := make([]string, 0, len(entries))
	for _, e := range entries {
		targets = append(targets, e.Path)
	}

	ranks := fuzzy.Find(query, targets)
	sort.Stable(ranks)

	out := make([]Entry, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, entries[r.Index])
	}

	return out
}
