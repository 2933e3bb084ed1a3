package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/aymanbagabas/go-udiff"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"golang.org/x/term"

	"github.com/macropower/iconify/pkg/iconify"
	"github.com/macropower/iconify/pkg/yaml"
)

// Output is a listing format.
type Output string

const (
	OutputText Output = "text"
	OutputYAML Output = "yaml"
	OutputJSON Output = "json"
)

// AllOutputs lists every [Output].
var AllOutputs = []string{string(OutputText), string(OutputYAML), string(OutputJSON)}

var (
	pathStyle    = lipgloss.NewStyle().Bold(true)
	arrowStyle   = lipgloss.NewStyle().Faint(true)
	iconStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	noIconStyle  = lipgloss.NewStyle().Faint(true).Italic(true)
	summaryStyle = lipgloss.NewStyle().Faint(true).MarginTop(1)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// GetOutput parses an output format name.
func GetOutput(s string) (Output, error) {
	o := Output(strings.ToLower(s))
	if !slices.Contains(AllOutputs, string(o)) {
		return "", fmt.Errorf("%w: %q", ErrUnknownOutput, s)
	}

	return o, nil
}

// Entry is one listed folder.
type Entry struct {
	Path string `json:"path"`
	ID   string `json:"id,omitempty"`
	Icon string `json:"icon,omitempty"`
	Rule string `json:"rule,omitempty"`
}

// PrinterOpts configures a [Printer].
type PrinterOpts struct {
	Format Output
	// Filter fuzzy-matches folder paths. Results are ordered by rank.
	Filter string
	// All includes folders no rule matched.
	All bool
	// IDs includes folder identities.
	IDs bool
	// Diff prints text listings after the first as a unified diff
	// against the previous listing.
	Diff bool
}

// Printer writes resolved assignments.
type Printer struct {
	w      io.Writer
	last   *string
	opts   PrinterOpts
	mu     sync.Mutex
	styled bool
}

// NewPrinter creates a [Printer]. Text output is styled when w is a
// terminal.
func NewPrinter(w io.Writer, opts PrinterOpts) *Printer {
	if opts.Format == "" {
		opts.Format = OutputText
	}

	return &Printer{
		w:      w,
		opts:   opts,
		styled: isTerminal(w),
	}
}

// Entries converts assignments to listing entries, dropping unmatched
// folders unless all folders are requested.
func (p *Printer) Entries(as []iconify.Assignment) []Entry {
	out := make([]Entry, 0, len(as))

	for _, a := range as {
		if !a.Matched() && !p.opts.All {
			continue
		}

		e := Entry{Path: a.Folder.Path, Icon: a.Icon()}
		if p.opts.IDs {
			e.ID = a.Folder.ID.String()
		}
		if a.Rule != nil {
			e.Rule = a.Rule.String()
		}

		out = append(out, e)
	}

	if p.opts.Filter != "" {
		out = filterEntries(out, p.opts.Filter)
	}

	return out
}

// Print writes the listing for as. The rule count is used for the text
// summary.
func (p *Printer) Print(as []iconify.Assignment, rules int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries := p.Entries(as)

	switch p.opts.Format {
	case OutputJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")

		err := enc.Encode(entries)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil

	case OutputYAML:
		b, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		_, err = p.w.Write(b)
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}

		return nil

	case OutputText:
	}

	matched := 0
	for _, a := range as {
		if a.Matched() {
			matched++
		}
	}

	if p.opts.Diff && p.last != nil {
		return p.printDiff(entries)
	}

	if p.opts.Diff {
		plain := plainListing(entries)
		p.last = &plain
	}

	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(p.line(e))
		sb.WriteByte('\n')
	}

	if p.styled {
		sb.WriteString(summaryStyle.Render(summary(matched, len(as), rules)))
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(p.w, sb.String())
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

func (p *Printer) printDiff(entries []Entry) error {
	next := plainListing(entries)
	prev := *p.last
	p.last = &next

	d := udiff.Unified("previous", "current", prev, next)
	if d == "" {
		return nil
	}

	var sb strings.Builder
	for line := range strings.Lines(d) {
		switch {
		case !p.styled:
			sb.WriteString(line)
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			sb.WriteString(addedStyle.Render(strings.TrimSuffix(line, "\n")) + "\n")
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			sb.WriteString(removedStyle.Render(strings.TrimSuffix(line, "\n")) + "\n")
		default:
			sb.WriteString(line)
		}
	}

	_, err := io.WriteString(p.w, sb.String())
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

func plainListing(entries []Entry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(plainLine(e))
		sb.WriteByte('\n')
	}

	return sb.String()
}

func plainLine(e Entry) string {
	path := e.Path
	if e.ID != "" {
		path += " [" + e.ID + "]"
	}

	return path + "\t" + e.Icon
}

func (p *Printer) line(e Entry) string {
	if !p.styled {
		return plainLine(e)
	}

	path := e.Path
	if e.ID != "" {
		path += " [" + e.ID + "]"
	}

	icon := iconStyle.Render(e.Icon)
	if e.Icon == "" {
		icon = noIconStyle.Render("(none)")
	}

	return pathStyle.Render(path) + arrowStyle.Render(" → ") + icon
}

func summary(matched, folders, rules int) string {
	return fmt.Sprintf("%s of %s %s matched by %s %s",
		humanize.Comma(int64(matched)),
		humanize.Comma(int64(folders)),
		english.PluralWord(folders, "folder", ""),
		humanize.Comma(int64(rules)),
		english.PluralWord(rules, "rule", ""),
	)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: file descriptors fit in int.
}
