package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/macropower/iconify/pkg/pattern"
	"github.com/macropower/iconify/pkg/rule"
)

var (
	matchStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	noMatchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type CheckArgs struct {
	Root string
}

// NewCheckCmd creates the check command, which compiles a pattern and
// tests it against sample folder names or paths.
func NewCheckCmd() *cobra.Command {
	ca := &CheckArgs{}

	cmd := &cobra.Command{
		Use:   "check <pattern> [sample...]",
		Short: "Validate a pattern and preview what it matches",
		Long: `Validate a pattern and preview what it matches.

Samples are tested the way folders are: path patterns (containing "/") are
tested against the sample with the content root removed, other patterns
against the sample's final segment.`,
		Example: `  iconify check 'Edit*|Tools' Editor Tools Runtime
  iconify check 'Scripts/**' Assets/Scripts/Editor Assets/Art`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return check(cmd, ca, args[0], args[1:])
		},
	}

	cmd.Flags().StringVar(&ca.Root, "root", rule.DefaultRoot, "Content root removed from samples before path patterns are tested")

	bindEnvVars(cmd)

	return cmd
}

func check(cmd *cobra.Command, ca *CheckArgs, p string, samples []string) error {
	m, err := pattern.Compile(p)
	if err != nil {
		return err //nolint:wrapcheck // CompileError names the pattern.
	}

	w := cmd.OutOrStdout()
	styled := isTerminal(w)

	mustN(fmt.Fprintf(w, "%s\t%s\n", p, pattern.Expression(p)))

	for _, sample := range samples {
		tested := rule.FinalSegment(sample)
		if pattern.IsPathPattern(p) {
			tested = rule.StripRoot(sample, ca.Root)
		}

		mustN(fmt.Fprintln(w, checkLine(sample, tested, m.Test(tested), styled)))
	}

	return nil
}

func checkLine(sample, tested string, matched, styled bool) string {
	result := "no match"
	style := noMatchStyle
	if matched {
		result = "match"
		style = matchStyle
	}

	var sb strings.Builder

	sb.WriteString(sample)
	if tested != sample {
		sb.WriteString(" (" + tested + ")")
	}

	sb.WriteByte('\t')

	if styled {
		sb.WriteString(style.Render(result))
	} else {
		sb.WriteString(result)
	}

	return sb.String()
}
