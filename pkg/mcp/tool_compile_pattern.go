package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/iconify/pkg/pattern"
	"github.com/macropower/iconify/pkg/rule"
)

var ErrTooManySamples = errors.New("too many samples")

// CompilePatternParams defines parameters for the compile_pattern tool.
type CompilePatternParams struct {
	Pattern string   `json:"pattern" jsonschema:"the wildcard pattern to compile"`
	Samples []string `json:"samples,omitempty" jsonschema:"folder names or content-relative paths to test the pattern against"`
}

// SampleMatch is the outcome of testing one sample.
type SampleMatch struct {
	Sample  string `json:"sample"`
	Tested  string `json:"tested"`
	Matched bool   `json:"matched"`
}

// CompilePatternResult contains the result of compiling a pattern.
type CompilePatternResult struct {
	Pattern     string        `json:"pattern"`
	Expression  string        `json:"expression,omitempty"`
	Error       string        `json:"error,omitempty"`
	Samples     []SampleMatch `json:"samples,omitempty"`
	Valid       bool          `json:"valid"`
	PathPattern bool          `json:"pathPattern"`
}

func (s *Server) handleCompilePattern(
	_ context.Context,
	_ *mcp.CallToolRequest,
	in CompilePatternParams,
) (*mcp.CallToolResult, CompilePatternResult, error) {
	out := CompilePatternResult{
		Pattern:     in.Pattern,
		PathPattern: pattern.IsPathPattern(in.Pattern),
	}

	if len(in.Samples) > maxSamples {
		return nil, out, fmt.Errorf("%w: %d > %d", ErrTooManySamples, len(in.Samples), maxSamples)
	}

	m, err := pattern.Compile(in.Pattern)
	if err != nil {
		out.Error = err.Error()
		return textResult(fmt.Sprintf("Pattern %q is invalid: %v", in.Pattern, err)), out, nil
	}

	out.Valid = true
	out.Expression = pattern.Expression(in.Pattern)

	matched := 0
	for _, sample := range in.Samples {
		// Samples are tested the same way rule lookups test folders.
		tested := rule.FinalSegment(sample)
		if out.PathPattern {
			tested = rule.StripRoot(sample, s.root())
		}

		sm := SampleMatch{Sample: sample, Tested: tested, Matched: m.Test(tested)}
		if sm.Matched {
			matched++
		}

		out.Samples = append(out.Samples, sm)
	}

	msg := fmt.Sprintf("Pattern %q compiles to %s.", in.Pattern, out.Expression)
	if len(in.Samples) > 0 {
		msg += fmt.Sprintf(" %d of %d samples matched.", matched, len(in.Samples))
	}

	return textResult(msg), out, nil
}

func textResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
	}
}
