package pattern

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrCompile is returned (wrapped in a [*CompileError]) when a derived
// expression is rejected by the regular expression engine.
var ErrCompile = errors.New("compile pattern")

// Token replacements, applied in order so that `**` is consumed before `*`.
var tokenReplacer = strings.NewReplacer(
	`\*\*`, `.*`,
	`\*`, `[^/\\]*`,
	`\?`, `.`,
	`\|`, `|`,
)

// CompileError names the pattern whose derived expression failed to compile.
type CompileError struct {
	Err     error
	Pattern string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%v %q: %v", ErrCompile, e.Pattern, e.Err)
}

func (e *CompileError) Unwrap() []error {
	return []error{ErrCompile, e.Err}
}

// Matcher tests strings against a compiled wildcard pattern.
type Matcher struct {
	re      *regexp.Regexp
	pattern string
}

// Compile converts a wildcard pattern into a [Matcher].
func Compile(pattern string) (*Matcher, error) {
	expr := Expression(pattern)

	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	return &Matcher{re: re, pattern: pattern}, nil
}

// MustCompile is like [Compile] but panics if the pattern cannot be compiled.
func MustCompile(pattern string) *Matcher {
	m, err := Compile(pattern)
	if err != nil {
		panic(err)
	}

	return m
}

// Expression returns the anchored regular expression derived from pattern,
// without the case-insensitive flag.
func Expression(pattern string) string {
	// QuoteMeta emits each metacharacter as a two-byte `\x` pair, so the
	// replacer can never match across the boundary of an escaped backslash.
	expr := tokenReplacer.Replace(regexp.QuoteMeta(pattern))
	if strings.Contains(pattern, "|") {
		return "^(?:" + expr + ")$"
	}

	return "^" + expr + "$"
}

// IsPathPattern reports whether the pattern spans multiple path segments.
func IsPathPattern(pattern string) bool {
	return strings.Contains(pattern, "/")
}

// Test reports whether s matches the whole pattern.
func (m *Matcher) Test(s string) bool {
	return m.re.MatchString(s)
}

// Pattern returns the wildcard pattern the matcher was compiled from.
func (m *Matcher) Pattern() string {
	return m.pattern
}

func (m *Matcher) String() string {
	return m.re.String()
}
