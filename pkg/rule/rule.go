package rule

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/invopop/jsonschema"

	"github.com/macropower/iconify/pkg/folder"
	"github.com/macropower/iconify/pkg/pattern"
)

// Mode selects how a [Rule] matches folders.
type Mode string

const (
	// ModeIdentity matches a single folder by its identity.
	ModeIdentity Mode = "identity"
	// ModePattern matches folders by a wildcard pattern.
	ModePattern Mode = "pattern"
)

var (
	ErrUnknownMode  = errors.New("unknown match mode")
	ErrNotPattern   = errors.New("rule does not match by pattern")
	ErrMissingIcon  = errors.New("rule has no icon")
	ErrMissingIdent = errors.New("rule has no folder identity")

	// AllModes lists every valid [Mode].
	AllModes = []string{string(ModeIdentity), string(ModePattern)}
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeIdentity || m == ModePattern
}

func (m Mode) JSONSchemaExtend(jss *jsonschema.Schema) {
	jss.Enum = nil
	for _, v := range AllModes {
		jss.Enum = append(jss.Enum, v)
	}
}

// Rule associates an icon with the folders it matches.
//
// Mode and Pattern may be edited between lookups; the compiled matcher is
// refreshed the next time it is needed. A rule that is shared between
// goroutines must not be edited.
type Rule struct {
	cache    atomic.Pointer[compiled]
	mu       sync.Mutex
	compiles atomic.Int64

	// Mode is either "identity" or "pattern".
	Mode Mode `json:"mode" jsonschema:"title=Match Mode"`
	// Pattern is a wildcard pattern matched against folder names, or against
	// content-relative paths when it contains a `/`. Used by "pattern" rules.
	Pattern string `json:"pattern,omitempty" jsonschema:"title=Folder Pattern"`
	// Folder is the identity of the folder matched by "identity" rules.
	Folder folder.ID `json:"folder,omitempty" jsonschema:"title=Folder Identity"`
	// Icon is the icon to show for matched folders.
	Icon string `json:"icon" jsonschema:"title=Icon"`
}

// compiled is the matcher derived from a (pattern, mode) baseline.
type compiled struct {
	matcher *pattern.Matcher
	err     error
	pattern string
	mode    Mode
}

func (c *compiled) current(p string, m Mode) bool {
	return c != nil && c.pattern == p && c.mode == m
}

// NewPattern creates a rule that matches folders by pattern.
func NewPattern(p, icon string) *Rule {
	return &Rule{Mode: ModePattern, Pattern: p, Icon: icon}
}

// NewIdentity creates a rule that matches the folder with the given identity.
func NewIdentity(id folder.ID, icon string) *Rule {
	return &Rule{Mode: ModeIdentity, Folder: id, Icon: icon}
}

// Matcher returns the compiled matcher for the rule's current pattern.
// It only compiles when Pattern or Mode changed since the last call.
func (r *Rule) Matcher() (*pattern.Matcher, error) {
	p, m := r.Pattern, r.Mode

	if c := r.cache.Load(); c.current(p, m) {
		return c.matcher, c.err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another caller may have compiled while we waited.
	if c := r.cache.Load(); c.current(p, m) {
		return c.matcher, c.err
	}

	c := &compiled{pattern: p, mode: m}
	if m == ModePattern {
		r.compiles.Add(1)

		c.matcher, c.err = pattern.Compile(p)
		if c.err != nil {
			slog.Warn("rule pattern will never match",
				slog.String("pattern", p),
				slog.Any("err", c.err),
			)
		}
	} else {
		c.err = ErrNotPattern
	}

	r.cache.Store(c)

	return c.matcher, c.err
}

// Inherit adopts the compiled matcher of prev when it was built for the
// rule's current pattern and mode. prev is not modified.
func (r *Rule) Inherit(prev *Rule) bool {
	if prev == nil || prev == r {
		return false
	}

	c := prev.cache.Load()
	if !c.current(r.Pattern, r.Mode) {
		return false
	}

	r.cache.Store(c)

	return true
}

// Match reports whether the rule matches the folder. The root segment is
// stripped from the path before testing path patterns.
func (r *Rule) Match(q folder.Query, root string) bool {
	switch r.Mode {
	case ModeIdentity:
		return !r.Folder.IsZero() && r.Folder == q.ID

	case ModePattern:
		m, err := r.Matcher()
		if err != nil {
			return false
		}
		if pattern.IsPathPattern(m.Pattern()) {
			return m.Test(StripRoot(q.Path, root))
		}

		return m.Test(FinalSegment(q.Path))
	}

	return false
}

// Validate checks that the rule can match something.
func (r *Rule) Validate() error {
	if r.Icon == "" {
		return ErrMissingIcon
	}

	switch r.Mode {
	case ModeIdentity:
		if r.Folder.IsZero() {
			return ErrMissingIdent
		}

	case ModePattern:
		_, err := r.Matcher()
		if err != nil {
			return err
		}

	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, r.Mode)
	}

	return nil
}

func (r *Rule) String() string {
	switch r.Mode {
	case ModeIdentity:
		return fmt.Sprintf("identity %s: %s", r.Folder, r.Icon)
	case ModePattern:
		return fmt.Sprintf("pattern %q: %s", r.Pattern, r.Icon)
	}

	return fmt.Sprintf("%s: %s", r.Mode, r.Icon)
}
