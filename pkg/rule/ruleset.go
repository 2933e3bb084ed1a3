package rule

import (
	"strings"

	"github.com/macropower/iconify/pkg/folder"
)

// DefaultRoot is the content root segment stripped from folder paths.
const DefaultRoot = "Assets"

// RuleSet is an ordered list of rules. The first matching rule wins.
type RuleSet []*Rule

// FindMatch returns the first rule matching the folder, using [DefaultRoot]
// as the content root.
func (rs RuleSet) FindMatch(id folder.ID, p string) (*Rule, bool) {
	return rs.find(folder.Query{ID: id, Path: p}, DefaultRoot)
}

func (rs RuleSet) find(q folder.Query, root string) (*Rule, bool) {
	i := rs.index(q, root)
	if i < 0 {
		return nil, false
	}

	return rs[i], true
}

func (rs RuleSet) index(q folder.Query, root string) int {
	for i, r := range rs {
		if r != nil && r.Match(q, root) {
			return i
		}
	}

	return -1
}

// Resolver finds rules for folders below a configurable content root.
type Resolver struct {
	// Root is stripped from the start of folder paths before testing path
	// patterns. Empty means paths are already content-relative.
	Root  string
	Rules RuleSet
}

// NewResolver creates a [Resolver]. The root is cleaned, and "." means no
// root.
func NewResolver(root string, rules RuleSet) *Resolver {
	root = folder.Clean(root)
	if root == "." {
		root = ""
	}

	return &Resolver{Root: root, Rules: rules}
}

// FindMatch returns the first rule matching the folder with the given
// identity and path.
func (r *Resolver) FindMatch(id folder.ID, p string) (*Rule, bool) {
	return r.Rules.find(folder.Query{ID: id, Path: p}, r.Root)
}

// Find is like [Resolver.FindMatch] for a [folder.Query].
func (r *Resolver) Find(q folder.Query) (*Rule, bool) {
	return r.Rules.find(q, r.Root)
}

// Index returns the position of the first rule matching the folder, or -1.
func (r *Resolver) Index(q folder.Query) int {
	return r.Rules.index(q, r.Root)
}

// StripRoot removes a leading root segment from p, if present.
func StripRoot(p, root string) string {
	if root == "" {
		return p
	}

	rel, ok := strings.CutPrefix(p, root+"/")
	if !ok {
		return p
	}

	return rel
}

// FinalSegment returns the last segment of p, ignoring trailing separators.
func FinalSegment(p string) string {
	p = strings.TrimRight(p, `/\`)

	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}

	return p
}
