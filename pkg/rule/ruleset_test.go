package rule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/macropower/iconify/pkg/folder"
	"github.com/macropower/iconify/pkg/rule"
)

func TestRuleSet_FindMatch(t *testing.T) {
	t.Parallel()

	h := folder.NewPathID("Assets/Special")

	t.Run("empty rule set", func(t *testing.T) {
		t.Parallel()

		var rs rule.RuleSet

		got, ok := rs.FindMatch(h, "Assets/Special")
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("first match wins", func(t *testing.T) {
		t.Parallel()

		first := rule.NewPattern("Edit*", "first.png")
		second := rule.NewPattern("Editor", "second.png")
		rs := rule.RuleSet{rule.NewPattern("Art", "art.png"), first, second}

		got, ok := rs.FindMatch("", "Assets/Scripts/Editor")
		assert.True(t, ok)
		assert.Same(t, first, got)
	})

	t.Run("broken rule does not stop the scan", func(t *testing.T) {
		t.Parallel()

		want := rule.NewPattern("Editor", "editor.png")
		rs := rule.RuleSet{nil, rule.NewPattern("\xff", "broken.png"), want}

		got, ok := rs.FindMatch("", "Assets/Editor")
		assert.True(t, ok)
		assert.Same(t, want, got)
	})

	t.Run("identity before pattern", func(t *testing.T) {
		t.Parallel()

		byID := rule.NewIdentity(h, "special.png")
		rs := rule.RuleSet{byID, rule.NewPattern("**", "any.png")}

		got, ok := rs.FindMatch(h, "Assets/Anything")
		assert.True(t, ok)
		assert.Same(t, byID, got)

		got, ok = rs.FindMatch("other", "Assets/Anything")
		assert.True(t, ok)
		assert.Equal(t, "any.png", got.Icon)
	})

	t.Run("no match", func(t *testing.T) {
		t.Parallel()

		rs := rule.RuleSet{rule.NewPattern("*/Editor/**", "e.png"), rule.NewIdentity(h, "s.png")}

		_, ok := rs.FindMatch("other", "Assets/Scripts")
		assert.False(t, ok)
	})
}

func TestResolver(t *testing.T) {
	t.Parallel()

	editor := rule.NewPattern("*/Editor/**", "editor.png")
	r := rule.NewResolver("Content", rule.RuleSet{editor})

	got, ok := r.FindMatch("", "Content/Scripts/Editor/Utils")
	assert.True(t, ok)
	assert.Same(t, editor, got)

	// The default root is not stripped when a different root is configured.
	_, ok = r.Find(folder.Query{Path: "Assets/Scripts/Editor/Utils"})
	assert.False(t, ok)

	editor.Pattern = "Scripts/**"

	got, ok = r.Find(folder.Query{Path: "Content/Scripts/AI"})
	assert.True(t, ok)
	assert.Same(t, editor, got)
}

func TestResolver_Root(t *testing.T) {
	t.Parallel()

	scripts := rule.NewPattern("Scripts/**", "scripts.png")

	for _, root := range []string{"Assets", "Assets/", `Assets\`, "./Assets"} {
		r := rule.NewResolver(root, rule.RuleSet{rule.NewPattern("Art", "art.png"), scripts})
		assert.Equal(t, "Assets", r.Root, root)

		got, ok := r.FindMatch("", "Assets/Scripts/AI")
		assert.True(t, ok, root)
		assert.Same(t, scripts, got, root)
		assert.Equal(t, 1, r.Index(folder.Query{Path: "Assets/Scripts/AI"}), root)
	}

	for _, root := range []string{"", "."} {
		r := rule.NewResolver(root, rule.RuleSet{scripts})
		assert.Empty(t, r.Root)
		assert.Equal(t, 0, r.Index(folder.Query{Path: "Scripts/AI"}))
		assert.Equal(t, -1, r.Index(folder.Query{Path: "Assets/Scripts/AI"}))
	}
}

func TestStripRoot(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Scripts/Editor", rule.StripRoot("Assets/Scripts/Editor", "Assets"))
	assert.Equal(t, "Assets", rule.StripRoot("Assets", "Assets"))
	assert.Equal(t, "AssetsX/Scripts", rule.StripRoot("AssetsX/Scripts", "Assets"))
	assert.Equal(t, "Assets/Assets/a", rule.StripRoot("Assets/Assets/Assets/a", "Assets"))
	assert.Equal(t, "Assets/a", rule.StripRoot("Assets/a", ""))
}

func TestFinalSegment(t *testing.T) {
	t.Parallel()

	tcs := map[string]string{
		"Assets/Scripts/Editor":  "Editor",
		"Assets/Scripts/Editor/": "Editor",
		`Assets\Scripts\Editor`:  "Editor",
		"Editor":                 "Editor",
		"":                       "",
		"/":                      "",
	}

	for in, want := range tcs {
		assert.Equal(t, want, rule.FinalSegment(in), in)
	}
}
