// Package rule determines which icon should be used for a folder.
//
// A [RuleSet] is an ordered list of rules, and the first rule that matches a
// folder wins. Rules match either by folder identity, or by a wildcard
// pattern (see [github.com/macropower/iconify/pkg/pattern]) that is tested
// against the folder name or, when the pattern contains a `/`, against the
// folder path relative to the content root.
package rule
