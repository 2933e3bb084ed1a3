// Package mcp exposes iconify lookups as Model Context Protocol tools.
package mcp

const (
	name         = "iconify"
	instructions = `MCP Server 'iconify' answers which custom icon a project folder gets.

Folders are matched by an ordered list of rules. The first matching rule wins.
Pattern rules use a small wildcard dialect, matched case-insensitively:
- '*' matches any run of characters within one path segment
- '**' matches anything, including separators
- '?' matches exactly one character
- '|' separates alternatives
Patterns containing '/' are tested against the folder path below the content
root (e.g. "Scripts/Editor"); other patterns are tested against the folder name.

Tools:
- 'compile_pattern' validates a pattern and previews it against sample names or paths.
- 'find_icon' returns the rule and icon for a folder path.
`

	maxSamples = 100
)
