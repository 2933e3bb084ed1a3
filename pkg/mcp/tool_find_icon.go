package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/iconify/pkg/folder"
)

var ErrMissingPath = errors.New("path is required")

// FindIconParams defines parameters for the find_icon tool.
type FindIconParams struct {
	Path string `json:"path" jsonschema:"the folder path relative to the project root, e.g. Assets/Scripts/Editor"`
	ID   string `json:"id,omitempty" jsonschema:"the folder identity; derived from the folder metadata when omitted"`
}

// FindIconResult contains the rule and icon chosen for a folder.
type FindIconResult struct {
	Path    string `json:"path"`
	ID      string `json:"id"`
	Icon    string `json:"icon,omitempty"`
	Rule    string `json:"rule,omitempty"`
	Index   int    `json:"index"`
	Matched bool   `json:"matched"`
	Enabled bool   `json:"enabled"`
}

func (s *Server) handleFindIcon(
	_ context.Context,
	_ *mcp.CallToolRequest,
	in FindIconParams,
) (*mcp.CallToolResult, FindIconResult, error) {
	if in.Path == "" {
		return nil, FindIconResult{}, ErrMissingPath
	}

	p := folder.Clean(in.Path)
	id := folder.ID(in.ID)
	if id.IsZero() {
		id = s.svc.Identify(p)
	}

	m := s.svc.Lookup(folder.Query{ID: id, Path: p})
	out := FindIconResult{
		Path:    p,
		ID:      id.String(),
		Icon:    m.Icon,
		Rule:    m.Rule,
		Index:   m.Index,
		Matched: m.Matched,
		Enabled: m.Enabled,
	}

	switch {
	case !out.Enabled:
		return textResult("Custom folder icons are disabled."), out, nil
	case !out.Matched:
		return textResult(fmt.Sprintf("No rule matches %q.", p)), out, nil
	}

	return textResult(fmt.Sprintf("%q uses icon %q (rule %d: %s).", p, out.Icon, out.Index, out.Rule)), out, nil
}
