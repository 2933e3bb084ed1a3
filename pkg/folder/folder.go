package folder

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// ID is an opaque, comparable folder identity.
type ID string

// Namespace is the UUID namespace used to derive path-hash identities.
var Namespace = uuid.MustParse("6c1f3a0e-4a5b-5d2e-9f61-7e1b0c2d3a4f")

// NewPathID derives a deterministic identity from a slash-delimited path.
func NewPathID(p string) ID {
	return ID(strings.ReplaceAll(uuid.NewSHA1(Namespace, []byte(Clean(p))).String(), "-", ""))
}

// IsZero reports whether the identity is unset.
func (id ID) IsZero() bool {
	return id == ""
}

func (id ID) String() string {
	return string(id)
}

// Query is what a host presents when asking which rule applies to a folder.
type Query struct {
	ID   ID
	Path string
}

// Folder is a folder discovered in a project tree.
type Folder struct {
	ID ID `json:"id"   yaml:"id"`
	// Path is slash-delimited and includes the content root segment.
	Path string `json:"path" yaml:"path"`
}

// Query returns the lookup query for the folder.
func (f Folder) Query() Query {
	return Query{ID: f.ID, Path: f.Path}
}

// Name returns the final segment of the folder path.
func (f Folder) Name() string {
	return path.Base(f.Path)
}

// Clean converts backslashes to slashes and removes redundant separators.
func Clean(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	if p == "" {
		return ""
	}

	return path.Clean(p)
}
