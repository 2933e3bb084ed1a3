package folder

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
)

// Scanner walks a project tree and yields its folders with their identities.
type Scanner struct {
	fsys fs.FS
	root string
}

// NewScanner creates a [Scanner] over fsys. The root is the content root
// segment (e.g. "Assets"); only folders below it are reported.
func NewScanner(fsys fs.FS, root string) *Scanner {
	return &Scanner{
		fsys: fsys,
		root: Clean(root),
	}
}

// Scan returns every folder below the content root, in lexical order.
// The content root itself is not included.
func (s *Scanner) Scan() ([]Folder, error) {
	start := s.root
	if start == "" {
		start = "."
	}

	var folders []Folder

	err := fs.WalkDir(s.fsys, start, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || p == start {
			return nil
		}
		if Ignored(d.Name()) {
			return fs.SkipDir
		}

		folders = append(folders, Folder{ID: s.identify(p), Path: p})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %q: %w", start, err)
	}

	return folders, nil
}

// Identify returns the identity of the folder at p.
func (s *Scanner) Identify(p string) ID {
	return s.identify(Clean(p))
}

func (s *Scanner) identify(p string) ID {
	id, err := ReadMeta(s.fsys, p)
	if err == nil {
		return id
	}
	if !errors.Is(err, fs.ErrNotExist) {
		slog.Debug("ignoring folder metadata",
			slog.String("path", p),
			slog.Any("err", err),
		)
	}

	return NewPathID(p)
}

// Ignored reports whether a folder with the given name is left out of the
// asset tree. Hidden folders and editor backup folders are ignored.
func Ignored(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~")
}
