package folder

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/macropower/iconify/pkg/yaml"
)

// MetaExt is the extension of sidecar metadata files.
const MetaExt = ".meta"

// ErrMissingGUID is returned when a metadata file has no usable guid.
var ErrMissingGUID = errors.New("meta file has no guid")

type meta struct {
	GUID string `yaml:"guid"`
}

// ReadMeta reads the persisted identity of the folder at p from its sidecar
// `<p>.meta` file.
func ReadMeta(fsys fs.FS, p string) (ID, error) {
	metaPath := p + MetaExt

	data, err := fs.ReadFile(fsys, metaPath)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", metaPath, err)
	}

	var m meta

	err = yaml.NewDecoder(bytes.NewReader(data)).Decode(&m)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", metaPath, err)
	}

	guid := strings.TrimSpace(m.GUID)
	if guid == "" {
		return "", fmt.Errorf("%s: %w", metaPath, ErrMissingGUID)
	}

	return ID(strings.ToLower(guid)), nil
}
