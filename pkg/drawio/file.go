package drawio

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/matzehuels/drawctl/pkg/diagram"
	"github.com/matzehuels/drawctl/pkg/errors"
)

// New returns an empty diagram with a fresh page id.
func New() *diagram.Diagram {
	d := diagram.New()
	d.PageID = uuid.NewString()
	return d
}

// Load reads the diagram at path. A missing or empty file yields a new,
// empty diagram.
func Load(path string) (*diagram.Diagram, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	d, err := Decode(data)
	if err != nil {
		return nil, errors.Wrap(errors.CodeOrInternal(err), err, "load %s", path)
	}
	if d.PageID == "" {
		d.PageID = uuid.NewString()
	}
	return d, nil
}

// Save writes d to path in the container its extension selects. The file
// is replaced atomically.
func Save(d *diagram.Diagram, path string, opts Options) error {
	if d.PageID == "" {
		d.PageID = uuid.NewString()
	}
	data, err := EncodeFormat(d, FormatForPath(path), opts)
	if err != nil {
		return err
	}
	if err := WriteFileAtomic(path, data); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}

// WriteFileAtomic writes data to a temp file next to path, syncs it and
// renames it into place.
func WriteFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmpPath != "" {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	tmpPath = ""
	return nil
}
