package batch

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/Norgate-AV/ace/internal/utils"
)

// listFiles returns the regular files in dir whose names end in ext, sorted by name.
func (d *Driver) listFiles(dir, ext string) ([]string, error) {
	entries, err := afero.ReadDir(d.fs, dir)
	if err != nil {
		return nil, err
	}

	// afero.ReadDir sorts by name.
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !utils.HasExt(entry.Name(), ext) {
			continue
		}

		files = append(files, filepath.Join(dir, entry.Name()))
	}

	return files, nil
}
