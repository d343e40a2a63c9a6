package batch

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"

	"github.com/Norgate-AV/ace/internal/ctxlog"
)

// cleanup removes every artifact that exists now but did not exist when the
// run started, and lists each removed path in the report. Removal failures
// are logged and do not fail the run.
func (d *Driver) cleanup(ctx context.Context, artifacts map[string]bool, summary *Summary) {
	d.out.Heading(2, "removed files")

	paths := make([]string, 0, len(artifacts))
	for path, existed := range artifacts {
		if !existed {
			paths = append(paths, path)
		}
	}

	sort.Strings(paths)

	var result *multierror.Error

	for _, path := range paths {
		exists, err := afero.Exists(d.fs, path)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}

		if !exists {
			continue
		}

		if err := d.fs.Remove(path); err != nil {
			result = multierror.Append(result, err)
			continue
		}

		summary.Removed = append(summary.Removed, path)
		d.out.Bullet("%s", d.displayPath(path))
	}

	if err := result.ErrorOrNil(); err != nil {
		ctxlog.Error(ctx, "failed to remove artifacts", "error", err)
	}
}

// displayPath returns path as it is listed in the report: under DisplayDir
// when set, so the report does not depend on where it was generated.
func (d *Driver) displayPath(path string) string {
	if d.opts.DisplayDir == "" {
		return path
	}

	return filepath.Join(d.opts.DisplayDir, filepath.Base(path))
}
