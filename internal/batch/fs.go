package batch

import "github.com/spf13/afero"

// FsFactory returns the filesystem the driver reads sources and fixtures from
// and removes artifacts from.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}
