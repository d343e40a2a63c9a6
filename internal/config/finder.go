package config

import (
	"os"
	"path/filepath"
)

// ConfigExts are the config file formats viper is asked to read, in lookup order.
var ConfigExts = []string{"yml", "yaml", "json", "toml"}

// FindLocalConfig finds local config file by walking up directories
func FindLocalConfig(dir string) string {
	for {
		for _, ext := range ConfigExts {
			path := filepath.Join(dir, ".ace."+ext)

			if _, err := os.Stat(path); err == nil {
				return path
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	return ""
}
