// Package filesystem routes config, log and cache file access through afero,
// so tests can swap the OS for an in-memory filesystem.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active filesystem.
func API() afero.Afero {
	return backend
}

// Fs is the raw afero.Fs, as viper expects it.
func Fs() afero.Fs {
	return backend.Fs
}

// SetOsFs restores the operating system filesystem.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs switches to a fresh in-memory filesystem.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}
