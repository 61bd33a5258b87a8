package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/qex/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config"

// defaultDirMode is the default permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// basePrefix returns the base prefix string used to construct the path to the
// configuration directory.
//
// By default, basePrefix is the base name of the executable file unless it
// matches one of the following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with the
//     package name
//   - "^\.+" (dot-prefixed names): remove the dot prefix
var basePrefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		ext := filepath.Ext(filepath.Base(id))
		id = strings.TrimSuffix(filepath.Base(id), ext)

		for rex, rep := range map[*regexp.Regexp]string{
			regexp.MustCompile(`^__debug_bin\d+$`): pkg.Name, // dlv default output
			regexp.MustCompile(`^\.+`):             "",       // remove leading dot(s)
		} {
			id = rex.ReplaceAllString(id, rep)
		}

		return id
	},
)

// configDir returns the configuration directory path.
var configDir = sync.OnceValue(
	func() string { return userDir(os.UserConfigDir, ".config") },
)

// cacheDir returns the cache directory path used for transient files such as
// the repl history.
var cacheDir = sync.OnceValue(
	func() string { return userDir(os.UserCacheDir, ".cache") },
)

// userDir resolves a per-user base directory, falling back to a dot
// directory under the home directory, then the working directory.
func userDir(lookup func() (string, error), fallback string) string {
	dir, err := lookup()
	if err != nil {
		dir, err = os.UserHomeDir()
		if err == nil {
			dir = filepath.Join(dir, fallback)
		} else {
			dir, err = os.Getwd()
			if err != nil {
				dir = "."
			}
		}
	}

	return filepath.Join(dir, basePrefix())
}

// configPath returns the absolute path to a file or directory formed by
// joining the configuration directory path with the given path elements.
//
// If no elements are given, it is equivalent to calling [configDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	if err := os.MkdirAll(configDir(), defaultDirMode); err != nil {
		return err
	}

	return os.MkdirAll(cacheDir(), defaultDirMode)
}
