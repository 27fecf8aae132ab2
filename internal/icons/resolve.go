package icons

import (
	"os"
	"path/filepath"
	"strings"
)

// extSubstitutions are tried, in order, when the literal path does not
// exist or a bare theme-icon name must be located.
var extSubstitutions = []string{".png", ".svg", ".ico", ".jpg", ".jpeg"}

// defaultSearchDirs are the well-known system icon directories consulted
// for bare icon names.
var defaultSearchDirs = []string{
	"/usr/share/icons/hicolor/256x256/apps",
	"/usr/share/icons/hicolor/128x128/apps",
	"/usr/share/icons/hicolor/scalable/apps",
	"/usr/share/pixmaps",
}

// Resolver locates the source file behind an icon reference. References may
// be literal paths, paths with a wrong extension, or bare theme icon names.
type Resolver struct {
	// SearchDirs overrides the system icon directories, mainly for tests.
	SearchDirs []string
}

// NewResolver returns a resolver using the well-known system directories.
func NewResolver() *Resolver {
	return &Resolver{SearchDirs: defaultSearchDirs}
}

// Resolve maps an icon reference to an existing file. It tries, in order:
// the literal path, extension substitutions next to it, and the search
// directories for bare names. ok is false when nothing could be located.
func (r *Resolver) Resolve(ref string) (path string, ok bool) {
	if ref == "" {
		return "", false
	}

	if fileExists(ref) {
		return ref, true
	}

	// Same location, known extensions.
	if strings.ContainsRune(ref, os.PathSeparator) {
		stem := strings.TrimSuffix(ref, filepath.Ext(ref))
		for _, ext := range extSubstitutions {
			if candidate := stem + ext; fileExists(candidate) {
				return candidate, true
			}
		}
		return "", false
	}

	// Bare name: look through the system icon directories.
	for _, dir := range r.SearchDirs {
		if candidate := filepath.Join(dir, ref); fileExists(candidate) {
			return candidate, true
		}
		for _, ext := range extSubstitutions {
			if candidate := filepath.Join(dir, ref+ext); fileExists(candidate) {
				return candidate, true
			}
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
