package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DestinationBase returns <outputRoot>/<relativePath> with the final
// extension stripped. The output format extension is appended later by
// [DestinationPath]. A name that is nothing but an extension (".wav") is
// kept whole so the result never collapses onto its parent directory.
func DestinationBase(outputRoot, relativePath string) string {
	rel := filepath.Clean(relativePath)
	dir, name := filepath.Split(rel)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if stem == "" {
		stem = name
	}
	return filepath.Join(outputRoot, dir, stem)
}

// DestinationPath appends the output format extension to base.
func DestinationPath(base, format string) string {
	return base + "." + format
}

// DirectoryCreationError reports a destination directory that could not be
// created. It is local to one file.
type DirectoryCreationError struct {
	Dir string
	Err error
}

func (e *DirectoryCreationError) Error() string {
	return fmt.Sprintf("folder was not created: %s: %v", e.Dir, e.Err)
}

func (e *DirectoryCreationError) Unwrap() error { return e.Err }

// EnsureParent creates the parent directory of path, including any missing
// ancestors. Concurrent calls for siblings sharing ancestors are safe;
// an already existing directory is not an error.
func EnsureParent(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &DirectoryCreationError{Dir: dir, Err: err}
	}
	return nil
}
