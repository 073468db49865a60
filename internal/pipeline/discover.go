package pipeline

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
)

// Supported audio file extensions (lowercase, with leading dot).
var audioExtensions = map[string]bool{
	".wav":  true,
	".aiff": true,
	".aif":  true,
	".flac": true,
	".mp3":  true,
}

// DiscoveredFile is one matched source file.
type DiscoveredFile struct {
	AbsolutePath string
	RelativePath string // Relative to the input root, OS separators.
}

// DiscoveryError reports a traversal failure. Files yielded before it are
// still valid.
type DiscoveryError struct {
	Root string
	Path string
	Err  error
}

func (e *DiscoveryError) Error() string {
	if e.Path == "" || e.Path == e.Root {
		return fmt.Sprintf("cannot read input folder %s: %v", e.Root, e.Err)
	}
	return fmt.Sprintf("cannot read %s under %s: %v", e.Path, e.Root, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// IsAudioFile reports whether name has a supported extension, ignoring case.
func IsAudioFile(name string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(name))]
}

// Discover walks root recursively and yields every regular file with a
// supported audio extension. Hidden entries (name starting with ".") are
// skipped, as are hidden directories and everything under them. Symlinks
// to regular files are followed; symlinked directories are not descended.
//
// The sequence is lazy and single-use. Traversal order is not part of the
// contract. A read failure yields one (zero, *DiscoveryError) pair and ends
// the sequence.
func Discover(root string) iter.Seq2[DiscoveredFile, error] {
	return func(yield func(DiscoveredFile, error) bool) {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			yield(DiscoveredFile{}, &DiscoveryError{Root: root, Err: err})
			return
		}

		walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return &DiscoveryError{Root: absRoot, Path: path, Err: err}
			}
			if path != absRoot && strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !IsAudioFile(d.Name()) {
				return nil
			}
			if !isRegular(path, d) {
				return nil
			}

			rel, err := filepath.Rel(absRoot, path)
			if err != nil {
				return &DiscoveryError{Root: absRoot, Path: path, Err: err}
			}
			if !yield(DiscoveredFile{AbsolutePath: path, RelativePath: rel}, nil) {
				return filepath.SkipAll
			}
			return nil
		})
		if walkErr != nil {
			yield(DiscoveredFile{}, walkErr)
		}
	}
}

// isRegular resolves symlinks so a link to an audio file counts as one.
func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
