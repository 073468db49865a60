package config

import (
	"errors"
	"fmt"
)

// ErrNotDirectory is wrapped by [InvalidInputError] when the input path
// exists but is a regular file.
var ErrNotDirectory = errors.New("not a directory")

// ErrHelp is returned by [ParseOptions] when one of the h, help or man
// keywords is present. Callers print usage and exit without processing.
var ErrHelp = errors.New("help requested")

// InvalidInputError reports an input root that is missing or unusable.
type InvalidInputError struct {
	Path string
	Err  error
}

func (e *InvalidInputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("not a valid input path: %v", e.Err)
	}
	return fmt.Sprintf("not a valid input path %q: %v", e.Path, e.Err)
}

func (e *InvalidInputError) Unwrap() error { return e.Err }

// ConfigConflictError reports an output root that coincides with, or is
// nested inside, the input root.
type ConfigConflictError struct {
	Input  string
	Output string
	Nested bool
}

func (e *ConfigConflictError) Error() string {
	if e.Nested {
		return fmt.Sprintf("output path %q must not be inside input path %q", e.Output, e.Input)
	}
	return fmt.Sprintf("input and output paths can not be the same (%q)", e.Input)
}

// OptionError reports a key=value option whose value cannot be parsed.
type OptionError struct {
	Key   string
	Value string
	Err   error
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("option %s=%q: %v", e.Key, e.Value, e.Err)
}

func (e *OptionError) Unwrap() error { return e.Err }
