// Command sampleclean trims leading and trailing silence from every audio
// file under a folder and writes the results, optionally down-mixed,
// loudness-normalized, resampled and converted, into a mirrored folder.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errReported) && !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, newStyles().errorLine(err))
		}
		os.Exit(1)
	}
}
