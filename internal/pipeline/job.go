package pipeline

import (
	"github.com/backmassage/sampleclean/internal/config"
	"github.com/backmassage/sampleclean/internal/naming"
)

// Job is the per-file unit of work derived from one DiscoveredFile.
type Job struct {
	Source DiscoveredFile

	DestinationBase string // Mirrored path without extension.
	DestinationPath string // DestinationBase + "." + format.

	// DestinationExists is set when the collision check found an entry at
	// DestinationPath before any work was done.
	DestinationExists bool
}

// NewJob maps f into the output tree. It does not touch the filesystem.
func NewJob(cfg *config.Config, f DiscoveredFile) Job {
	base := naming.DestinationBase(cfg.OutputRoot, f.RelativePath)
	return Job{
		Source:          f,
		DestinationBase: base,
		DestinationPath: naming.DestinationPath(base, cfg.OutputFormat),
	}
}
