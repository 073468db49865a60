package planner

// FilePlan holds every decision needed to transform one source file. It is
// produced by BuildPlan and consumed by ffmpeg.Build. A plan depends only on
// its inputs, so equal inputs always produce equal plans.
type FilePlan struct {
	InputPath  string
	OutputPath string // Destination base plus "." + Format.
	Format     string

	// AudioFilters is the ordered filter chain, joined with "," for -af.
	AudioFilters []string

	SampleRate int    // 0 keeps the source rate.
	Channels   int    // 0 keeps the source layout; 1 forces mono.
	Bitrate    string // Empty leaves the encoder default.

	// Notes are human-readable explanations of derived settings, such as
	// the sample rate implied by loudness normalization.
	Notes []string
}

// FilterChain returns the -af argument value.
func (p *FilePlan) FilterChain() string {
	return joinFilters(p.AudioFilters)
}
