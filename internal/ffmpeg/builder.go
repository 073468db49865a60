package ffmpeg

import (
	"strconv"
	"strings"

	"github.com/backmassage/sampleclean/internal/config"
	"github.com/backmassage/sampleclean/internal/planner"
)

// CommandSpec is one fully resolved subprocess invocation.
type CommandSpec struct {
	Program string
	Args    []string
}

// String renders the command for logs. Arguments containing whitespace or
// shell metacharacters are single-quoted; the result is for display only.
func (c CommandSpec) String() string {
	var b strings.Builder
	b.WriteString(quoteArg(c.Program))
	for _, a := range c.Args {
		b.WriteByte(' ')
		b.WriteString(quoteArg(a))
	}
	return b.String()
}

// Build constructs the complete ffmpeg argument list for a plan. Argument
// order is fixed:
//
//	-hide_banner -nostdin -n -i <in> -af <chain> [-ar N] [-ac 1] [-b:a R] <out>
//
// -n makes ffmpeg refuse to overwrite, so an output that appears between the
// existence check and the spawn is still never clobbered.
func Build(program string, plan *planner.FilePlan) CommandSpec {
	args := make([]string, 0, 16)

	// --- Preamble ---
	args = append(args, "-hide_banner", "-nostdin", "-n")

	// --- Input ---
	args = append(args, "-i", plan.InputPath)

	// --- Audio filter chain ---
	if chain := plan.FilterChain(); chain != "" {
		args = append(args, "-af", chain)
	}

	// --- Sample rate ---
	if plan.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(plan.SampleRate))
	}

	// --- Channels ---
	if plan.Channels > 0 {
		args = append(args, "-ac", strconv.Itoa(plan.Channels))
	}

	// --- Bitrate ---
	if plan.Bitrate != "" {
		args = append(args, "-b:a", plan.Bitrate)
	}

	// --- Output ---
	args = append(args, plan.OutputPath)

	return CommandSpec{Program: program, Args: args}
}

// Synthesize plans and builds the command that transforms source into
// destBase + "." + cfg.OutputFormat. It is pure: equal inputs give equal
// commands.
func Synthesize(cfg *config.Config, source, destBase string) CommandSpec {
	plan := planner.BuildPlan(cfg, source, destBase)
	return Build(cfg.FFmpegPath, &plan)
}

func quoteArg(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`&|;<>()*?[]{}!#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
