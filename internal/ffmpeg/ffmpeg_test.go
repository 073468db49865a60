package ffmpeg

import (
	"context"
	"errors"
	"os/exec"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/backmassage/sampleclean/internal/config"
)

func defaultCfg() *config.Config {
	cfg := config.DefaultConfig()
	return &cfg
}

func ptr[T any](v T) *T { return &v }

func indexOf(args []string, s string) int { return slices.Index(args, s) }

// --- Build / Synthesize ---

func TestSynthesize_Defaults(t *testing.T) {
	spec := Synthesize(defaultCfg(), "/in/a/x.wav", "/out/a/x")
	want := []string{
		"-hide_banner", "-nostdin", "-n",
		"-i", "/in/a/x.wav",
		"-af", "silenceremove=start_periods=1:start_duration=0.005:start_threshold=-70dB:" +
			"stop_periods=1:stop_duration=0.005:stop_threshold=-70dB",
		"/out/a/x.wav",
	}
	if spec.Program != "ffmpeg" {
		t.Errorf("Program: got %q", spec.Program)
	}
	if !reflect.DeepEqual(spec.Args, want) {
		t.Errorf("Args:\n got %q\nwant %q", spec.Args, want)
	}
}

func TestSynthesize_MonoMP3(t *testing.T) {
	cfg := defaultCfg()
	cfg.ToMono = true
	cfg.OutputFormat = "mp3"

	pairs := []struct{ src, dst string }{
		{"/in/a/x.wav", "/out/a/x"},
		{"/in/b/y.flac", "/out/b/y"},
	}
	for _, p := range pairs {
		src, dst := p.src, p.dst
		spec := Synthesize(cfg, src, dst)
		args := spec.Args

		if i := indexOf(args, "-ac"); i < 0 || args[i+1] != "1" {
			t.Errorf("%s: missing -ac 1 in %q", src, args)
		}
		if i := indexOf(args, "-b:a"); i < 0 || args[i+1] != "320k" {
			t.Errorf("%s: missing -b:a 320k in %q", src, args)
		}
		if strings.Contains(strings.Join(args, " "), "loudnorm") {
			t.Errorf("%s: unexpected loudnorm in %q", src, args)
		}
		if indexOf(args, "-ar") >= 0 {
			t.Errorf("%s: unexpected -ar in %q", src, args)
		}
		if got := args[len(args)-1]; got != dst+".mp3" {
			t.Errorf("%s: output = %q, want %q", src, got, dst+".mp3")
		}
	}
}

func TestSynthesize_LoudnessDefaultsRate(t *testing.T) {
	cfg := defaultCfg()
	cfg.LoudnessTargetLUFS = ptr(-14.0)
	args := Synthesize(cfg, "/in/x.wav", "/out/x").Args

	i := indexOf(args, "-ar")
	if i < 0 || args[i+1] != "44100" {
		t.Fatalf("-ar 44100 missing: %q", args)
	}
	af := args[indexOf(args, "-af")+1]
	if !strings.HasSuffix(af, ",loudnorm=i=-14:tp=-2") {
		t.Errorf("-af = %q, want loudnorm appended", af)
	}
}

func TestSynthesize_BitrateOnlyForMP3(t *testing.T) {
	for _, format := range []string{"wav", "flac", "aiff", "ogg", "mp3"} {
		cfg := defaultCfg()
		cfg.OutputFormat = format
		args := Synthesize(cfg, "/in/x.wav", "/out/x").Args
		has := indexOf(args, "-b:a") >= 0
		if has != (format == "mp3") {
			t.Errorf("format %s: -b:a present = %v", format, has)
		}
	}
}

func TestSynthesize_ArgumentOrder(t *testing.T) {
	cfg := defaultCfg()
	cfg.ToMono = true
	cfg.OutputFormat = "mp3"
	cfg.SampleRateHz = ptr(48000)
	args := Synthesize(cfg, "/in/x.wav", "/out/x").Args

	order := []int{
		indexOf(args, "-n"), indexOf(args, "-i"), indexOf(args, "-af"),
		indexOf(args, "-ar"), indexOf(args, "-ac"), indexOf(args, "-b:a"),
	}
	for i := 1; i < len(order); i++ {
		if order[i-1] < 0 || order[i] <= order[i-1] {
			t.Fatalf("argument order wrong: %q", args)
		}
	}
	if args[len(args)-1] != "/out/x.mp3" {
		t.Errorf("output must be last: %q", args)
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	cfg := defaultCfg()
	cfg.LoudnessTargetLUFS = ptr(-9.5)
	cfg.ToMono = true
	a := Synthesize(cfg, "/in/k.aif", "/out/k")
	b := Synthesize(cfg, "/in/k.aif", "/out/k")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("not deterministic:\n%v\n%v", a, b)
	}
}

func TestSynthesize_CustomProgram(t *testing.T) {
	cfg := defaultCfg()
	cfg.FFmpegPath = "/opt/ffmpeg/bin/ffmpeg"
	if got := Synthesize(cfg, "/in/x.wav", "/out/x").Program; got != cfg.FFmpegPath {
		t.Errorf("Program = %q", got)
	}
}

func TestCommandSpecString(t *testing.T) {
	spec := CommandSpec{Program: "ffmpeg", Args: []string{"-i", "/in/my kick.wav", "-af", "a=1", "/out/it's.wav", ""}}
	got := spec.String()
	want := `ffmpeg -i '/in/my kick.wav' -af a=1 '/out/it'\''s.wav' ''`
	if got != want {
		t.Errorf("String:\n got %s\nwant %s", got, want)
	}
}

// --- Execute ---

func requireShell(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func TestExecute_CapturesStreams(t *testing.T) {
	sh := requireShell(t)
	res := Execute(context.Background(), CommandSpec{Program: sh, Args: []string{"-c", "echo out; echo err >&2"}})
	if !res.OK() {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.Stdout != "out\n" || res.Stderr != "err\n" {
		t.Errorf("streams: stdout=%q stderr=%q", res.Stdout, res.Stderr)
	}
}

func TestExecute_NonZeroExit(t *testing.T) {
	sh := requireShell(t)
	res := Execute(context.Background(), CommandSpec{Program: sh, Args: []string{"-c", "echo boom >&2; exit 3"}})
	if res.OK() || !res.Started {
		t.Fatalf("expected started failure, got %+v", res)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	var exitErr *exec.ExitError
	if !errors.As(res.Err, &exitErr) {
		t.Errorf("Err = %v, want *exec.ExitError", res.Err)
	}
	if res.Stderr != "boom\n" {
		t.Errorf("Stderr = %q", res.Stderr)
	}
}

func TestExecute_SpawnFailure(t *testing.T) {
	res := Execute(context.Background(), CommandSpec{Program: "/nonexistent/ffmpeg-does-not-exist"})
	if res.Started || res.OK() {
		t.Fatalf("expected spawn failure, got %+v", res)
	}
	if res.Err == nil || res.ExitCode != -1 {
		t.Errorf("Err=%v ExitCode=%d", res.Err, res.ExitCode)
	}
}

func TestExecute_Cancelled(t *testing.T) {
	sh := requireShell(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := Execute(ctx, CommandSpec{Program: sh, Args: []string{"-c", "sleep 5"}})
	if res.OK() {
		t.Fatal("cancelled run must not succeed")
	}
}

// --- Stderr classification ---

func TestDiagnose(t *testing.T) {
	tests := []struct {
		stderr string
		want   string
	}{
		{"File '/out/x.wav' already exists. Exiting.", "output appeared during the run and was left untouched"},
		{"/in/x.wav: Invalid data found when processing input", "input is not decodable audio"},
		{"/out/x.wav: Permission denied", "permission denied"},
		{"av_interleaved_write_frame(): No space left on device", "no space left on device"},
		{"Unknown encoder 'libmp3lame'", "output format or encoder not supported by this ffmpeg build"},
		{"No such filter: 'loudnorm'", "filter chain rejected by ffmpeg"},
		{"something else entirely", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Diagnose(tt.stderr); got != tt.want {
			t.Errorf("Diagnose(%q) = %q, want %q", tt.stderr, got, tt.want)
		}
	}
}

func TestMatchOutputExists(t *testing.T) {
	if !MatchOutputExists("line1\nFile 'a b.mp3' already exists. Exiting.\n") {
		t.Error("should match ffmpeg -n refusal")
	}
	if MatchOutputExists("Output #0, wav, to '/out/x.wav':") {
		t.Error("should not match normal output")
	}
}

func TestTail(t *testing.T) {
	s := "a\n\nb\nc\n  \nd\n"
	if got := Tail(s, 2); got != "c\nd" {
		t.Errorf("Tail 2 = %q", got)
	}
	if got := Tail(s, 10); got != "a\nb\nc\nd" {
		t.Errorf("Tail 10 = %q", got)
	}
	if got := Tail("", 3); got != "" {
		t.Errorf("Tail empty = %q", got)
	}
}
