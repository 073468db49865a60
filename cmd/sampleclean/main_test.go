package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/sampleclean/internal/config"
)

// runCLI executes the root command with args and an isolated user config
// directory.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TMPDIR", t.TempDir())

	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeSource(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not really audio"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestHelpKeywords(t *testing.T) {
	for _, args := range [][]string{
		{"help"},
		{"h"},
		{"/does/not/matter", "man"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			stdout, _, err := runCLI(t, args...)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if !strings.Contains(stdout, "Options (key=value") {
				t.Errorf("help output missing options section:\n%s", stdout)
			}
		})
	}
}

func TestFatalInputErrors(t *testing.T) {
	in := t.TempDir()
	file := filepath.Join(in, "kick.wav")
	writeSource(t, in, "kick.wav")

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "missing input",
			args: []string{"--no-color"},
			want: []string{"not a valid input path", "Pass an existing folder", "Usage:"},
		},
		{
			name: "input is a file",
			args: []string{file, "--no-color"},
			want: []string{"not a valid input path", "not a directory"},
		},
		{
			name: "same input and output",
			args: []string{in, "o=" + in, "--no-color"},
			want: []string{"can not be the same", "Choose an output path outside"},
		},
		{
			name: "output nested in input",
			args: []string{in, "o=" + filepath.Join(in, "out"), "--no-color"},
			want: []string{"must not be inside"},
		},
		{
			name: "bad numeric option",
			args: []string{in, "t=loud", "--no-color"},
			want: []string{`option t="loud"`, "Numeric options take plain numbers"},
		},
		{
			name: "bad format",
			args: []string{in, "f=mp/3", "--no-color"},
			want: []string{"invalid output format"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := runCLI(t, tt.args...)
			if !errors.Is(err, errReported) {
				t.Fatalf("Execute() error = %v, want errReported", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(stderr, w) {
					t.Errorf("stderr missing %q:\n%s", w, stderr)
				}
			}
		})
	}
}

func TestDryRunPrintsCommandsAndWritesNothing(t *testing.T) {
	in := t.TempDir()
	writeSource(t, in, "drums/kick.WAV")
	writeSource(t, in, "keys/pad.flac")
	writeSource(t, in, "notes.txt")

	stdout, _, err := runCLI(t, in, "m=1", "f=mp3", "l=-16", "--dry-run", "--no-color", "-j", "2")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, want := range []string{
		"[DRY] drums/kick.WAV -> " + filepath.Join("drums", "kick.mp3"),
		"[DRY] keys/pad.flac -> " + filepath.Join("keys", "pad.mp3"),
		"loudnorm=i=-16:tp=-2",
		"-ar 44100",
		"-ac 1",
		"-b:a 320k",
		"Jobs: 2",
		"Sample rate: 44100 Hz (implied by loudness normalization)",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "notes.txt") {
		t.Errorf("non-audio file was processed:\n%s", stdout)
	}
	if _, err := os.Stat(in + "_processed"); !os.IsNotExist(err) {
		t.Errorf("dry run created the output root (stat err = %v)", err)
	}
}

func TestExistingOutputIsSkipped(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeSource(t, in, "kick.wav")
	writeSource(t, out, "kick.wav")

	stdout, _, err := runCLI(t, in, "o="+out, "--dry-run", "--no-color")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(stdout, "[SKIP] kick.wav (already exists)") {
		t.Errorf("expected skip line:\n%s", stdout)
	}
	data, err := os.ReadFile(filepath.Join(out, "kick.wav"))
	if err != nil || string(data) != "not really audio" {
		t.Errorf("existing output changed: %q, %v", data, err)
	}
}

func TestConfigFilePrecedence(t *testing.T) {
	in := t.TempDir()
	writeSource(t, in, "kick.wav")

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	toml := "threshold = -50\nformat = \"flac\"\njobs = 3\n"
	if err := os.WriteFile(cfgPath, []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}

	// Options override the file, and flags override both.
	stdout, _, err := runCLI(t, in, "f=mp3", "--config", cfgPath, "--jobs", "5", "--dry-run", "--no-color")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{
		"Silence threshold: -50 dB",
		"Format: mp3",
		"Jobs: 5",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
}

func TestMissingConfigFileIsFatal(t *testing.T) {
	in := t.TempDir()
	_, stderr, err := runCLI(t, in, "--config", filepath.Join(t.TempDir(), "nope.toml"), "--no-color")
	if !errors.Is(err, errReported) {
		t.Fatalf("Execute() error = %v, want errReported", err)
	}
	if !strings.Contains(stderr, "nope.toml") {
		t.Errorf("stderr does not name the config file:\n%s", stderr)
	}
}

func TestUnknownOptionWarns(t *testing.T) {
	in := t.TempDir()
	stdout, stderr, err := runCLI(t, in, "zz=1", "--dry-run", "--no-color")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(stdout+stderr, `Ignoring unknown option "zz=1"`) {
		t.Errorf("missing unknown option warning:\n%s%s", stdout, stderr)
	}
	if !strings.Contains(stdout+stderr, "No audio files found") {
		t.Errorf("missing empty input warning:\n%s%s", stdout, stderr)
	}
}

func TestMissingFFmpegFailsBeforeProcessing(t *testing.T) {
	in := t.TempDir()
	writeSource(t, in, "kick.wav")

	stdout, stderr, err := runCLI(t, in, "--ffmpeg", filepath.Join(t.TempDir(), "no-ffmpeg"), "--no-color")
	if !errors.Is(err, errReported) {
		t.Fatalf("Execute() error = %v, want errReported", err)
	}
	if !strings.Contains(stdout+stderr, "ffmpeg not found") {
		t.Errorf("missing ffmpeg diagnostic:\n%s%s", stdout, stderr)
	}
	if _, err := os.Stat(in + "_processed"); !os.IsNotExist(err) {
		t.Errorf("output root created although ffmpeg is missing (stat err = %v)", err)
	}
}

func TestHintFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"conflict", &config.ConfigConflictError{Input: "/in", Output: "/in"}, "Choose an output path outside: /in"},
		{"invalid input", &config.InvalidInputError{Path: "/x", Err: os.ErrNotExist}, "Pass an existing folder as the first argument."},
		{"option", &config.OptionError{Key: "t", Value: "x", Err: errors.New("bad")}, "Numeric options take plain numbers, for example t=-60 or sr=48000."},
		{"other", errors.New("boom"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hintFor(tt.err); got != tt.want {
				t.Errorf("hintFor() = %q, want %q", got, tt.want)
			}
		})
	}
}
