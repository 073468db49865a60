// Package logging provides the leveled, optionally colored console logger
// with an optional plain-text file sink.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/backmassage/sampleclean/internal/config"
	"github.com/backmassage/sampleclean/internal/term"
)

const timeLayout = "2006-01-02 15:04:05"

// Logger writes one timestamped line per call. Lines from concurrent jobs
// never interleave. ERROR lines go to the error stream, everything else to
// the output stream; the file sink receives every line without colors.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	file   *os.File
	runID  string
}

// NewLogger configures terminal colors from cfg and optionally opens
// cfg.LogFile in append mode. runID tags the file sink so interleaved runs
// in the same log file can be told apart. Call Close when done.
func NewLogger(cfg *config.Config, runID string) (*Logger, error) {
	term.Configure(cfg.ColorMode)

	l := &Logger{
		out:    os.Stdout,
		errOut: os.Stderr,
		runID:  runID,
	}

	if cfg.LogFile != "" {
		dir := filepath.Dir(cfg.LogFile)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = f
		_, _ = fmt.Fprintf(f, "%s === run %s ===\n", time.Now().Format(timeLayout), runID)
	}
	return l, nil
}

// SetOutput redirects console output. Tests use it to capture lines.
func (l *Logger) SetOutput(out, errOut io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = out
	l.errOut = errOut
}

// RunID returns the identifier passed to NewLogger.
func (l *Logger) RunID() string { return l.runID }

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

func (l *Logger) line(level, color, text string) {
	ts := time.Now().Format(timeLayout)
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.out
	if level == "ERROR" {
		out = l.errOut
	}
	plain := ts + " [" + level + "] " + text + "\n"
	if color != "" {
		_, _ = io.WriteString(out, ts+" "+color+"["+level+"]"+term.NC+" "+text+"\n")
	} else {
		_, _ = io.WriteString(out, plain)
	}
	if l.file != nil {
		_, _ = io.WriteString(l.file, plain)
	}
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.line("INFO", term.Blue, fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.line("SUCCESS", term.Green, fmt.Sprintf(format, args...))
}

// Skip logs at SKIP level (magenta). Used for deliberate no-ops such as an
// existing output file.
func (l *Logger) Skip(format string, args ...interface{}) {
	l.line("SKIP", term.Magenta, fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.line("WARN", term.Yellow, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red), to the error stream.
func (l *Logger) Error(format string, args ...interface{}) {
	l.line("ERROR", term.Red, fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan) only when verbose; no-op otherwise.
func (l *Logger) Debug(verbose bool, format string, args ...interface{}) {
	if !verbose {
		return
	}
	l.line("DEBUG", term.Cyan, fmt.Sprintf(format, args...))
}

// Block logs each line of text at INFO level with an indent, under a
// label line. Empty text logs nothing.
func (l *Logger) Block(label, text string) {
	text = strings.TrimRight(text, "\n")
	if strings.TrimSpace(text) == "" {
		return
	}
	l.Info("%s", label)
	for _, ln := range strings.Split(text, "\n") {
		l.Info("  %s", strings.TrimRight(ln, "\r"))
	}
}
