package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrCLINotFound indicates the external binary is not on PATH
var ErrCLINotFound = errors.New("command line tool not found")

// ErrCommandTimeout indicates the external command exceeded its deadline
var ErrCommandTimeout = errors.New("command timed out")

// Result holds the outcome of one external command invocation
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Runner wraps one external binary resolved from PATH
type Runner struct {
	binary    string
	path      string
	available bool
}

// New creates a runner for the named binary. A missing binary is not an
// error at construction time; Run reports it when actually invoked.
func New(binary string) *Runner {
	r := &Runner{binary: binary}

	path, err := exec.LookPath(binary)
	if err != nil {
		log.Debug().Str("binary", binary).Msg("Binary not found in PATH")
		return r
	}

	r.path = path
	r.available = true
	return r
}

// Available returns whether the binary was found on PATH
func (r *Runner) Available() bool {
	return r.available
}

// Path returns the resolved binary path, empty when unavailable
func (r *Runner) Path() string {
	return r.path
}

// Binary returns the binary name the runner was created for
func (r *Runner) Binary() string {
	return r.binary
}

// Run executes the binary in dir with the given arguments. When stream is
// non-nil both stdout and stderr are teed to it so the user sees vendor
// output live; the captured copies are returned either way. Deadlines come
// from ctx; callers own their timeouts.
func (r *Runner) Run(ctx context.Context, dir string, args []string, stream io.Writer) (*Result, error) {
	if !r.available {
		return nil, fmt.Errorf("%w: %s", ErrCLINotFound, r.binary)
	}

	start := time.Now()

	cmd := exec.CommandContext(ctx, r.path, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	if stream != nil {
		cmd.Stdout = io.MultiWriter(&stdout, stream)
		cmd.Stderr = io.MultiWriter(&stderr, stream)
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	log.Debug().
		Str("command", r.path).
		Strs("args", args).
		Str("dir", dir).
		Msg("Running command")

	err := cmd.Run()

	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if ctx.Err() == context.DeadlineExceeded {
		return result, fmt.Errorf("%w: %s after %v", ErrCommandTimeout, commandLabel(r.binary, args), result.Duration.Round(time.Second))
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		return result, fmt.Errorf("%s failed: %w%s", commandLabel(r.binary, args), err, stderrTail(result.Stderr))
	}

	return result, nil
}

// RunQuiet executes the binary without streaming, for availability and
// auth probes where the output is inspected rather than shown.
func (r *Runner) RunQuiet(ctx context.Context, dir string, args ...string) (*Result, error) {
	return r.Run(ctx, dir, args, nil)
}

// Version returns the first line of the binary's --version output
func (r *Runner) Version(ctx context.Context) (string, error) {
	result, err := r.RunQuiet(ctx, "", "--version")
	if err != nil {
		return "", err
	}

	out := strings.TrimSpace(result.Stdout)
	if out == "" {
		out = strings.TrimSpace(result.Stderr)
	}
	if i := strings.IndexByte(out, '\n'); i >= 0 {
		out = out[:i]
	}

	return strings.TrimSpace(out), nil
}

// SplitCommand splits a command line into program and arguments. Shell
// quoting is not interpreted; build commands are plain word sequences
// like "pnpm run build".
func SplitCommand(command string) (string, []string, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return "", nil, errors.New("empty command")
	}
	return fields[0], fields[1:], nil
}

// commandLabel names an invocation for error messages, e.g. "vercel deploy"
func commandLabel(binary string, args []string) string {
	if len(args) == 0 {
		return binary
	}
	return binary + " " + args[0]
}

// stderrTail folds the last lines of stderr into an error message
func stderrTail(stderr string) string {
	s := strings.TrimSpace(stderr)
	if s == "" {
		return ""
	}

	lines := strings.Split(s, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}

	return ": " + strings.Join(lines, " / ")
}
