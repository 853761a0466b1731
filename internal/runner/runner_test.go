package runner

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_MissingBinary(t *testing.T) {
	r := New("webship-binary-that-does-not-exist")

	assert.False(t, r.Available())
	assert.Empty(t, r.Path())

	_, err := r.Run(context.Background(), "", []string{"deploy"}, nil)
	assert.ErrorIs(t, err, ErrCLINotFound)
}

func newShellRunner(t *testing.T) *Runner {
	t.Helper()
	r := New("sh")
	if !r.Available() {
		t.Skipf("sh not available in PATH, skipping")
	}
	return r
}

func TestRunner_CapturesAndStreams(t *testing.T) {
	r := newShellRunner(t)

	var stream bytes.Buffer
	result, err := r.Run(context.Background(), "", []string{"-c", "echo deployed"}, &stream)

	require.NoError(t, err)
	assert.Equal(t, "deployed\n", result.Stdout)
	assert.Contains(t, stream.String(), "deployed")
	assert.Equal(t, 0, result.ExitCode)
}

func TestRunner_ExitCodeAndStderr(t *testing.T) {
	r := newShellRunner(t)

	result, err := r.Run(context.Background(), "", []string{"-c", "echo broken pipeline >&2; exit 3"}, nil)

	require.Error(t, err)
	assert.Equal(t, 3, result.ExitCode)
	assert.Contains(t, err.Error(), "broken pipeline")
	assert.Contains(t, result.Stderr, "broken pipeline")
}

func TestRunner_Timeout(t *testing.T) {
	r := newShellRunner(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := r.Run(ctx, "", []string{"-c", "sleep 5"}, nil)
	assert.ErrorIs(t, err, ErrCommandTimeout)
}

func TestRunner_RunsInDir(t *testing.T) {
	r := newShellRunner(t)

	dir := t.TempDir()
	result, err := r.Run(context.Background(), dir, []string{"-c", "pwd"}, nil)

	require.NoError(t, err)
	assert.Contains(t, strings.TrimSpace(result.Stdout), filepath.Base(dir))
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		name    string
		command string
		program string
		args    []string
		wantErr bool
	}{
		{name: "run script", command: "npm run build", program: "npm", args: []string{"run", "build"}},
		{name: "single word", command: "yarn", program: "yarn", args: []string{}},
		{name: "extra whitespace", command: "  pnpm   run   build  ", program: "pnpm", args: []string{"run", "build"}},
		{name: "empty", command: "", wantErr: true},
		{name: "blank", command: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, args, err := SplitCommand(tt.command)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.program, program)
			assert.Equal(t, tt.args, args)
		})
	}
}
