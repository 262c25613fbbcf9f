// Package render runs the external tools that turn a configured docs directory
// into a site: quartodoc to generate reference pages and quarto to render or
// preview them.
package render

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/rich-iannone/great-docs/internal/foundation/errors"
	"github.com/rich-iannone/great-docs/internal/logfields"
)

// ErrBinaryNotFound is the cause of a RenderError for a tool missing from PATH.
var ErrBinaryNotFound = stderrors.New("binary not found on PATH")

// Renderer runs one external command inside dir.
type Renderer interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// BinaryRenderer executes commands found on PATH. When Stdout or Stderr are set
// the tool's output is streamed there as well as captured for error messages.
type BinaryRenderer struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (b *BinaryRenderer) Run(ctx context.Context, dir, name string, args ...string) error {
	command := strings.Join(append([]string{name}, args...), " ")
	if _, err := exec.LookPath(name); err != nil {
		return errors.RenderError("required tool is not installed").
			WithCause(stderrors.Join(ErrBinaryNotFound, err)).
			WithContext("binary", name).
			Build()
	}
	if _, err := os.Stat(dir); err != nil {
		return errors.FileSystemError("working directory not found").
			WithCause(err).WithContext("dir", dir).Build()
	}

	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- fixed tool names with internal arguments
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = tee(&stdout, b.Stdout)
	cmd.Stderr = tee(&stderr, b.Stderr)
	slog.Debug("Running tool", logfields.Command(command), "dir", dir)

	err := cmd.Run()
	if out := stdout.String(); out != "" && b.Stdout == nil {
		slog.Debug("tool stdout", logfields.Command(command), "output", out)
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		output := strings.TrimSpace(stderr.String())
		if output == "" {
			output = strings.TrimSpace(stdout.String())
		}
		eb := errors.RenderError("command failed").
			WithCause(err).
			WithContext("command", command).
			WithContext("dir", dir)
		if output != "" {
			eb = eb.WithContext("output", output)
		}
		return eb.Build()
	}
	return nil
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

// Invocation is one recorded NoopRenderer call.
type Invocation struct {
	Dir  string
	Name string
	Args []string
}

// NoopRenderer runs nothing and records what it was asked to run.
type NoopRenderer struct {
	mu          sync.Mutex
	invocations []Invocation
}

func (n *NoopRenderer) Run(_ context.Context, dir, name string, args ...string) error {
	slog.Debug("NoopRenderer skipping command", logfields.Command(name), "dir", dir)
	n.mu.Lock()
	defer n.mu.Unlock()
	n.invocations = append(n.invocations, Invocation{Dir: dir, Name: name, Args: append([]string(nil), args...)})
	return nil
}

// Invocations returns the recorded calls in order.
func (n *NoopRenderer) Invocations() []Invocation {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Invocation(nil), n.invocations...)
}
