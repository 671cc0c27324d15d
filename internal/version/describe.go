package version

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Describer labels the checkout at dir, e.g. "v1.4.0" or "v1.4.0-12-gdeadbee".
type Describer interface {
	Describe(ctx context.Context, dir string) (string, error)
}

// GitDescriber runs `git describe` in the working copy.
type GitDescriber struct {
	// Binary defaults to "git".
	Binary string
	// Args are appended after "describe", e.g. "--tags" or "--always".
	Args []string
}

// CmdError is returned when the describe command exits unsuccessfully.
type CmdError struct {
	Args   string
	Stderr string
	Cause  error
}

func (e *CmdError) Error() string {
	msg := fmt.Sprintf("`%s` failed: %v", e.Args, e.Cause)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CmdError) Unwrap() error { return e.Cause }

func (g GitDescriber) Describe(ctx context.Context, dir string) (string, error) {
	bin := g.Binary
	if bin == "" {
		bin = "git"
	}
	args := append([]string{"describe"}, g.Args...)
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", &CmdError{
			Args:   strings.Join(append([]string{bin}, args...), " "),
			Stderr: strings.TrimSpace(stderr.String()),
			Cause:  err,
		}
	}
	return stdout.String(), nil
}

// DescriberFunc adapts a function to Describer.
type DescriberFunc func(ctx context.Context, dir string) (string, error)

func (f DescriberFunc) Describe(ctx context.Context, dir string) (string, error) { return f(ctx, dir) }
