// Package version works out the dashboard version shown in logs and the UI.
//
// Packaged releases ship a VERSION file at the application root. Developer
// checkouts have no such file, so the version comes from `git describe`.
// When neither is available the version is reported as Unknown.
package version

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Unknown is reported when no version could be determined.
const Unknown = "unknown"

const (
	// FileName is the release-time version marker at the application root.
	FileName = "VERSION"
	// VCSDir marks a git working copy.
	VCSDir = ".git"

	DefaultDescribeTimeout = 5 * time.Second
)

// Source says where a version came from.
type Source string

const (
	SourceFile Source = "file"
	SourceGit  Source = "git"
	SourceNone Source = "none"
)

// Result is the outcome of resolution. It is either known (Source is file
// or git) or unknown, in which case Err holds the cause when there was one.
type Result struct {
	Text   string
	Source Source
	Err    error
}

// Known reports whether a version was found.
func (r Result) Known() bool { return r.Source == SourceFile || r.Source == SourceGit }

// String returns the display value, collapsing unknown results to Unknown.
func (r Result) String() string {
	if !r.Known() {
		return Unknown
	}
	return r.Text
}

func unknown(err error) Result { return Result{Source: SourceNone, Err: err} }

// Logger is the subset of logging.Logger the resolver needs.
type Logger interface {
	Debug(msg string, kv ...any)
}

// Resolver runs the VERSION file -> git describe -> unknown chain.
type Resolver struct {
	Describer Describer
	Timeout   time.Duration
	Logger    Logger
}

// NewResolver returns a resolver that shells out to git.
func NewResolver() *Resolver {
	return &Resolver{Describer: GitDescriber{}, Timeout: DefaultDescribeTimeout}
}

// Resolve determines the version for the application rooted at root. It never
// fails; every error ends up in Result.Err.
func (r *Resolver) Resolve(ctx context.Context, root string) Result {
	res := r.resolve(ctx, root)
	if res.Err != nil && r.Logger != nil {
		r.Logger.Debug("version unresolved", "root", root, "error", res.Err)
	}
	return res
}

func (r *Resolver) resolve(ctx context.Context, root string) Result {
	file := filepath.Join(root, FileName)
	if _, err := os.Stat(file); err == nil {
		b, err := os.ReadFile(file)
		if err != nil {
			return unknown(fmt.Errorf("read %s: %w", FileName, err))
		}
		return Result{Text: strings.TrimSpace(string(b)), Source: SourceFile}
	}

	info, err := os.Stat(filepath.Join(root, VCSDir))
	if err != nil || !info.IsDir() {
		return unknown(nil)
	}

	d := r.Describer
	if d == nil {
		d = GitDescriber{}
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	out, err := d.Describe(ctx, root)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("describe timed out after %s: %w", r.Timeout, err)
		}
		return unknown(err)
	}
	return Result{Text: strings.TrimSpace(out), Source: SourceGit}
}

// Resolve is shorthand for NewResolver().Resolve(...).String().
func Resolve(root string) string {
	return NewResolver().Resolve(context.Background(), root).String()
}
