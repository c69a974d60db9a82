package depclean

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Commander runs one external command inside dir.
type Commander interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExecCommander runs commands with os/exec, streaming their output.
type ExecCommander struct{}

func (ExecCommander) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Package is one removal candidate.
type Package struct {
	Name string
	Dev  bool
}

// Candidates flattens a report, dependencies first.
func Candidates(r *Report) []Package {
	out := make([]Package, 0, len(r.Dependencies)+len(r.DevDependencies))
	for _, n := range r.Dependencies {
		out = append(out, Package{Name: n})
	}
	for _, n := range r.DevDependencies {
		out = append(out, Package{Name: n, Dev: true})
	}
	return out
}

type CleanOptions struct {
	Dir string
	// Reinstall removes node_modules and package-lock.json, then runs npm install.
	Reinstall bool
	DryRun    bool
	Log       *zap.Logger
}

// Step is one planned or executed action.
type Step struct {
	Command string
	Err     error
}

// Clean uninstalls pkgs one by one. A failed uninstall is logged and does
// not stop the run. In dry-run mode nothing is executed or removed and the
// returned steps are the plan.
func Clean(ctx context.Context, c Commander, pkgs []Package, opts CleanOptions) ([]Step, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	var steps []Step
	run := func(name string, args ...string) error {
		st := Step{Command: strings.Join(append([]string{name}, args...), " ")}
		if !opts.DryRun {
			st.Err = c.Run(ctx, opts.Dir, name, args...)
		}
		steps = append(steps, st)
		return st.Err
	}

	for _, p := range pkgs {
		args := []string{"uninstall"}
		if p.Dev {
			args = append(args, "--save-dev")
		}
		args = append(args, p.Name)
		log.Info("uninstall", zap.String("package", p.Name), zap.Bool("dev", p.Dev), zap.Bool("dry_run", opts.DryRun))
		if err := run("npm", args...); err != nil {
			if ctx.Err() != nil {
				return steps, ctx.Err()
			}
			log.Warn("uninstall failed", zap.String("package", p.Name), zap.Error(err))
		}
	}

	if !opts.Reinstall {
		return steps, nil
	}
	for _, target := range []string{"node_modules", "package-lock.json"} {
		steps = append(steps, Step{Command: "rm -rf " + target})
		if opts.DryRun {
			continue
		}
		if err := os.RemoveAll(filepath.Join(opts.Dir, target)); err != nil {
			log.Warn("remove failed", zap.String("path", target), zap.Error(err))
			steps[len(steps)-1].Err = err
		}
	}
	if err := run("npm", "install"); err != nil {
		log.Warn("npm install failed", zap.Error(err))
		return steps, fmt.Errorf("npm install: %w", err)
	}
	return steps, nil
}
