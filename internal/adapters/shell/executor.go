// Package shell provides the shell executor adapter.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/creack/pty"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor using os/exec and pty.
type Executor struct {
	logger ports.Logger
	usePTY bool
}

// NewExecutor creates a new Executor. Commands run under a pseudo-terminal when the
// platform provides one, so compilers keep their colored diagnostics.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
		usePTY: ptyAvailable(),
	}
}

func ptyAvailable() bool {
	ptmx, tty, err := pty.Open()
	if err != nil {
		return false
	}
	_ = tty.Close()
	_ = ptmx.Close()
	return true
}

// Execute runs the group's command once per target, from root, in target order.
// The directory of every output is created before its command runs.
func (e *Executor) Execute(ctx context.Context, root string, group *domain.Group, stdout, stderr io.Writer) error {
	for _, target := range group.Targets {
		if err := ctx.Err(); err != nil {
			return err
		}

		dir := filepath.Dir(target.Output)
		if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrOutputDirCreateFailed.Error()), "path", dir)
		}

		command := group.Config.Command(target)
		if len(command) == 0 {
			continue
		}

		e.logger.Debug(strings.Join(command, " "))
		if err := e.run(ctx, root, command, stdout, stderr); err != nil {
			return zerr.With(err, "target", domain.RelativePath(root, target.Output))
		}
	}
	return nil
}

func (e *Executor) run(ctx context.Context, dir string, command []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, command[0], command[1:]...) //nolint:gosec // user provided command
	cmd.Dir = dir

	var err error
	if e.usePTY {
		err = runPTY(cmd, stdout)
	} else {
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		err = cmd.Run()
	}
	if err == nil {
		return nil
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	return zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode)
}

// runPTY starts cmd on a pseudo-terminal and copies its merged output to out until it exits.
func runPTY(cmd *exec.Cmd, out io.Writer) error {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return err
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		defer func() { _ = ptmx.Close() }()
		_, _ = io.Copy(out, ptmx)
	}()

	err = cmd.Wait()
	<-ioDone
	return err
}
