package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// LogFile receives the toolchain output inside the work directory.
const LogFile = "sourcemeter.log"

var ErrToolchainFailed = errors.New("SourceMeter toolchain could not be executed properly")

// ExecFunc runs cmd in dir and returns its combined output.
type ExecFunc func(ctx context.Context, dir string, cmd []string) ([]byte, error)

func execCommand(ctx context.Context, dir string, cmd []string) ([]byte, error) {
	c := exec.CommandContext(ctx, cmd[0], cmd[1:]...)
	c.Dir = dir
	return c.CombinedOutput()
}

// Runner spawns the toolchain and keeps its log.
type Runner struct {
	fs   afero.Fs
	log  *zap.Logger
	exec ExecFunc
}

func NewRunner(fs afero.Fs, log *zap.Logger) *Runner {
	return &Runner{fs: fs, log: log, exec: execCommand}
}

// WithExec replaces the process spawner.
func (r *Runner) WithExec(fn ExecFunc) *Runner {
	r.exec = fn
	return r
}

// Run executes cmd in dir and writes its output to <workDir>/sourcemeter.log.
func (r *Runner) Run(ctx context.Context, cmd []string, dir, workDir string) error {
	if len(cmd) == 0 {
		return fmt.Errorf("empty toolchain command")
	}
	r.log.Debug("Calling SourceMeter toolchain", zap.String("command", strings.Join(cmd, " ")))

	start := time.Now()
	out, runErr := r.exec(ctx, dir, cmd)

	logPath := filepath.Join(workDir, LogFile)
	if err := r.fs.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("failed to create work directory %s: %w", workDir, err)
	}
	if err := afero.WriteFile(r.fs, logPath, out, 0o644); err != nil {
		return fmt.Errorf("SourceMeter log file could not be created: %s: %w", logPath, err)
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			r.log.Error("SourceMeter toolchain failed", zap.String("log", logPath), zap.Int("exit_code", exitErr.ExitCode()))
			return fmt.Errorf("%w. Please check the log file for more information: %s", ErrToolchainFailed, logPath)
		}
		return fmt.Errorf("failed to run SourceMeter toolchain: %w", runErr)
	}

	r.log.Info("Running SourceMeter toolchain done", zap.Duration("elapsed", time.Since(start)))
	return nil
}
