package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	PlatformIOCoreDirEnv = "PLATFORMIO_CORE_DIR"
	DefaultPython        = "python3"
)

var (
	ErrToolNotFound     = errors.New("unable to find tool")
	ErrCommandFailure   = errors.New("failed running command")
	ErrEmptyCommandLine = errors.New("command has no executable")
)

// Command is a fully assembled invocation of an external tool.
type Command struct {
	Executable string
	Args       []string
}

// Argv returns the executable followed by its arguments.
func (c *Command) Argv() []string {
	return append([]string{c.Executable}, c.Args...)
}

// String joins the command line with single spaces. Values are substituted
// verbatim, nothing is quoted.
func (c *Command) String() string {
	return strings.Join(c.Argv(), " ")
}

// PackagesDir is where PlatformIO keeps its tool packages.
func PackagesDir() string {
	if core := os.Getenv(PlatformIOCoreDirEnv); core != "" {
		return filepath.Join(core, "packages")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".platformio", "packages")
	}
	return filepath.Join(home, ".platformio", "packages")
}

// Locate returns the first candidate that exists on disk, falling back to a
// PATH lookup of name.
func Locate(name string, candidates ...string) (string, error) {
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w %v: %v", ErrToolNotFound, name, err)
	}
	return path, nil
}

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *logrus.Logger
}

func NewRunner(logger *logrus.Logger) *Runner {
	return &Runner{
		Stdout: os.Stdout,
		Stderr: os.Stdout,
		Logger: logger,
	}
}

// Run starts the command and waits for it. Output is streamed, not captured.
func (r *Runner) Run(ctx context.Context, cmd *Command) error {
	if cmd == nil || cmd.Executable == "" {
		return ErrEmptyCommandLine
	}
	r.Logger.WithFields(logrus.Fields{
		"command": cmd.String(),
	}).Debug("running external tool")
	c := exec.CommandContext(ctx, cmd.Executable, cmd.Args...)
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("%w: %v: %v", ErrCommandFailure, cmd.Executable, err)
	}
	return nil
}
