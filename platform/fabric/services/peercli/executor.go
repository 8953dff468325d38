/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package peercli

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hyperledger-labs/peerweb/platform/common/services/logging"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
)

var logger = logging.MustGetLogger("peerweb.peercli")

// waitDelay bounds how long Run waits for output pipes after the context is done.
const waitDelay = 2 * time.Second

// Runner runs peer CLI commands.
type Runner interface {
	Run(ctx context.Context, c Command) *Result
}

type Config struct {
	// Binary is the peer executable, looked up in PATH when not a path.
	Binary string
	// WorkingDir is the directory the process runs in. Empty means the current one.
	WorkingDir string
	// Env holds KEY=VALUE entries appended to the environment of this process.
	Env []string
	// Timeout bounds a single run. Zero means no timeout.
	Timeout time.Duration
}

// Executor runs commands as child processes of the peer binary.
type Executor struct {
	config Config
}

func NewExecutor(c Config) *Executor {
	if c.Binary == "" {
		c.Binary = "peer"
	}
	return &Executor{config: c}
}

// Run blocks until the process exits and returns its outcome. It never returns nil.
func (e *Executor) Run(ctx context.Context, c Command) *Result {
	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	args := c.Args()
	res := &Result{
		RunID:    uuid.NewString(),
		Session:  c.SessionName(),
		Command:  e.config.Binary,
		Args:     args,
		ExitCode: -1,
	}

	cmd := exec.CommandContext(ctx, e.config.Binary, args...)
	cmd.Dir = e.config.WorkingDir
	cmd.WaitDelay = waitDelay
	if len(e.config.Env) != 0 {
		cmd.Env = append(os.Environ(), e.config.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if logger.IsEnabledFor(zapcore.DebugLevel) {
		logger.Debugf("[%s] running [%s %s]", res.RunID, e.config.Binary, strings.Join(args, " "))
	}
	res.StartedAt = time.Now()
	err := cmd.Run()
	res.Duration = time.Since(res.StartedAt)
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case ctx.Err() != nil:
		res.Err = errors.Wrapf(ctx.Err(), "[%s] did not complete", res.Session)
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		if res.ExitCode == -1 {
			res.Err = errors.Wrapf(err, "[%s] terminated", res.Session)
		}
	default:
		res.Err = errors.Wrapf(err, "failed launching [%s]", e.config.Binary)
	}

	logger.Debugf("[%s] %s exited with [%d] after [%s]", res.RunID, res.Session, res.ExitCode, res.Duration)
	return res
}
