/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package peercli

import (
	"time"
)

// Result holds the outcome of a single peer CLI run.
type Result struct {
	RunID     string
	Session   string
	Command   string
	Args      []string
	ExitCode  int // -1 when the process did not exit on its own
	Stdout    string
	Stderr    string
	Err       error // launch failure, timeout or cancellation
	StartedAt time.Time
	Duration  time.Duration
}

// Succeeded reports whether the process was launched and exited with status zero.
func (r *Result) Succeeded() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Status is "success", "failure" (non-zero exit) or "error" (the process did not complete).
func (r *Result) Status() string {
	switch {
	case r.Err != nil:
		return "error"
	case r.ExitCode != 0:
		return "failure"
	default:
		return "success"
	}
}
