/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package peercli

import (
	"bufio"
	"context"
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/pkg/errors"
)

// PeerVersion runs `peer version` and parses the reported release.
func PeerVersion(ctx context.Context, r Runner) (*version.Version, error) {
	res := r.Run(ctx, Version{})
	if res.Err != nil {
		return nil, res.Err
	}
	if res.ExitCode != 0 {
		return nil, errors.Errorf("peer version exited with [%d]: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return parseVersion(res.Stdout)
}

// parseVersion extracts the first "Version: x.y.z" line of the peer version output.
func parseVersion(out string) (*version.Version, error) {
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		v, ok := strings.CutPrefix(line, "Version:")
		if !ok {
			continue
		}
		parsed, err := version.NewVersion(strings.TrimSpace(v))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid peer version [%s]", strings.TrimSpace(v))
		}
		return parsed, nil
	}
	return nil, errors.New("no version line in peer version output")
}

// CheckVersion fails when the peer CLI reports a release older than minimum.
// An empty minimum disables the check.
func CheckVersion(ctx context.Context, r Runner, minimum string) error {
	if minimum == "" {
		return nil
	}
	required, err := version.NewVersion(minimum)
	if err != nil {
		return errors.Wrapf(err, "invalid minimum peer version [%s]", minimum)
	}
	current, err := PeerVersion(ctx, r)
	if err != nil {
		return errors.WithMessage(err, "failed reading peer version")
	}
	if current.LessThan(required) {
		return errors.Errorf("peer version [%s] is older than required [%s]", current, required)
	}
	logger.Infof("peer version [%s] satisfies [>= %s]", current, required)
	return nil
}
