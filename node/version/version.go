/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

const ProgramName = "peerweb"

// Version and CommitSHA are set at build time with -ldflags "-X".
var (
	Version   = "latest"
	CommitSHA = "development build"
)

// Cmd returns the cobra command for Version
func Cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print peerweb version.",
		Long:  `Print current version of peerweb.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			_, err := fmt.Fprint(cmd.OutOrStdout(), GetInfo())
			return err
		},
	}
}

// GetInfo returns version information for the peerweb binary.
func GetInfo() string {
	return fmt.Sprintf("%s:\n Version: %s\n Commit SHA: %s\n Go version: %s\n OS/Arch: %s\n",
		ProgramName, Version, CommitSHA, runtime.Version(),
		fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH))
}
