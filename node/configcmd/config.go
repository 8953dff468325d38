/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package configcmd

import (
	"github.com/hyperledger-labs/peerweb/platform/view/services/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Cmd returns the command printing the effective configuration: file, defaults and
// environment overrides merged.
func Cmd(confPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration.",
		Long:  `Print the effective configuration as YAML, after defaults and PEERWEB_ environment overrides are applied.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cp, err := config.NewProvider(*confPath)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cp.AllSettings()); err != nil {
				return errors.Wrap(err, "failed encoding configuration")
			}
			return enc.Close()
		},
	}
}
