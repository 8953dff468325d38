/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package node

import (
	"os"

	"github.com/hyperledger-labs/peerweb/node/configcmd"
	"github.com/hyperledger-labs/peerweb/node/start"
	"github.com/hyperledger-labs/peerweb/node/version"
	"github.com/spf13/cobra"
)

type node struct {
	mainCmd  *cobra.Command
	confPath string
}

func New() *node {
	n := &node{}
	mainCmd := &cobra.Command{
		Use:   version.ProgramName,
		Short: "Web front end for the Hyperledger Fabric peer CLI.",
	}

	// Define command-line flags that are valid for all subcommands.
	mainFlags := mainCmd.PersistentFlags()
	mainFlags.StringVar(&n.confPath, "config", "", "directory containing peerweb.yaml")

	mainCmd.AddCommand(version.Cmd())
	mainCmd.AddCommand(start.Cmd(&n.confPath))
	mainCmd.AddCommand(configcmd.Cmd(&n.confPath))
	n.mainCmd = mainCmd

	return n
}

// Command exposes the root command, mainly to tests.
func (n *node) Command() *cobra.Command {
	return n.mainCmd
}

func (n *node) Execute() {
	if n.mainCmd.Execute() != nil {
		os.Exit(1)
	}
}
