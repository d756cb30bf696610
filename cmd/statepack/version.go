// Part of the statepack CLI - this file implements the 'statepack version'
// command.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/statekit/statepack"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the statepack version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(statepack.Version())
	},
}
