// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

package cmd

import (
	"github.com/spf13/cobra"
)

// bpfCmd represents the bpf command.
var bpfCmd = &cobra.Command{
	Use:   "bpf",
	Short: "Direct access to the sockmesh datapath maps",
}

func init() {
	rootCmd.AddCommand(bpfCmd)
}
