// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sockmesh/sockmesh/pkg/command"
	"github.com/sockmesh/sockmesh/pkg/maps/routemap"
)

const (
	frontendAddrTitle   = "FRONTEND ADDRESS"
	frontendRecordTitle = "UPSTREAM"
)

// bpfFrontendCmd represents the bpf frontend command.
var bpfFrontendCmd = &cobra.Command{
	Use:   "frontend",
	Short: "Frontend records",
}

// bpfFrontendListCmd represents the bpf frontend list command.
var bpfFrontendListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List frontend records",
	Run: func(cmd *cobra.Command, args []string) {
		m, err := routemap.OpenFrontendMap()
		if err != nil {
			Fatalf("Unable to open %s: %s", routemap.FrontendMapName, err)
		}

		frontends := make(map[string][]string)
		if err := m.IterateWithCallback(func(key *routemap.FrontendKey, value *routemap.FrontendValue) {
			frontends[key.String()] = append(frontends[key.String()], value.String())
		}); err != nil {
			Fatalf("Unable to dump frontend map: %s", err)
		}

		if command.OutputOption() {
			if err := command.PrintOutput(frontends); err != nil {
				Fatalf("Unable to generate %s output: %s", command.OutputOptionString(), err)
			}
			return
		}

		TablePrinter(frontendAddrTitle, frontendRecordTitle, frontends)
	},
}

func init() {
	bpfCmd.AddCommand(bpfFrontendCmd)
	bpfFrontendCmd.AddCommand(bpfFrontendListCmd)
	command.AddOutputOption(bpfFrontendListCmd)
}
