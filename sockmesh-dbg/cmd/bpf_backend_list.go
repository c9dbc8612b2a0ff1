// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sockmesh/sockmesh/pkg/command"
	"github.com/sockmesh/sockmesh/pkg/maps/routemap"
)

const (
	backendIDTitle     = "BACKEND ID"
	backendRecordTitle = "RECORD"
)

// bpfBackendCmd represents the bpf backend command.
var bpfBackendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Backend records",
}

// bpfBackendListCmd represents the bpf backend list command.
var bpfBackendListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List backend records",
	Run: func(cmd *cobra.Command, args []string) {
		m, err := routemap.OpenBackendMap()
		if err != nil {
			Fatalf("Unable to open %s: %s", routemap.BackendMapName, err)
		}

		backends := make(map[string][]string)
		if err := m.IterateWithCallback(func(key *routemap.BackendKey, value *routemap.BackendValue) {
			backends[key.String()] = append(backends[key.String()], value.String())
		}); err != nil {
			Fatalf("Unable to dump backend map: %s", err)
		}

		if command.OutputOption() {
			if err := command.PrintOutput(backends); err != nil {
				Fatalf("Unable to generate %s output: %s", command.OutputOptionString(), err)
			}
			return
		}

		TablePrinter(backendIDTitle, backendRecordTitle, backends)
	},
}

func init() {
	bpfCmd.AddCommand(bpfBackendCmd)
	bpfBackendCmd.AddCommand(bpfBackendListCmd)
	command.AddOutputOption(bpfBackendListCmd)
}
