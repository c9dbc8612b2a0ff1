// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sockmesh/sockmesh/pkg/command"
	"github.com/sockmesh/sockmesh/pkg/maps/routemap"
)

const (
	serviceIDTitle     = "SERVICE ID"
	serviceRecordTitle = "RECORD"
)

// bpfServiceCmd represents the bpf service command.
var bpfServiceCmd = &cobra.Command{
	Use:   "service",
	Short: "Service records",
}

// bpfServiceListCmd represents the bpf service list command.
var bpfServiceListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List service records",
	Run: func(cmd *cobra.Command, args []string) {
		m, err := routemap.OpenServiceMap()
		if err != nil {
			Fatalf("Unable to open %s: %s", routemap.ServiceMapName, err)
		}

		services := make(map[string][]string)
		if err := m.IterateWithCallback(func(key *routemap.ServiceKey, value *routemap.ServiceValue) {
			services[key.String()] = append(services[key.String()], value.String())
		}); err != nil {
			Fatalf("Unable to dump service map: %s", err)
		}

		if command.OutputOption() {
			if err := command.PrintOutput(services); err != nil {
				Fatalf("Unable to generate %s output: %s", command.OutputOptionString(), err)
			}
			return
		}

		TablePrinter(serviceIDTitle, serviceRecordTitle, services)
	},
}

func init() {
	bpfCmd.AddCommand(bpfServiceCmd)
	bpfServiceCmd.AddCommand(bpfServiceListCmd)
	command.AddOutputOption(bpfServiceListCmd)
}
