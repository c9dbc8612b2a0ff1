// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sockmesh/sockmesh/pkg/command"
	"github.com/sockmesh/sockmesh/pkg/maps/routemap"
)

const (
	origDstCookieTitle = "SOCKET COOKIE"
	origDstRecordTitle = "ORIGINAL DESTINATION"
)

// bpfOrigDstCmd represents the bpf origdst command.
var bpfOrigDstCmd = &cobra.Command{
	Use:   "origdst",
	Short: "Original destination records",
}

// bpfOrigDstListCmd represents the bpf origdst list command.
var bpfOrigDstListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List original destination records",
	Run: func(cmd *cobra.Command, args []string) {
		m, err := routemap.OpenOrigDstMap()
		if err != nil {
			Fatalf("Unable to open %s: %s", routemap.OrigDstMapName, err)
		}

		records := make(map[string][]string)
		if err := m.IterateWithCallback(func(key *routemap.OrigDstKey, value *routemap.OrigDstValue) {
			records[key.String()] = append(records[key.String()], value.String())
		}); err != nil {
			Fatalf("Unable to dump original destination map: %s", err)
		}

		if command.OutputOption() {
			if err := command.PrintOutput(records); err != nil {
				Fatalf("Unable to generate %s output: %s", command.OutputOptionString(), err)
			}
			return
		}

		TablePrinter(origDstCookieTitle, origDstRecordTitle, records)
	},
}

func init() {
	bpfCmd.AddCommand(bpfOrigDstCmd)
	bpfOrigDstCmd.AddCommand(bpfOrigDstListCmd)
	command.AddOutputOption(bpfOrigDstListCmd)
}
