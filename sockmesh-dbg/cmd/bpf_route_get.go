// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/sockmesh/sockmesh/pkg/byteorder"
	"github.com/sockmesh/sockmesh/pkg/command"
	"github.com/sockmesh/sockmesh/pkg/datapath/dnat"
	"github.com/sockmesh/sockmesh/pkg/ebpf"
	"github.com/sockmesh/sockmesh/pkg/maps/routemap"
	"github.com/sockmesh/sockmesh/pkg/types"
)

var routeGetVIP string

// scratchOrigDst satisfies routemap.OrigDstMap without touching the pinned
// map, so a dry-run selection never leaves records behind.
type scratchOrigDst struct {
	entries map[routemap.OrigDstKey]routemap.OrigDstValue
}

func newScratchOrigDst() *scratchOrigDst {
	return &scratchOrigDst{entries: map[routemap.OrigDstKey]routemap.OrigDstValue{}}
}

func (s *scratchOrigDst) Record(key *routemap.OrigDstKey, value *routemap.OrigDstValue) error {
	if _, ok := s.entries[*key]; ok {
		return ebpf.ErrKeyExist
	}
	s.entries[*key] = *value
	return nil
}

func (s *scratchOrigDst) Lookup(key *routemap.OrigDstKey) (*routemap.OrigDstValue, error) {
	value, ok := s.entries[*key]
	if !ok {
		return nil, ebpf.ErrKeyNotExist
	}
	return &value, nil
}

func (s *scratchOrigDst) Delete(key *routemap.OrigDstKey) error {
	delete(s.entries, *key)
	return nil
}

func (s *scratchOrigDst) IterateWithCallback(cb routemap.OrigDstIterateCallback) error {
	for key, value := range s.entries {
		key, value := key, value
		cb(&key, &value)
	}
	return nil
}

// bpfRouteCmd represents the bpf route command.
var bpfRouteCmd = &cobra.Command{
	Use:   "route",
	Short: "Destination selection",
}

// bpfRouteGetCmd represents the bpf route get command.
var bpfRouteGetCmd = &cobra.Command{
	Use:   "get <backend id> <service id> <port>",
	Short: "Resolve the rewrite target for a backend, service and port (dry run)",
	Long: `Runs the destination selection against the pinned backend and service
maps without recording anything: the original destination store the
selection writes to is an in-memory scratch copy.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 3 {
			Usagef(cmd, "Expected <backend id> <service id> <port>")
		}

		backendID, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			Usagef(cmd, "Invalid backend id %q: %s", args[0], err)
		}
		serviceID, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			Usagef(cmd, "Invalid service id %q: %s", args[1], err)
		}
		port, err := strconv.ParseUint(args[2], 10, 16)
		if err != nil {
			Usagef(cmd, "Invalid port %q: %s", args[2], err)
		}

		decision := &dnat.Decision{
			Cookie:        1,
			Family:        unix.AF_INET,
			RequestedPort: byteorder.HostToNetwork16(uint16(port)),
		}
		if routeGetVIP != "" {
			ip, family, err := types.ParseIP(routeGetVIP)
			if err != nil {
				Usagef(cmd, "Invalid address %q: %s", routeGetVIP, err)
			}
			decision.OriginalAddr = ip
			decision.Family = family
		}

		backends, err := routemap.OpenBackendMap()
		if err != nil {
			Fatalf("Unable to open %s: %s", routemap.BackendMapName, err)
		}

		if routeGetVIP != "" {
			frontends, err := routemap.OpenFrontendMap()
			if err != nil {
				Fatalf("Unable to open %s: %s", routemap.FrontendMapName, err)
			}
			upstream, ok := dnat.ResolveFrontend(frontends, decision.OriginalAddr)
			switch {
			case !ok:
				fmt.Fprintf(os.Stderr, "Warning: %s has no frontend record\n", routeGetVIP)
			case upstream != uint32(serviceID):
				fmt.Fprintf(os.Stderr, "Warning: %s resolves to upstream %d, not service %d\n",
					routeGetVIP, upstream, serviceID)
			}
		}
		services, err := routemap.OpenServiceMap()
		if err != nil {
			Fatalf("Unable to open %s: %s", routemap.ServiceMapName, err)
		}

		backend, ok := dnat.LookupBackend(backends, &routemap.BackendKey{BackendID: uint32(backendID)})
		if !ok {
			Fatalf("Backend %d not found", backendID)
		}
		service, err := services.Lookup(&routemap.ServiceKey{ServiceID: uint32(serviceID)})
		if err != nil {
			Fatalf("Unable to look up service %d: %s", serviceID, err)
		}

		selector := dnat.NewSelector(newScratchOrigDst())
		selectErr := selector.SelectBackend(decision, backend, uint32(serviceID), service)

		status := "direct"
		switch {
		case selectErr == nil:
		case errors.Is(selectErr, dnat.ErrNoRoute) && decision.ViaWaypoint:
			status = "no route (waypoint target set)"
		case errors.Is(selectErr, dnat.ErrNoRoute):
			status = "no route"
		default:
			Fatalf("Selection failed: %s", selectErr)
		}

		if command.OutputOption() {
			out := map[string]string{
				"status":   status,
				"decision": decision.String(),
			}
			if err := command.PrintOutput(out); err != nil {
				Fatalf("Unable to generate %s output: %s", command.OutputOptionString(), err)
			}
			return
		}

		fmt.Printf("%s\t%s\n", status, decision)
	},
}

func init() {
	bpfCmd.AddCommand(bpfRouteCmd)
	bpfRouteCmd.AddCommand(bpfRouteGetCmd)
	bpfRouteGetCmd.Flags().StringVar(&routeGetVIP, "vip", "", "Original destination address the client connected to")
	command.AddOutputOption(bpfRouteGetCmd)
}
