// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

package option

import "github.com/spf13/pflag"

const (
	// BPFMapRootDefault is the bpffs directory sockmesh maps are pinned
	// under.
	BPFMapRootDefault = "/sys/fs/bpf/sockmesh"

	// BackendMapEntriesDefault is the default maximum number of backend
	// records.
	BackendMapEntriesDefault = 1 << 17

	// ServiceMapEntriesDefault is the default maximum number of service
	// records.
	ServiceMapEntriesDefault = 1 << 15

	// FrontendMapEntriesDefault is the default maximum number of frontend
	// addresses.
	FrontendMapEntriesDefault = 1 << 17

	// OrigDstMapEntriesDefault is the default maximum number of in-flight
	// connections with a recorded original destination.
	OrigDstMapEntriesDefault = 1 << 18
)

// DaemonConfig carries the runtime configuration shared across packages.
type DaemonConfig struct {
	// BPFMapRoot is the bpffs directory the datapath maps are pinned under.
	BPFMapRoot string

	// BackendMapEntries is the maximum number of entries in the backend map.
	BackendMapEntries int

	// ServiceMapEntries is the maximum number of entries in the service map.
	ServiceMapEntries int

	// FrontendMapEntries is the maximum number of entries in the frontend
	// map.
	FrontendMapEntries int

	// OrigDstMapEntries is the maximum number of entries in the original
	// destination map.
	OrigDstMapEntries int

	// Debug enables debug messages.
	Debug bool
}

// Config is the global configuration, populated with defaults and
// overridden by flags.
var Config = &DaemonConfig{
	BPFMapRoot:         BPFMapRootDefault,
	BackendMapEntries:  BackendMapEntriesDefault,
	ServiceMapEntries:  ServiceMapEntriesDefault,
	FrontendMapEntries: FrontendMapEntriesDefault,
	OrigDstMapEntries:  OrigDstMapEntriesDefault,
}

// Flags registers the configuration options on the given flag set.
func (c *DaemonConfig) Flags(flags *pflag.FlagSet) {
	flags.StringVar(&c.BPFMapRoot, "bpf-root", c.BPFMapRoot, "Path to the bpffs directory holding the sockmesh maps")
	flags.IntVar(&c.BackendMapEntries, "bpf-backend-map-max", c.BackendMapEntries, "Maximum number of entries in the backend map")
	flags.IntVar(&c.ServiceMapEntries, "bpf-service-map-max", c.ServiceMapEntries, "Maximum number of entries in the service map")
	flags.IntVar(&c.FrontendMapEntries, "bpf-frontend-map-max", c.FrontendMapEntries, "Maximum number of entries in the frontend map")
	flags.IntVar(&c.OrigDstMapEntries, "bpf-origdst-map-max", c.OrigDstMapEntries, "Maximum number of entries in the original destination map")
	flags.BoolVarP(&c.Debug, "debug", "D", false, "Enable debug messages")
}
