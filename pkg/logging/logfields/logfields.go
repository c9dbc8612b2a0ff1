// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

// Package logfields defines common logging fields which are used across
// packages.
package logfields

const (
	// LogSubsys is the field denoting the subsystem when logging.
	LogSubsys = "subsys"

	// BackendID is the identifier of a backend record.
	BackendID = "backendID"

	// ServiceID is the identifier of a service.
	ServiceID = "serviceID"

	// UpstreamID is the upstream identifier a frontend address maps to.
	UpstreamID = "upstreamID"

	// Port is a L4 port number in host byte order.
	Port = "port"

	// TargetPort is the backend-side port a connection is rewritten to.
	TargetPort = "targetPort"

	// Waypoint is a waypoint proxy endpoint.
	Waypoint = "waypoint"

	// Cookie is the socket cookie identifying a connection attempt.
	Cookie = "cookie"

	// Count is a generic element count.
	Count = "count"

	// IPAddr is an IP address.
	IPAddr = "ipAddr"

	// Family is an address family.
	Family = "family"

	// MapName is the name of a datapath map.
	MapName = "mapName"

	// Path is a filesystem path.
	Path = "path"
)
