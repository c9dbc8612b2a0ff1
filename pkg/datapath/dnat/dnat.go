// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

// Package dnat implements the connect-time destination selection of the
// sockmesh datapath: given a backend record and the service the client
// addressed, it decides whether the connection is redirected through a
// waypoint proxy, rewritten to point directly at the backend, or reported
// as unroutable.
package dnat

import (
	"errors"
	"fmt"

	"github.com/sockmesh/sockmesh/pkg/byteorder"
	"github.com/sockmesh/sockmesh/pkg/logging"
	"github.com/sockmesh/sockmesh/pkg/logging/logfields"
	"github.com/sockmesh/sockmesh/pkg/types"
)

var log = logging.DefaultLogger.WithField(logfields.LogSubsys, "dnat")

var (
	// ErrNoRoute is returned when the bounded scan over the backend's
	// service memberships and the service's port table finds no match for
	// the requested service and port.
	ErrNoRoute = errors.New("no service and port match for backend")

	// ErrInvalidConfiguration is returned when a backend record claims
	// more service memberships than the fixed capacity allows. This is a
	// data-integrity violation, not a routing miss.
	ErrInvalidConfiguration = errors.New("backend service membership count exceeds capacity")

	// ErrOrigDstStore marks a failure to durably record the original
	// destination of a connection. It is fatal for the connection attempt:
	// without the record the pre-rewrite destination cannot be recovered
	// downstream.
	ErrOrigDstStore = errors.New("recording original destination failed")
)

// Decision is the per-connection rewrite decision record. Each connection
// attempt owns exactly one Decision; nothing else mutates it while a
// selection is in flight.
type Decision struct {
	// Cookie identifies the connection attempt and keys the original
	// destination record.
	Cookie uint64

	// Family is the address family of the original destination
	// (unix.AF_INET or unix.AF_INET6).
	Family uint16

	// OriginalAddr and RequestedPort are the destination as seen by the
	// client, before any rewrite. Port in network byte order.
	OriginalAddr  types.IP
	RequestedPort uint16

	// RewriteAddr and RewritePort are the resolved DNAT target. Both are
	// unset until a selection writes them, and then consistent with
	// ViaWaypoint.
	RewriteAddr types.IP
	RewritePort uint16

	// ViaWaypoint is true iff the current rewrite target is a waypoint
	// proxy rather than the backend itself.
	ViaWaypoint bool
}

// Resolved reports whether a rewrite target has been written.
func (d *Decision) Resolved() bool {
	return !d.RewriteAddr.IsZero() || d.RewritePort != 0
}

func (d *Decision) String() string {
	if !d.Resolved() {
		return fmt.Sprintf("%s:%d -> (unresolved)",
			d.OriginalAddr.Addr(d.Family), byteorder.NetworkToHost16(d.RequestedPort))
	}
	via := "direct"
	if d.ViaWaypoint {
		via = "waypoint"
	}
	return fmt.Sprintf("%s:%d -> %s:%d (%s)",
		d.OriginalAddr.Addr(d.Family), byteorder.NetworkToHost16(d.RequestedPort),
		d.RewriteAddr.Addr(d.Family), byteorder.NetworkToHost16(d.RewritePort), via)
}
