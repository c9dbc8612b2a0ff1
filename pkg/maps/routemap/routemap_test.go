// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

package routemap

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/sockmesh/sockmesh/pkg/byteorder"
	"github.com/sockmesh/sockmesh/pkg/types"
)

func TestBackendValueHasWaypoint(t *testing.T) {
	v := BackendValue{}
	require.False(t, v.HasWaypoint())

	// Address without a port is not a usable waypoint, and vice versa.
	v.WaypointAddr = types.IP{10, 0, 0, 1}
	require.False(t, v.HasWaypoint())

	v.WaypointPort = byteorder.HostToNetwork16(15008)
	require.True(t, v.HasWaypoint())

	v.WaypointAddr = types.IP{}
	require.False(t, v.HasWaypoint())
}

func TestBackendValueString(t *testing.T) {
	v := BackendValue{
		Address:      types.IP{10, 0, 0, 5},
		ServiceCount: 2,
		Services:     [MaxPortCount]uint32{7, 9},
	}
	require.Equal(t, "addr=10.0.0.5 waypoint=none services=[7 9]", v.String())

	v.WaypointAddr = types.IP{10, 0, 0, 1}
	v.WaypointPort = byteorder.HostToNetwork16(15008)
	require.Equal(t, "addr=10.0.0.5 waypoint=10.0.0.1:15008 services=[7 9]", v.String())
}

func TestBackendValueStringClampsOverflow(t *testing.T) {
	v := BackendValue{ServiceCount: MaxPortCount + 5}
	// Display must not index past the fixed capacity, whatever the
	// published count claims.
	require.NotPanics(t, func() { _ = v.String() })
}

func TestServiceValueString(t *testing.T) {
	v := ServiceValue{
		EndpointCount: 3,
		ServicePorts:  [MaxPortCount]uint16{byteorder.HostToNetwork16(80)},
		TargetPorts:   [MaxPortCount]uint16{byteorder.HostToNetwork16(8080)},
	}
	require.Equal(t, "endpoints=3 lbPolicy=0 ports=[80->8080]", v.String())
}

func TestOrigDstValueString(t *testing.T) {
	v := OrigDstValue{
		Address: types.IP{10, 96, 0, 1},
		Port:    byteorder.HostToNetwork16(443),
		Family:  unix.AF_INET,
	}
	require.Equal(t, "10.96.0.1:443", v.String())
}
