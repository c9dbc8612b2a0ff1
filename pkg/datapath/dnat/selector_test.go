// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

package dnat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/sockmesh/sockmesh/pkg/byteorder"
	"github.com/sockmesh/sockmesh/pkg/maps/routemap"
	"github.com/sockmesh/sockmesh/pkg/testutils/mockmaps"
	"github.com/sockmesh/sockmesh/pkg/types"
)

const (
	testCookie    = uint64(1234)
	testServiceID = uint32(7)
)

var (
	backendAddr  = types.IP{10, 0, 0, 5}
	waypointAddr = types.IP{10, 0, 0, 1}
	virtualAddr  = types.IP{10, 96, 0, 1}
)

func newTestDecision(port uint16) *Decision {
	return &Decision{
		Cookie:        testCookie,
		Family:        unix.AF_INET,
		OriginalAddr:  virtualAddr,
		RequestedPort: byteorder.HostToNetwork16(port),
	}
}

func newTestService(port, targetPort uint16) *routemap.ServiceValue {
	return &routemap.ServiceValue{
		ServicePorts: [routemap.MaxPortCount]uint16{byteorder.HostToNetwork16(port)},
		TargetPorts:  [routemap.MaxPortCount]uint16{byteorder.HostToNetwork16(targetPort)},
	}
}

func newTestBackend(withWaypoint bool) *routemap.BackendValue {
	backend := &routemap.BackendValue{
		Address:      backendAddr,
		ServiceCount: 1,
		Services:     [routemap.MaxPortCount]uint32{testServiceID},
	}
	if withWaypoint {
		backend.WaypointAddr = waypointAddr
		backend.WaypointPort = byteorder.HostToNetwork16(15008)
	}
	return backend
}

func TestSelectBackendDirectRoute(t *testing.T) {
	origDst := mockmaps.NewOrigDstMockMap()
	s := NewSelector(origDst)

	d := newTestDecision(80)
	err := s.SelectBackend(d, newTestBackend(false), testServiceID, newTestService(80, 8080))
	require.NoError(t, err)

	require.False(t, d.ViaWaypoint)
	require.Equal(t, backendAddr, d.RewriteAddr)
	require.Equal(t, byteorder.HostToNetwork16(8080), d.RewritePort)

	// No waypoint, so nothing was recorded.
	_, err = origDst.Lookup(&routemap.OrigDstKey{Cookie: testCookie})
	require.Error(t, err)
}

func TestSelectBackendWaypointPrecedence(t *testing.T) {
	origDst := mockmaps.NewOrigDstMockMap()
	s := NewSelector(origDst)

	d := newTestDecision(80)
	err := s.SelectBackend(d, newTestBackend(true), testServiceID, newTestService(80, 8080))
	require.NoError(t, err)

	// The direct backend route overrides the tentative waypoint target.
	require.False(t, d.ViaWaypoint)
	require.Equal(t, backendAddr, d.RewriteAddr)
	require.Equal(t, byteorder.HostToNetwork16(8080), d.RewritePort)

	// The original destination was still recorded by the waypoint attempt.
	value, err := origDst.Lookup(&routemap.OrigDstKey{Cookie: testCookie})
	require.NoError(t, err)
	require.Equal(t, virtualAddr, value.Address)
	require.Equal(t, byteorder.HostToNetwork16(80), value.Port)
	require.Equal(t, uint16(unix.AF_INET), value.Family)
}

func TestSelectBackendNoRouteKeepsWaypoint(t *testing.T) {
	origDst := mockmaps.NewOrigDstMockMap()
	s := NewSelector(origDst)

	// Requested port 443 is not in the service's port table.
	d := newTestDecision(443)
	err := s.SelectBackend(d, newTestBackend(true), testServiceID, newTestService(80, 8080))
	require.ErrorIs(t, err, ErrNoRoute)

	// The decision still carries the tentative waypoint route.
	require.True(t, d.ViaWaypoint)
	require.Equal(t, waypointAddr, d.RewriteAddr)
	require.Equal(t, byteorder.HostToNetwork16(15008), d.RewritePort)
}

func TestSelectBackendNoRouteWithoutWaypoint(t *testing.T) {
	s := NewSelector(mockmaps.NewOrigDstMockMap())

	d := newTestDecision(443)
	err := s.SelectBackend(d, newTestBackend(false), testServiceID, newTestService(80, 8080))
	require.ErrorIs(t, err, ErrNoRoute)
	require.False(t, d.Resolved())
}

func TestSelectBackendUnknownService(t *testing.T) {
	s := NewSelector(mockmaps.NewOrigDstMockMap())

	d := newTestDecision(80)
	err := s.SelectBackend(d, newTestBackend(false), testServiceID+1, newTestService(80, 8080))
	require.ErrorIs(t, err, ErrNoRoute)
	require.False(t, d.Resolved())
}

func TestSelectBackendSecondMembershipMatches(t *testing.T) {
	s := NewSelector(mockmaps.NewOrigDstMockMap())

	backend := newTestBackend(false)
	backend.ServiceCount = 3
	backend.Services = [routemap.MaxPortCount]uint32{3, 5, testServiceID}

	d := newTestDecision(80)
	err := s.SelectBackend(d, backend, testServiceID, newTestService(80, 8080))
	require.NoError(t, err)
	require.Equal(t, backendAddr, d.RewriteAddr)
}

func TestSelectBackendInvalidConfiguration(t *testing.T) {
	s := NewSelector(mockmaps.NewOrigDstMockMap())

	backend := newTestBackend(false)
	backend.ServiceCount = routemap.MaxPortCount + 1

	d := newTestDecision(80)
	err := s.SelectBackend(d, backend, testServiceID, newTestService(80, 8080))
	require.ErrorIs(t, err, ErrInvalidConfiguration)

	// No port comparison took place, the decision is untouched.
	require.False(t, d.Resolved())
}

func TestSelectBackendFatalStoreError(t *testing.T) {
	origDst := mockmaps.NewOrigDstMockMap()
	storeErr := errors.New("map full")
	origDst.SetRecordError(storeErr)
	s := NewSelector(origDst)

	d := newTestDecision(80)
	err := s.SelectBackend(d, newTestBackend(true), testServiceID, newTestService(80, 8080))
	require.ErrorIs(t, err, ErrOrigDstStore)
	// The underlying store error propagates unchanged.
	require.ErrorIs(t, err, storeErr)

	// The waypoint target was never set.
	require.False(t, d.Resolved())
	require.False(t, d.ViaWaypoint)
}

func TestSelectBackendReentryIsIdempotent(t *testing.T) {
	origDst := mockmaps.NewOrigDstMockMap()
	s := NewSelector(origDst)

	// The connection was already seen: its original destination is on
	// record.
	recorded := routemap.OrigDstValue{
		Address: virtualAddr,
		Port:    byteorder.HostToNetwork16(80),
		Family:  unix.AF_INET,
	}
	require.NoError(t, origDst.Record(&routemap.OrigDstKey{Cookie: testCookie}, &recorded))

	d := newTestDecision(80)
	err := s.SelectBackend(d, newTestBackend(true), testServiceID, newTestService(80, 8080))
	require.NoError(t, err)
	require.Equal(t, backendAddr, d.RewriteAddr)

	// The duplicate insert attempt left the stored value untouched.
	value, err := origDst.Lookup(&routemap.OrigDstKey{Cookie: testCookie})
	require.NoError(t, err)
	require.Equal(t, recorded, *value)
}

func TestSelectBackendDeterministic(t *testing.T) {
	origDst := mockmaps.NewOrigDstMockMap()
	s := NewSelector(origDst)

	backend := newTestBackend(true)
	service := newTestService(80, 8080)

	for i := 0; i < 10; i++ {
		d := newTestDecision(443)
		d.Cookie = uint64(i + 1)
		err := s.SelectBackend(d, backend, testServiceID, service)
		require.ErrorIs(t, err, ErrNoRoute)
		require.True(t, d.ViaWaypoint)
		require.Equal(t, waypointAddr, d.RewriteAddr)
		require.Equal(t, byteorder.HostToNetwork16(15008), d.RewritePort)
	}
}

func TestResolveFrontend(t *testing.T) {
	frontends := mockmaps.NewFrontendMockMap()
	key := routemap.FrontendKey{IP: virtualAddr}
	require.NoError(t, frontends.Update(&key, &routemap.FrontendValue{UpstreamID: testServiceID}))

	upstream, ok := ResolveFrontend(frontends, virtualAddr)
	require.True(t, ok)
	require.Equal(t, testServiceID, upstream)

	_, ok = ResolveFrontend(frontends, types.IP{192, 168, 1, 1})
	require.False(t, ok)
}

func TestLookupBackend(t *testing.T) {
	backends := mockmaps.NewBackendMockMap()
	key := routemap.BackendKey{BackendID: 42}
	require.NoError(t, backends.Update(&key, newTestBackend(false)))

	value, ok := LookupBackend(backends, &key)
	require.True(t, ok)
	require.Equal(t, backendAddr, value.Address)

	_, ok = LookupBackend(backends, &routemap.BackendKey{BackendID: 43})
	require.False(t, ok)
}
