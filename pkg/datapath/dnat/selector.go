// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

package dnat

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sockmesh/sockmesh/pkg/byteorder"
	"github.com/sockmesh/sockmesh/pkg/ebpf"
	"github.com/sockmesh/sockmesh/pkg/logging/logfields"
	"github.com/sockmesh/sockmesh/pkg/maps/routemap"
	"github.com/sockmesh/sockmesh/pkg/metrics"
	"github.com/sockmesh/sockmesh/pkg/types"
)

// Selector decides the rewrite target for new outbound connections. The
// backend and service records are read-only snapshots handed in by the
// caller; the only store the Selector writes to is the original
// destination recorder.
type Selector struct {
	origDst routemap.OrigDstMap
}

// NewSelector returns a Selector recording original destinations in
// origDst.
func NewSelector(origDst routemap.OrigDstMap) *Selector {
	return &Selector{
		origDst: origDst,
	}
}

// LookupBackend fetches the backend record for key from backends. The
// backend store has no failure mode other than absence: lookup errors
// beyond a plain miss are logged and reported as absence.
func LookupBackend(backends routemap.BackendMap, key *routemap.BackendKey) (*routemap.BackendValue, bool) {
	value, err := backends.Lookup(key)
	if err != nil {
		if !errors.Is(err, ebpf.ErrKeyNotExist) {
			log.WithError(err).WithField(logfields.BackendID, key.BackendID).
				Error("Backend lookup failed")
		}
		return nil, false
	}
	return value, true
}

// ResolveFrontend maps a destination address to the upstream identifier
// registered for it: a service id or, for addresses not fronted by a
// service, a backend id. Absence means the address is not mesh-managed.
func ResolveFrontend(frontends routemap.FrontendMap, ip types.IP) (uint32, bool) {
	value, err := frontends.Lookup(&routemap.FrontendKey{IP: ip})
	if err != nil {
		if !errors.Is(err, ebpf.ErrKeyNotExist) {
			log.WithError(err).WithField(logfields.IPAddr, ip).
				Error("Frontend lookup failed")
		}
		return 0, false
	}
	return value.UpstreamID, true
}

// redirectToWaypoint records the connection's original destination and
// tentatively points the decision at the waypoint endpoint. A connection
// whose cookie was already recorded is a re-entry and proceeds; a store
// failure aborts before the decision is touched, since the original
// destination would not be recoverable downstream.
func (s *Selector) redirectToWaypoint(d *Decision, addr types.IP, port uint16) error {
	key := routemap.OrigDstKey{Cookie: d.Cookie}
	value := routemap.OrigDstValue{
		Address: d.OriginalAddr,
		Port:    d.RequestedPort,
		Family:  d.Family,
	}

	if err := s.origDst.Record(&key, &value); err != nil {
		if !errors.Is(err, ebpf.ErrKeyExist) {
			metrics.OrigDstRecords.WithLabelValues(metrics.OutcomeError).Inc()
			return fmt.Errorf("%w: %w", ErrOrigDstStore, err)
		}
		metrics.OrigDstRecords.WithLabelValues(metrics.OutcomeExists).Inc()
	} else {
		metrics.OrigDstRecords.WithLabelValues(metrics.OutcomeCreated).Inc()
	}

	d.RewriteAddr = addr
	d.RewritePort = port
	d.ViaWaypoint = true
	return nil
}

// SelectBackend resolves the rewrite target for a connection addressed at
// serviceID on d.RequestedPort, served by the given backend. If the
// backend has a waypoint, the decision is first tentatively pointed at it;
// a direct service and port match then always takes precedence and
// overwrites the waypoint target.
//
// When the bounded scan finds no service and port match, ErrNoRoute is
// returned even if a tentative waypoint target was already written to d.
// Callers that honor waypoint routes must therefore check d.ViaWaypoint
// before discarding the attempt.
func (s *Selector) SelectBackend(d *Decision, backend *routemap.BackendValue, serviceID uint32, service *routemap.ServiceValue) error {
	scopedLog := log.WithFields(logrus.Fields{
		logfields.Cookie:    d.Cookie,
		logfields.ServiceID: serviceID,
		logfields.Port:      byteorder.NetworkToHost16(d.RequestedPort),
	})

	if backend.HasWaypoint() {
		scopedLog.WithField(logfields.Waypoint,
			fmt.Sprintf("%s:%d", backend.WaypointAddr, byteorder.NetworkToHost16(backend.WaypointPort))).
			Debug("Backend has a waypoint, recording original destination")
		if err := s.redirectToWaypoint(d, backend.WaypointAddr, backend.WaypointPort); err != nil {
			if errors.Is(err, ErrOrigDstStore) {
				scopedLog.WithError(err).Error("Waypoint redirect failed")
				metrics.BackendSelection.WithLabelValues(metrics.OutcomeError).Inc()
				return err
			}
			scopedLog.WithError(err).Warning("Waypoint redirect failed, continuing with direct backend selection")
		}
	}

	if backend.ServiceCount > routemap.MaxPortCount {
		scopedLog.WithField(logfields.Count, backend.ServiceCount).
			Warning("Backend exceeds the maximum service membership count")
		metrics.BackendSelection.WithLabelValues(metrics.OutcomeInvalidConfig).Inc()
		return fmt.Errorf("%w: %d > %d", ErrInvalidConfiguration, backend.ServiceCount, routemap.MaxPortCount)
	}

	// Iterate to the fixed capacity with the published count as an inner
	// guard, mirroring the unrolled datapath loops.
	for i := uint32(0); i < routemap.MaxPortCount; i++ {
		if i >= backend.ServiceCount {
			break
		}
		if backend.Services[i] != serviceID {
			continue
		}
		for j := 0; j < routemap.MaxPortCount; j++ {
			if service.ServicePorts[j] != d.RequestedPort {
				continue
			}
			d.RewriteAddr = backend.Address
			d.RewritePort = service.TargetPorts[j]
			d.ViaWaypoint = false
			scopedLog.WithFields(logrus.Fields{
				logfields.IPAddr:     d.RewriteAddr,
				logfields.TargetPort: byteorder.NetworkToHost16(d.RewritePort),
			}).Debug("Selected direct backend route")
			metrics.BackendSelection.WithLabelValues(metrics.OutcomeDirect).Inc()
			return nil
		}
	}

	scopedLog.Error("No route to backend for the requested service and port")
	metrics.BackendSelection.WithLabelValues(metrics.OutcomeNoRoute).Inc()
	return ErrNoRoute
}
