// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

// Package routemap defines the datapath map schemas driving connect-time
// destination selection: frontend addresses, service port tables, backend
// records and the original destination recorder. The records are published
// by the control plane and treated as read-only snapshots by the decision
// logic; all of them are flat, fixed-size values so the datapath side can
// iterate them with statically bounded loops.
package routemap

import (
	"github.com/sockmesh/sockmesh/pkg/logging"
	"github.com/sockmesh/sockmesh/pkg/logging/logfields"
)

var log = logging.DefaultLogger.WithField(logfields.LogSubsys, "map-route")

// MaxPortCount bounds both the number of service memberships carried by a
// backend record and the number of port mappings carried by a service
// record. The datapath unrolls its scan loops to this constant, so it is
// part of the map ABI and must match the BPF side.
const MaxPortCount = 10
