// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

// Package metrics holds the prometheus metrics exposed by the datapath
// decision logic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace is the prefix of all sockmesh metric names.
const Namespace = "sockmesh"

// LabelOutcome marks the result of an operation.
const LabelOutcome = "outcome"

// Values of the outcome label.
const (
	OutcomeDirect        = "direct"
	OutcomeNoRoute       = "no_route"
	OutcomeInvalidConfig = "invalid_configuration"
	OutcomeError         = "error"

	OutcomeCreated = "created"
	OutcomeExists  = "exists"
)

var (
	// BackendSelection counts connect-time backend selection decisions by
	// outcome.
	BackendSelection = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "datapath",
		Name:      "backend_selection_total",
		Help:      "Number of connect-time backend selection decisions",
	}, []string{LabelOutcome})

	// OrigDstRecords counts original destination insert attempts by
	// outcome.
	OrigDstRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "datapath",
		Name:      "original_destination_records_total",
		Help:      "Number of original destination record attempts",
	}, []string{LabelOutcome})
)
