// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

// Package ebpf is a thin wrapper around github.com/cilium/ebpf providing
// the map access primitives the sockmesh datapath maps are built on, in
// particular the create-only insert used by the original destination
// recorder.
package ebpf
