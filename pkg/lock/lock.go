// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

//go:build !lockdebug

// Package lock provides the mutex types used throughout the tree. Building
// with the "lockdebug" tag swaps them for deadlock-detecting variants.
package lock

import "sync"

// Mutex is a sync.Mutex.
type Mutex struct {
	sync.Mutex
}

// RWMutex is a sync.RWMutex.
type RWMutex struct {
	sync.RWMutex
}
