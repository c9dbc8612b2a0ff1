// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

//go:build lockdebug

package lock

import (
	"time"

	deadlock "github.com/sasha-s/go-deadlock"
)

const deadlockTimeout = 310 * time.Second

func init() {
	deadlock.Opts.DeadlockTimeout = deadlockTimeout
}

// Mutex is a deadlock-detecting mutex.
type Mutex struct {
	deadlock.Mutex
}

// RWMutex is a deadlock-detecting reader/writer mutex.
type RWMutex struct {
	deadlock.RWMutex
}
