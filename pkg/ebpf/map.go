// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

package ebpf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	ciliumebpf "github.com/cilium/ebpf"

	"github.com/sockmesh/sockmesh/pkg/lock"
	"github.com/sockmesh/sockmesh/pkg/option"
)

type MapSpec = ciliumebpf.MapSpec

const (
	Hash    = ciliumebpf.Hash
	LRUHash = ciliumebpf.LRUHash

	PinNone   = ciliumebpf.PinNone
	PinByName = ciliumebpf.PinByName
)

var (
	// ErrKeyNotExist is returned when a lookup misses.
	ErrKeyNotExist = ciliumebpf.ErrKeyNotExist

	// ErrKeyExist is returned by CreateOnly when the key is already
	// present.
	ErrKeyExist = ciliumebpf.ErrKeyExist
)

// MapPath returns the bpffs path of the pinned map with the given name.
func MapPath(name string) string {
	return filepath.Join(option.Config.BPFMapRoot, name)
}

// Map wraps a kernel map handle with pinning under the configured bpffs
// root.
type Map struct {
	lock.RWMutex
	*ciliumebpf.Map

	spec *MapSpec
	path string
}

// NewMap constructs a map handle from spec. The kernel object is not
// created until OpenOrCreate is called.
func NewMap(spec *MapSpec) *Map {
	return &Map{
		spec: spec,
	}
}

// OpenOrCreate creates the map and, when the spec requests it, pins it
// under the configured bpffs root. Repeated calls are no-ops.
func (m *Map) OpenOrCreate() error {
	m.Lock()
	defer m.Unlock()

	if m.Map != nil {
		return nil
	}
	if m.spec == nil {
		return errors.New("cannot create map: nil spec")
	}

	opts := ciliumebpf.MapOptions{}
	if m.spec.Pinning == PinByName {
		if err := os.MkdirAll(option.Config.BPFMapRoot, 0o755); err != nil {
			return fmt.Errorf("unable to create bpffs directory %s: %w", option.Config.BPFMapRoot, err)
		}
		opts.PinPath = option.Config.BPFMapRoot
	}

	newMap, err := ciliumebpf.NewMapWithOptions(m.spec, opts)
	if err != nil {
		return fmt.Errorf("unable to create map %s: %w", m.spec.Name, err)
	}

	m.Map = newMap
	m.path = MapPath(m.spec.Name)
	return nil
}

// OpenPinnedMap loads an already created and pinned map by name.
func OpenPinnedMap(name string) (*Map, error) {
	path := MapPath(name)
	em, err := ciliumebpf.LoadPinnedMap(path, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to load pinned map %s: %w", path, err)
	}
	return &Map{Map: em, path: path}, nil
}

// Lookup reads the value stored under key into valueOut. Misses fail with
// ErrKeyNotExist.
func (m *Map) Lookup(key, valueOut interface{}) error {
	m.RLock()
	defer m.RUnlock()
	return m.Map.Lookup(key, valueOut)
}

// Update creates or replaces the entry under key.
func (m *Map) Update(key, value interface{}) error {
	m.Lock()
	defer m.Unlock()
	return m.Map.Update(key, value, ciliumebpf.UpdateAny)
}

// CreateOnly inserts the entry under key only if the key is not present.
// The insert is atomic with respect to concurrent attempts for the same
// key: exactly one inserter succeeds, the others fail with ErrKeyExist.
func (m *Map) CreateOnly(key, value interface{}) error {
	m.Lock()
	defer m.Unlock()
	return m.Map.Update(key, value, ciliumebpf.UpdateNoExist)
}

// Delete removes the entry under key.
func (m *Map) Delete(key interface{}) error {
	m.Lock()
	defer m.Unlock()
	return m.Map.Delete(key)
}

// IterateCallback is called by IterateWithCallback for each entry. The
// pointers passed to IterateWithCallback hold the current entry when the
// callback runs.
type IterateCallback func(key, value interface{})

// IterateWithCallback walks all map entries, decoding each into key and
// value before invoking cb.
func (m *Map) IterateWithCallback(key, value interface{}, cb IterateCallback) error {
	m.RLock()
	defer m.RUnlock()

	entries := m.Map.Iterate()
	for entries.Next(key, value) {
		cb(key, value)
	}
	return entries.Err()
}
