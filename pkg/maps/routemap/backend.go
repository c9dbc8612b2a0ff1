// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

package routemap

import (
	"fmt"
	"unsafe"

	"github.com/sockmesh/sockmesh/pkg/byteorder"
	"github.com/sockmesh/sockmesh/pkg/ebpf"
	"github.com/sockmesh/sockmesh/pkg/logging/logfields"
	"github.com/sockmesh/sockmesh/pkg/option"
	"github.com/sockmesh/sockmesh/pkg/types"
)

// BackendMapName is the name of the backend records map.
const BackendMapName = "sockmesh_lb_backend"

// BackendKey identifies a backend record.
type BackendKey struct {
	BackendID uint32
}

// BackendValue is a backend record as published by the control plane. Once
// published a record is immutable for the duration of a selection; updates
// replace the whole value.
//
// Fixed layout, must match the datapath.
type BackendValue struct {
	// Address is the backend's real endpoint address.
	Address types.IP

	// WaypointAddr and WaypointPort describe the optional waypoint proxy
	// endpoint. Both zero means the backend has no waypoint. Port in
	// network byte order.
	WaypointAddr types.IP
	WaypointPort uint16

	Pad uint16

	// ServiceCount is the number of valid entries in Services. Values
	// beyond MaxPortCount are a configuration error and are rejected by
	// the selection logic, never silently truncated.
	ServiceCount uint32

	// Services holds the identifiers of the services this backend is a
	// member of.
	Services [MaxPortCount]uint32
}

func (k *BackendKey) String() string {
	return fmt.Sprintf("%d", k.BackendID)
}

// HasWaypoint reports whether the record carries a usable waypoint
// endpoint. Both the address and the port must be set.
func (v *BackendValue) HasWaypoint() bool {
	return !v.WaypointAddr.IsZero() && v.WaypointPort != 0
}

func (v *BackendValue) String() string {
	wp := "none"
	if v.HasWaypoint() {
		wp = fmt.Sprintf("%s:%d", v.WaypointAddr, byteorder.NetworkToHost16(v.WaypointPort))
	}
	n := v.ServiceCount
	if n > MaxPortCount {
		n = MaxPortCount
	}
	return fmt.Sprintf("addr=%s waypoint=%s services=%v", v.Address, wp, v.Services[:n])
}

// BackendIterateCallback is invoked for each entry of a backend map dump.
type BackendIterateCallback func(key *BackendKey, value *BackendValue)

// BackendMap provides access to the backend records. Lookups of unknown
// keys fail with ebpf.ErrKeyNotExist.
type BackendMap interface {
	Lookup(key *BackendKey) (*BackendValue, error)
	Update(key *BackendKey, value *BackendValue) error
	Delete(key *BackendKey) error
	IterateWithCallback(cb BackendIterateCallback) error
}

type backendMap struct {
	m *ebpf.Map
}

// CreateBackendMap creates the backend map and pins it under the
// configured bpffs root.
func CreateBackendMap() (BackendMap, error) {
	m := ebpf.NewMap(&ebpf.MapSpec{
		Name:       BackendMapName,
		Type:       ebpf.Hash,
		KeySize:    uint32(unsafe.Sizeof(BackendKey{})),
		ValueSize:  uint32(unsafe.Sizeof(BackendValue{})),
		MaxEntries: uint32(option.Config.BackendMapEntries),
		Pinning:    ebpf.PinByName,
	})
	if err := m.OpenOrCreate(); err != nil {
		return nil, err
	}
	log.WithField(logfields.MapName, BackendMapName).Debug("Created backend map")
	return &backendMap{m}, nil
}

// OpenBackendMap opens the pinned backend map for access.
func OpenBackendMap() (BackendMap, error) {
	m, err := ebpf.OpenPinnedMap(BackendMapName)
	if err != nil {
		return nil, err
	}
	return &backendMap{m}, nil
}

func (b *backendMap) Lookup(key *BackendKey) (*BackendValue, error) {
	value := BackendValue{}
	err := b.m.Lookup(key, &value)
	return &value, err
}

func (b *backendMap) Update(key *BackendKey, value *BackendValue) error {
	return b.m.Update(key, value)
}

func (b *backendMap) Delete(key *BackendKey) error {
	return b.m.Delete(key)
}

func (b *backendMap) IterateWithCallback(cb BackendIterateCallback) error {
	return b.m.IterateWithCallback(&BackendKey{}, &BackendValue{},
		func(k, v interface{}) {
			key := k.(*BackendKey)
			value := v.(*BackendValue)
			cb(key, value)
		})
}
