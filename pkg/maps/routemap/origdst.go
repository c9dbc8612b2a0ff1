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

// OrigDstMapName is the name of the original destination map.
const OrigDstMapName = "sockmesh_orig_dst"

// OrigDstKey identifies one in-flight connection attempt by its socket
// cookie.
type OrigDstKey struct {
	Cookie uint64
}

// OrigDstValue is the pre-rewrite destination of a connection, captured
// before the DNAT target is set so the proxy can recover where the client
// was originally connecting to. Port in network byte order.
type OrigDstValue struct {
	Address types.IP
	Port    uint16
	Family  uint16
	Pad     uint32
}

func (k *OrigDstKey) String() string {
	return fmt.Sprintf("%d", k.Cookie)
}

func (v *OrigDstValue) String() string {
	return fmt.Sprintf("%s:%d", v.Address.Addr(v.Family), byteorder.NetworkToHost16(v.Port))
}

// OrigDstIterateCallback is invoked for each entry of an original
// destination map dump.
type OrigDstIterateCallback func(key *OrigDstKey, value *OrigDstValue)

// OrigDstMap records the original destination of connections. Record is
// create-only: inserting a key that is already present fails with
// ebpf.ErrKeyExist and leaves the stored value untouched; any other insert
// failure is reported unchanged. The insert is atomic with respect to
// concurrent attempts for the same cookie.
type OrigDstMap interface {
	Record(key *OrigDstKey, value *OrigDstValue) error
	Lookup(key *OrigDstKey) (*OrigDstValue, error)
	Delete(key *OrigDstKey) error
	IterateWithCallback(cb OrigDstIterateCallback) error
}

type origDstMap struct {
	m *ebpf.Map
}

// CreateOrigDstMap creates the original destination map and pins it under
// the configured bpffs root.
func CreateOrigDstMap() (OrigDstMap, error) {
	m := ebpf.NewMap(&ebpf.MapSpec{
		Name:       OrigDstMapName,
		Type:       ebpf.Hash,
		KeySize:    uint32(unsafe.Sizeof(OrigDstKey{})),
		ValueSize:  uint32(unsafe.Sizeof(OrigDstValue{})),
		MaxEntries: uint32(option.Config.OrigDstMapEntries),
		Pinning:    ebpf.PinByName,
	})
	if err := m.OpenOrCreate(); err != nil {
		return nil, err
	}
	log.WithField(logfields.MapName, OrigDstMapName).Debug("Created original destination map")
	return &origDstMap{m}, nil
}

// OpenOrigDstMap opens the pinned original destination map for access.
func OpenOrigDstMap() (OrigDstMap, error) {
	m, err := ebpf.OpenPinnedMap(OrigDstMapName)
	if err != nil {
		return nil, err
	}
	return &origDstMap{m}, nil
}

func (o *origDstMap) Record(key *OrigDstKey, value *OrigDstValue) error {
	return o.m.CreateOnly(key, value)
}

func (o *origDstMap) Lookup(key *OrigDstKey) (*OrigDstValue, error) {
	value := OrigDstValue{}
	err := o.m.Lookup(key, &value)
	return &value, err
}

func (o *origDstMap) Delete(key *OrigDstKey) error {
	return o.m.Delete(key)
}

func (o *origDstMap) IterateWithCallback(cb OrigDstIterateCallback) error {
	return o.m.IterateWithCallback(&OrigDstKey{}, &OrigDstValue{},
		func(k, v interface{}) {
			key := k.(*OrigDstKey)
			value := v.(*OrigDstValue)
			cb(key, value)
		})
}
