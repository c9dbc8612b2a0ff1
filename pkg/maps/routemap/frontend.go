// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

package routemap

import (
	"fmt"
	"unsafe"

	"github.com/sockmesh/sockmesh/pkg/ebpf"
	"github.com/sockmesh/sockmesh/pkg/logging/logfields"
	"github.com/sockmesh/sockmesh/pkg/option"
	"github.com/sockmesh/sockmesh/pkg/types"
)

// FrontendMapName is the name of the frontend address map.
const FrontendMapName = "sockmesh_lb_frontend"

// FrontendKey is a destination address as seen on a new outbound
// connection: a service virtual address or a pod address.
type FrontendKey struct {
	IP types.IP
}

// FrontendValue resolves a frontend address to the upstream identifier the
// caller continues the lookup chain with: a service identifier or, for
// addresses not fronted by a service, a backend identifier.
type FrontendValue struct {
	UpstreamID uint32
}

func (k *FrontendKey) String() string {
	return k.IP.String()
}

func (v *FrontendValue) String() string {
	return fmt.Sprintf("%d", v.UpstreamID)
}

// FrontendIterateCallback is invoked for each entry of a frontend map dump.
type FrontendIterateCallback func(key *FrontendKey, value *FrontendValue)

// FrontendMap provides access to the frontend addresses. Lookups of
// unknown keys fail with ebpf.ErrKeyNotExist.
type FrontendMap interface {
	Lookup(key *FrontendKey) (*FrontendValue, error)
	Update(key *FrontendKey, value *FrontendValue) error
	Delete(key *FrontendKey) error
	IterateWithCallback(cb FrontendIterateCallback) error
}

type frontendMap struct {
	m *ebpf.Map
}

// CreateFrontendMap creates the frontend map and pins it under the
// configured bpffs root.
func CreateFrontendMap() (FrontendMap, error) {
	m := ebpf.NewMap(&ebpf.MapSpec{
		Name:       FrontendMapName,
		Type:       ebpf.Hash,
		KeySize:    uint32(unsafe.Sizeof(FrontendKey{})),
		ValueSize:  uint32(unsafe.Sizeof(FrontendValue{})),
		MaxEntries: uint32(option.Config.FrontendMapEntries),
		Pinning:    ebpf.PinByName,
	})
	if err := m.OpenOrCreate(); err != nil {
		return nil, err
	}
	log.WithField(logfields.MapName, FrontendMapName).Debug("Created frontend map")
	return &frontendMap{m}, nil
}

// OpenFrontendMap opens the pinned frontend map for access.
func OpenFrontendMap() (FrontendMap, error) {
	m, err := ebpf.OpenPinnedMap(FrontendMapName)
	if err != nil {
		return nil, err
	}
	return &frontendMap{m}, nil
}

func (f *frontendMap) Lookup(key *FrontendKey) (*FrontendValue, error) {
	value := FrontendValue{}
	err := f.m.Lookup(key, &value)
	return &value, err
}

func (f *frontendMap) Update(key *FrontendKey, value *FrontendValue) error {
	return f.m.Update(key, value)
}

func (f *frontendMap) Delete(key *FrontendKey) error {
	return f.m.Delete(key)
}

func (f *frontendMap) IterateWithCallback(cb FrontendIterateCallback) error {
	return f.m.IterateWithCallback(&FrontendKey{}, &FrontendValue{},
		func(k, v interface{}) {
			key := k.(*FrontendKey)
			value := v.(*FrontendValue)
			cb(key, value)
		})
}
