// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

// Package mockmaps provides in-memory implementations of the routemap
// interfaces for tests that cannot or should not touch kernel maps.
package mockmaps

import (
	"github.com/sockmesh/sockmesh/pkg/ebpf"
	"github.com/sockmesh/sockmesh/pkg/lock"
	"github.com/sockmesh/sockmesh/pkg/maps/routemap"
)

var (
	_ routemap.BackendMap  = (*BackendMockMap)(nil)
	_ routemap.ServiceMap  = (*ServiceMockMap)(nil)
	_ routemap.FrontendMap = (*FrontendMockMap)(nil)
	_ routemap.OrigDstMap  = (*OrigDstMockMap)(nil)
)

// BackendMockMap is an in-memory routemap.BackendMap.
type BackendMockMap struct {
	lock.RWMutex
	entries map[routemap.BackendKey]routemap.BackendValue
}

func NewBackendMockMap() *BackendMockMap {
	return &BackendMockMap{
		entries: map[routemap.BackendKey]routemap.BackendValue{},
	}
}

func (m *BackendMockMap) Lookup(key *routemap.BackendKey) (*routemap.BackendValue, error) {
	m.RLock()
	defer m.RUnlock()
	value, ok := m.entries[*key]
	if !ok {
		return nil, ebpf.ErrKeyNotExist
	}
	return &value, nil
}

func (m *BackendMockMap) Update(key *routemap.BackendKey, value *routemap.BackendValue) error {
	m.Lock()
	defer m.Unlock()
	m.entries[*key] = *value
	return nil
}

func (m *BackendMockMap) Delete(key *routemap.BackendKey) error {
	m.Lock()
	defer m.Unlock()
	if _, ok := m.entries[*key]; !ok {
		return ebpf.ErrKeyNotExist
	}
	delete(m.entries, *key)
	return nil
}

func (m *BackendMockMap) IterateWithCallback(cb routemap.BackendIterateCallback) error {
	m.RLock()
	defer m.RUnlock()
	for key, value := range m.entries {
		key, value := key, value
		cb(&key, &value)
	}
	return nil
}

// ServiceMockMap is an in-memory routemap.ServiceMap.
type ServiceMockMap struct {
	lock.RWMutex
	entries map[routemap.ServiceKey]routemap.ServiceValue
}

func NewServiceMockMap() *ServiceMockMap {
	return &ServiceMockMap{
		entries: map[routemap.ServiceKey]routemap.ServiceValue{},
	}
}

func (m *ServiceMockMap) Lookup(key *routemap.ServiceKey) (*routemap.ServiceValue, error) {
	m.RLock()
	defer m.RUnlock()
	value, ok := m.entries[*key]
	if !ok {
		return nil, ebpf.ErrKeyNotExist
	}
	return &value, nil
}

func (m *ServiceMockMap) Update(key *routemap.ServiceKey, value *routemap.ServiceValue) error {
	m.Lock()
	defer m.Unlock()
	m.entries[*key] = *value
	return nil
}

func (m *ServiceMockMap) Delete(key *routemap.ServiceKey) error {
	m.Lock()
	defer m.Unlock()
	if _, ok := m.entries[*key]; !ok {
		return ebpf.ErrKeyNotExist
	}
	delete(m.entries, *key)
	return nil
}

func (m *ServiceMockMap) IterateWithCallback(cb routemap.ServiceIterateCallback) error {
	m.RLock()
	defer m.RUnlock()
	for key, value := range m.entries {
		key, value := key, value
		cb(&key, &value)
	}
	return nil
}

// FrontendMockMap is an in-memory routemap.FrontendMap.
type FrontendMockMap struct {
	lock.RWMutex
	entries map[routemap.FrontendKey]routemap.FrontendValue
}

func NewFrontendMockMap() *FrontendMockMap {
	return &FrontendMockMap{
		entries: map[routemap.FrontendKey]routemap.FrontendValue{},
	}
}

func (m *FrontendMockMap) Lookup(key *routemap.FrontendKey) (*routemap.FrontendValue, error) {
	m.RLock()
	defer m.RUnlock()
	value, ok := m.entries[*key]
	if !ok {
		return nil, ebpf.ErrKeyNotExist
	}
	return &value, nil
}

func (m *FrontendMockMap) Update(key *routemap.FrontendKey, value *routemap.FrontendValue) error {
	m.Lock()
	defer m.Unlock()
	m.entries[*key] = *value
	return nil
}

func (m *FrontendMockMap) Delete(key *routemap.FrontendKey) error {
	m.Lock()
	defer m.Unlock()
	if _, ok := m.entries[*key]; !ok {
		return ebpf.ErrKeyNotExist
	}
	delete(m.entries, *key)
	return nil
}

func (m *FrontendMockMap) IterateWithCallback(cb routemap.FrontendIterateCallback) error {
	m.RLock()
	defer m.RUnlock()
	for key, value := range m.entries {
		key, value := key, value
		cb(&key, &value)
	}
	return nil
}

// OrigDstMockMap is an in-memory routemap.OrigDstMap with create-only
// insert semantics and fault injection for store failures.
type OrigDstMockMap struct {
	lock.RWMutex
	entries   map[routemap.OrigDstKey]routemap.OrigDstValue
	recordErr error
}

func NewOrigDstMockMap() *OrigDstMockMap {
	return &OrigDstMockMap{
		entries: map[routemap.OrigDstKey]routemap.OrigDstValue{},
	}
}

// SetRecordError makes all subsequent Record calls fail with err until
// cleared with SetRecordError(nil).
func (m *OrigDstMockMap) SetRecordError(err error) {
	m.Lock()
	defer m.Unlock()
	m.recordErr = err
}

func (m *OrigDstMockMap) Record(key *routemap.OrigDstKey, value *routemap.OrigDstValue) error {
	m.Lock()
	defer m.Unlock()
	if m.recordErr != nil {
		return m.recordErr
	}
	if _, ok := m.entries[*key]; ok {
		return ebpf.ErrKeyExist
	}
	m.entries[*key] = *value
	return nil
}

func (m *OrigDstMockMap) Lookup(key *routemap.OrigDstKey) (*routemap.OrigDstValue, error) {
	m.RLock()
	defer m.RUnlock()
	value, ok := m.entries[*key]
	if !ok {
		return nil, ebpf.ErrKeyNotExist
	}
	return &value, nil
}

func (m *OrigDstMockMap) Delete(key *routemap.OrigDstKey) error {
	m.Lock()
	defer m.Unlock()
	if _, ok := m.entries[*key]; !ok {
		return ebpf.ErrKeyNotExist
	}
	delete(m.entries, *key)
	return nil
}

func (m *OrigDstMockMap) IterateWithCallback(cb routemap.OrigDstIterateCallback) error {
	m.RLock()
	defer m.RUnlock()
	for key, value := range m.entries {
		key, value := key, value
		cb(&key, &value)
	}
	return nil
}
