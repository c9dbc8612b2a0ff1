// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

package routemap

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/sockmesh/sockmesh/pkg/byteorder"
	"github.com/sockmesh/sockmesh/pkg/ebpf"
	"github.com/sockmesh/sockmesh/pkg/logging/logfields"
	"github.com/sockmesh/sockmesh/pkg/option"
	"github.com/sockmesh/sockmesh/pkg/types"
)

// ServiceMapName is the name of the service records map.
const ServiceMapName = "sockmesh_lb_service"

// ServiceKey identifies a service record.
type ServiceKey struct {
	ServiceID uint32
}

// ServiceValue is a service record as published by the control plane.
// ServicePorts and TargetPorts are parallel tables: the entry at index i of
// ServicePorts is the externally visible port, the entry at the same index
// of TargetPorts is the backend-side port a connection is rewritten to.
// Unused slots are zero. Ports in network byte order.
//
// Fixed layout, must match the datapath.
type ServiceValue struct {
	EndpointCount uint32
	LbPolicy      uint32

	ServicePorts [MaxPortCount]uint16
	TargetPorts  [MaxPortCount]uint16

	// WaypointAddr and WaypointPort describe the service-level waypoint,
	// if any. Not consulted by backend selection; kept for diagnostics and
	// schema fidelity with the datapath.
	WaypointAddr types.IP
	WaypointPort uint16

	Pad uint16
}

func (k *ServiceKey) String() string {
	return fmt.Sprintf("%d", k.ServiceID)
}

func (v *ServiceValue) String() string {
	var ports []string
	for i := 0; i < MaxPortCount; i++ {
		if v.ServicePorts[i] == 0 && v.TargetPorts[i] == 0 {
			continue
		}
		ports = append(ports, fmt.Sprintf("%d->%d",
			byteorder.NetworkToHost16(v.ServicePorts[i]),
			byteorder.NetworkToHost16(v.TargetPorts[i])))
	}
	return fmt.Sprintf("endpoints=%d lbPolicy=%d ports=[%s]",
		v.EndpointCount, v.LbPolicy, strings.Join(ports, " "))
}

// ServiceIterateCallback is invoked for each entry of a service map dump.
type ServiceIterateCallback func(key *ServiceKey, value *ServiceValue)

// ServiceMap provides access to the service records. Lookups of unknown
// keys fail with ebpf.ErrKeyNotExist.
type ServiceMap interface {
	Lookup(key *ServiceKey) (*ServiceValue, error)
	Update(key *ServiceKey, value *ServiceValue) error
	Delete(key *ServiceKey) error
	IterateWithCallback(cb ServiceIterateCallback) error
}

type serviceMap struct {
	m *ebpf.Map
}

// CreateServiceMap creates the service map and pins it under the
// configured bpffs root.
func CreateServiceMap() (ServiceMap, error) {
	m := ebpf.NewMap(&ebpf.MapSpec{
		Name:       ServiceMapName,
		Type:       ebpf.Hash,
		KeySize:    uint32(unsafe.Sizeof(ServiceKey{})),
		ValueSize:  uint32(unsafe.Sizeof(ServiceValue{})),
		MaxEntries: uint32(option.Config.ServiceMapEntries),
		Pinning:    ebpf.PinByName,
	})
	if err := m.OpenOrCreate(); err != nil {
		return nil, err
	}
	log.WithField(logfields.MapName, ServiceMapName).Debug("Created service map")
	return &serviceMap{m}, nil
}

// OpenServiceMap opens the pinned service map for access.
func OpenServiceMap() (ServiceMap, error) {
	m, err := ebpf.OpenPinnedMap(ServiceMapName)
	if err != nil {
		return nil, err
	}
	return &serviceMap{m}, nil
}

func (s *serviceMap) Lookup(key *ServiceKey) (*ServiceValue, error) {
	value := ServiceValue{}
	err := s.m.Lookup(key, &value)
	return &value, err
}

func (s *serviceMap) Update(key *ServiceKey, value *ServiceValue) error {
	return s.m.Update(key, value)
}

func (s *serviceMap) Delete(key *ServiceKey) error {
	return s.m.Delete(key)
}

func (s *serviceMap) IterateWithCallback(cb ServiceIterateCallback) error {
	return s.m.IterateWithCallback(&ServiceKey{}, &ServiceValue{},
		func(k, v interface{}) {
			key := k.(*ServiceKey)
			value := v.(*ServiceValue)
			cb(key, value)
		})
}
