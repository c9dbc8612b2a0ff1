// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

package types

import (
	"net/netip"

	"golang.org/x/sys/unix"
)

// IP is the binary representation of an IPv4 or IPv6 address as encoded in
// datapath map values. An IPv4 address occupies the first 4 bytes, the
// remaining bytes are zero. The address family discriminator is carried
// separately by the enclosing record.
type IP [16]byte

// FromAddr writes addr into ip and returns the matching address family
// (unix.AF_INET or unix.AF_INET6).
func (ip *IP) FromAddr(addr netip.Addr) uint16 {
	*ip = IP{}
	if addr.Is4() {
		v4 := addr.As4()
		copy(ip[:4], v4[:])
		return unix.AF_INET
	}
	v6 := addr.As16()
	copy(ip[:], v6[:])
	return unix.AF_INET6
}

// Addr interprets ip according to the given address family.
func (ip IP) Addr(family uint16) netip.Addr {
	if family == unix.AF_INET {
		return netip.AddrFrom4([4]byte(ip[:4]))
	}
	return netip.AddrFrom16(ip)
}

// IsZero reports whether ip is all zeroes, the "not set" value in map
// records.
func (ip IP) IsZero() bool {
	return ip == IP{}
}

// String prints ip without an explicit family. A value with no bits outside
// the first 4 bytes is printed as IPv4.
func (ip IP) String() string {
	for _, b := range ip[4:] {
		if b != 0 {
			return netip.AddrFrom16(ip).String()
		}
	}
	return netip.AddrFrom4([4]byte(ip[:4])).String()
}

// ParseIP parses s and returns the binary address together with its family.
func ParseIP(s string) (IP, uint16, error) {
	var ip IP
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return ip, 0, err
	}
	family := ip.FromAddr(addr)
	return ip, family, nil
}
