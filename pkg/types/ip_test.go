// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

package types

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestIPFromAddrV4(t *testing.T) {
	var ip IP
	family := ip.FromAddr(netip.MustParseAddr("10.0.0.5"))
	require.Equal(t, uint16(unix.AF_INET), family)
	require.Equal(t, IP{10, 0, 0, 5}, ip)
	require.Equal(t, "10.0.0.5", ip.String())
	require.Equal(t, netip.MustParseAddr("10.0.0.5"), ip.Addr(family))
}

func TestIPFromAddrV6(t *testing.T) {
	var ip IP
	addr := netip.MustParseAddr("b007::aaaa:bbbb")
	family := ip.FromAddr(addr)
	require.Equal(t, uint16(unix.AF_INET6), family)
	require.Equal(t, "b007::aaaa:bbbb", ip.String())
	require.Equal(t, addr, ip.Addr(family))
}

func TestIPFromAddrOverwrites(t *testing.T) {
	var ip IP
	ip.FromAddr(netip.MustParseAddr("b007::aaaa:bbbb"))
	ip.FromAddr(netip.MustParseAddr("192.168.1.1"))
	require.Equal(t, "192.168.1.1", ip.String())
}

func TestIPIsZero(t *testing.T) {
	var ip IP
	require.True(t, ip.IsZero())
	ip.FromAddr(netip.MustParseAddr("127.0.0.1"))
	require.False(t, ip.IsZero())
}

func TestParseIP(t *testing.T) {
	ip, family, err := ParseIP("10.11.129.91")
	require.NoError(t, err)
	require.Equal(t, uint16(unix.AF_INET), family)
	require.Equal(t, "10.11.129.91", ip.String())

	_, _, err = ParseIP("not-an-address")
	require.Error(t, err)
}
