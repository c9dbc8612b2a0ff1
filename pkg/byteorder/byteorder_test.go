// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

package byteorder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNativeIsInitialized(t *testing.T) {
	require.NotNil(t, Native)
}

func TestHostToNetwork(t *testing.T) {
	if Native.Uint16([]byte{0x01, 0x02}) != 0x0201 {
		t.Skip("test requires a little-endian host")
	}
	require.Equal(t, uint16(0xbbaa), HostToNetwork16(0xaabb))
	require.Equal(t, uint32(0xddccbbaa), HostToNetwork32(0xaabbccdd))
}

func TestNetworkToHostRoundTrip(t *testing.T) {
	require.Equal(t, uint16(0xaabb), NetworkToHost16(HostToNetwork16(0xaabb)))
	require.Equal(t, uint32(0xaabbccdd), NetworkToHost32(HostToNetwork32(0xaabbccdd)))
}
