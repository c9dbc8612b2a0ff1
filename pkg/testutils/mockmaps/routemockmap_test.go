// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

package mockmaps

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sockmesh/sockmesh/pkg/ebpf"
	"github.com/sockmesh/sockmesh/pkg/maps/routemap"
	"github.com/sockmesh/sockmesh/pkg/types"
)

func TestOrigDstMockMapRecordOnce(t *testing.T) {
	m := NewOrigDstMockMap()
	key := routemap.OrigDstKey{Cookie: 99}
	first := routemap.OrigDstValue{Address: types.IP{10, 0, 0, 1}, Port: 80}
	second := routemap.OrigDstValue{Address: types.IP{10, 0, 0, 2}, Port: 443}

	require.NoError(t, m.Record(&key, &first))

	err := m.Record(&key, &second)
	require.ErrorIs(t, err, ebpf.ErrKeyExist)

	// The failed insert left the first value in place.
	value, err := m.Lookup(&key)
	require.NoError(t, err)
	require.Equal(t, first, *value)
}

func TestOrigDstMockMapRecordError(t *testing.T) {
	m := NewOrigDstMockMap()
	key := routemap.OrigDstKey{Cookie: 1}

	injected := ebpf.ErrKeyNotExist
	m.SetRecordError(injected)
	require.ErrorIs(t, m.Record(&key, &routemap.OrigDstValue{}), injected)

	m.SetRecordError(nil)
	require.NoError(t, m.Record(&key, &routemap.OrigDstValue{}))
}

func TestBackendMockMapLookupMiss(t *testing.T) {
	m := NewBackendMockMap()
	_, err := m.Lookup(&routemap.BackendKey{BackendID: 1})
	require.ErrorIs(t, err, ebpf.ErrKeyNotExist)
}
