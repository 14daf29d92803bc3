// Copyright 2023 The zkwasm-busmapping Authors
// This file is part of the zkwasm-busmapping library.
//
// The zkwasm-busmapping library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The zkwasm-busmapping library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the zkwasm-busmapping library. If not, see <http://www.gnu.org/licenses/>.

package types

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestMemoryExtendAtLeast(t *testing.T) {
	m := Memory{1, 2, 3}
	m.ExtendAtLeast(2)
	require.Equal(t, 3, m.Len())
	m.ExtendAtLeast(8)
	require.Equal(t, 8, m.Len())
	require.Equal(t, Memory{1, 2, 3, 0, 0, 0, 0, 0}, m)
}

func TestMemoryReadChunkZeroPads(t *testing.T) {
	m := Memory{0xaa, 0xbb}
	require.Equal(t, []byte{0xbb, 0, 0}, m.ReadChunk(1, 3))
	require.Equal(t, []byte{0, 0}, m.ReadChunk(10, 2))
}

func TestMemoryReadWord(t *testing.T) {
	m := make(Memory, 64)
	m[63] = 0x6f
	w := m.ReadWord(32)
	require.Equal(t, uint64(0x6f), w.Uint64())
}

func TestMemoryReadAddress(t *testing.T) {
	addr := common.HexToAddress("0x00112233445566778899aabbccddeeff00112233")
	m := make(Memory, 32)
	copy(m[4:], addr.Bytes())
	require.Equal(t, addr, m.ReadAddress(4))
}
