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
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/wasm0/zkwasm-busmapping/params"
)

// MemoryAddress is a byte offset into a call's linear memory.
type MemoryAddress uint64

// Memory is a byte-addressable image of one call's linear memory.
type Memory []byte

func (m Memory) Len() int {
	return len(m)
}

// ExtendAtLeast grows the memory with zero bytes so that at least size bytes
// are addressable.
func (m *Memory) ExtendAtLeast(size int) {
	if len(*m) >= size {
		return
	}
	*m = append(*m, make([]byte, size-len(*m))...)
}

// ReadChunk returns size bytes starting at addr. Reads past the current
// length yield zero bytes, matching the zero-initialized growth semantics of
// linear memory.
func (m Memory) ReadChunk(addr MemoryAddress, size int) []byte {
	chunk := make([]byte, size)
	if int(addr) < len(m) {
		copy(chunk, m[addr:])
	}
	return chunk
}

// ReadWord reads a 32-byte big-endian word starting at addr.
func (m Memory) ReadWord(addr MemoryAddress) uint256.Int {
	var w uint256.Int
	w.SetBytes(m.ReadChunk(addr, params.WordByteLength))
	return w
}

// ReadAddress reads a 20-byte account address starting at addr.
func (m Memory) ReadAddress(addr MemoryAddress) common.Address {
	return common.BytesToAddress(m.ReadChunk(addr, common.AddressLength))
}

func (m Memory) Copy() Memory {
	c := make(Memory, len(m))
	copy(c, m)
	return c
}
