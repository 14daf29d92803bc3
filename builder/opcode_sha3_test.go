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

package builder

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/wasm0/zkwasm-busmapping/operation"
	"github.com/wasm0/zkwasm-busmapping/state"
	"github.com/wasm0/zkwasm-busmapping/types"
)

// Hashing 0x32 zero bytes at offset 0x10 from a fresh memory image: three
// pointer reads, 32 digest writes and one read per input byte, with the input
// window captured as a single copy event.
func TestSha3ZeroMemoryWindow(t *testing.T) {
	const (
		offset = 0x10
		size   = 0x32
		dest   = 0x60
	)
	digest := crypto.Keccak256(make([]byte, size))
	next := make(types.Memory, dest+32)
	copy(next[dest:], digest)

	trace := &types.ExecTrace{StructLogs: []types.StructLog{
		{Op: types.SHA3, Depth: 1, Stack: types.Stack{word(offset), word(size), word(dest)}},
		{Op: types.STOP, Depth: 1, Memory: next},
	}}
	b := runSingleTx(t, state.New(), types.Transaction{}, trace)

	step := b.Block().Txs[0].Steps[1]
	require.Len(t, step.BusMappingInstance, 3+32+size)
	requireContiguousRWCs(t, b)

	c := b.Block().Container
	require.Len(t, c.Stack, 3)
	require.Equal(t, word(dest), c.Stack[0].Op.(*operation.StackOp).Value)
	require.Equal(t, word(size), c.Stack[1].Op.(*operation.StackOp).Value)
	require.Equal(t, word(offset), c.Stack[2].Op.(*operation.StackOp).Value)

	require.Len(t, c.Memory, 32+size)
	for i := 0; i < 32; i++ {
		op := c.Memory[i]
		require.True(t, op.RW.IsWrite())
		require.Equal(t, types.MemoryAddress(dest+i), op.Op.(*operation.MemoryOp).Address)
		require.Equal(t, digest[i], op.Op.(*operation.MemoryOp).Value)
	}
	for i := 32; i < 32+size; i++ {
		op := c.Memory[i]
		require.False(t, op.RW.IsWrite())
		require.Equal(t, types.MemoryAddress(offset+i-32), op.Op.(*operation.MemoryOp).Address)
		require.Zero(t, op.Op.(*operation.MemoryOp).Value)
	}

	require.Len(t, b.Block().CopyEvents, 1)
	ev := b.Block().CopyEvents[0]
	require.Equal(t, CopyMemory, ev.SrcType)
	require.Equal(t, CopyRlcAcc, ev.DstType)
	require.Equal(t, uint64(offset), ev.SrcAddr)
	require.Equal(t, uint64(offset+size), ev.SrcAddrEnd)
	require.Equal(t, 3+32+1, ev.RWCounterStart, "copy reads start after the digest writes")
	require.Len(t, ev.Bytes, size)
	for _, cb := range ev.Bytes {
		require.Zero(t, cb.Value)
		require.False(t, cb.IsCode)
	}
	require.Equal(t, size, step.CopyRWCounterDelta)

	require.Len(t, b.Block().Sha3Inputs, 1)
	require.Equal(t, make([]byte, size), b.Block().Sha3Inputs[0])
}

func TestSha3OversizedInputRejected(t *testing.T) {
	huge := new(uint256.Int).Lsh(uint256.NewInt(1), 64)
	trace := &types.ExecTrace{StructLogs: []types.StructLog{
		{Op: types.SHA3, Depth: 1, Stack: types.Stack{word(0), *huge, word(0x40)}},
		{Op: types.STOP, Depth: 1},
	}}
	b := NewCircuitInputBuilder(state.New(), Params{})
	err := b.HandleBlock([]types.Transaction{{}}, []*types.ExecTrace{trace})
	require.ErrorIs(t, err, types.ErrOutOfRange)
}

func TestSha3DigestMismatchRejected(t *testing.T) {
	trace := &types.ExecTrace{StructLogs: []types.StructLog{
		{Op: types.SHA3, Depth: 1, Stack: types.Stack{word(0), word(4), word(0x40)}},
		{Op: types.STOP, Depth: 1, Memory: make(types.Memory, 0x60)},
	}}
	b := NewCircuitInputBuilder(state.New(), Params{})
	err := b.HandleBlock([]types.Transaction{{}}, []*types.ExecTrace{trace})
	require.ErrorIs(t, err, types.ErrInvalidTrace)
}
