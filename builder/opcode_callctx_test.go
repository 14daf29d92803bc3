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

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/wasm0/zkwasm-busmapping/operation"
	"github.com/wasm0/zkwasm-busmapping/state"
	"github.com/wasm0/zkwasm-busmapping/types"
)

func TestCallerWritesAddressBytes(t *testing.T) {
	from := common.HexToAddress("0x00112233445566778899aabbccddeeff00112233")
	trace := &types.ExecTrace{StructLogs: []types.StructLog{
		{Op: types.CALLER, Depth: 1, Stack: types.Stack{word(0x10)}},
		{Op: types.STOP, Depth: 1},
	}}
	b := runSingleTx(t, state.New(), types.Transaction{From: from}, trace)

	step := b.Block().Txs[0].Steps[1]
	require.Len(t, step.BusMappingInstance, 1+1+20)
	requireContiguousRWCs(t, b)

	c := b.Block().Container
	require.Len(t, c.CallContext, 1)
	cc := c.CallContext[0].Op.(*operation.CallContextOp)
	require.Equal(t, operation.CallerAddressField, cc.Field)
	require.Equal(t, addressWord(from), cc.Value)

	require.Len(t, c.Memory, 20)
	for i, op := range c.Memory {
		require.True(t, op.RW.IsWrite())
		require.Equal(t, types.MemoryAddress(0x10+i), op.Op.(*operation.MemoryOp).Address)
		require.Equal(t, from[i], op.Op.(*operation.MemoryOp).Value)
	}
}

func TestCallValueWritesWord(t *testing.T) {
	value := uint256.NewInt(0x1234)
	trace := &types.ExecTrace{StructLogs: []types.StructLog{
		{Op: types.CALLVALUE, Depth: 1, Stack: types.Stack{word(0x00)}},
		{Op: types.STOP, Depth: 1},
	}}
	b := runSingleTx(t, state.New(), types.Transaction{Value: value}, trace)

	step := b.Block().Txs[0].Steps[1]
	require.Len(t, step.BusMappingInstance, 1+1+32)

	c := b.Block().Container
	require.Len(t, c.CallContext, 1)
	cc := c.CallContext[0].Op.(*operation.CallContextOp)
	require.Equal(t, operation.ValueField, cc.Field)
	require.Equal(t, *value, cc.Value)

	require.Len(t, c.Memory, 32)
	want := value.Bytes32()
	for i, op := range c.Memory {
		require.Equal(t, want[i], op.Op.(*operation.MemoryOp).Value)
	}
}
