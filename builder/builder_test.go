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

func word(v uint64) uint256.Int {
	return *uint256.NewInt(v)
}

// runSingleTx replays one trace through a fresh builder and fails the test on
// any build error.
func runSingleTx(t *testing.T, sdb *state.StateDB, tx types.Transaction, trace *types.ExecTrace) *CircuitInputBuilder {
	t.Helper()
	b := NewCircuitInputBuilder(sdb, Params{})
	require.NoError(t, b.HandleBlock([]types.Transaction{tx}, []*types.ExecTrace{trace}))
	return b
}

// stepOps resolves a step's operation references against the container.
func stepOps(b *CircuitInputBuilder, step *ExecStep) []operation.Operation {
	ops := make([]operation.Operation, 0, len(step.BusMappingInstance))
	for _, ref := range step.BusMappingInstance {
		ops = append(ops, *b.Block().Container.Get(ref))
	}
	return ops
}

// requireContiguousRWCs asserts the permutation invariant: counter values are
// exactly 1..N in creation order with no gaps.
func requireContiguousRWCs(t *testing.T, b *CircuitInputBuilder) {
	t.Helper()
	all := b.Block().Container.All()
	for i, op := range all {
		require.Equal(t, i+1, op.RWC, "operation %d out of sequence", i)
	}
}

// sstoreTrace is the canonical single-SSTORE trace: key word at memory offset
// 0, value word at offset 0x20.
func sstoreTrace(valueByte byte) *types.ExecTrace {
	mem := make(types.Memory, 0x40)
	mem[0x3f] = valueByte
	return &types.ExecTrace{StructLogs: []types.StructLog{
		{Op: types.SSTORE, Depth: 1, Stack: types.Stack{word(0x00), word(0x20)}, Memory: mem},
		{Op: types.STOP, Depth: 1, Memory: mem},
	}}
}

func TestHandleBlockLengthMismatch(t *testing.T) {
	b := NewCircuitInputBuilder(state.New(), Params{})
	err := b.HandleBlock([]types.Transaction{{}}, nil)
	require.ErrorIs(t, err, types.ErrInvalidTrace)
}

// Opcodes outside the dispatch table still yield one exec step, carrying no
// operations.
func TestUnknownOpcodeEmitsBareStep(t *testing.T) {
	trace := &types.ExecTrace{StructLogs: []types.StructLog{
		{Op: types.OpCode(0x01), Depth: 1, Pc: 7, Gas: 100, GasCost: 3},
	}}
	b := runSingleTx(t, state.New(), types.Transaction{}, trace)

	steps := b.Block().Txs[0].Steps
	require.Len(t, steps, 3)
	require.Equal(t, ExecStateBeginTx, steps[0].ExecState)
	require.Equal(t, ExecStateEndTx, steps[2].ExecState)

	step := steps[1]
	require.Equal(t, ExecStateOp, step.ExecState)
	require.Equal(t, types.OpCode(0x01), step.Op)
	require.Equal(t, uint64(7), step.PC)
	require.Empty(t, step.BusMappingInstance)
	require.Zero(t, b.Block().Container.Len())
}

func TestMissingLookaheadRejected(t *testing.T) {
	trace := &types.ExecTrace{StructLogs: []types.StructLog{
		{Op: types.SHA3, Depth: 1, Stack: types.Stack{word(0), word(0), word(0)}},
	}}
	b := NewCircuitInputBuilder(state.New(), Params{})
	err := b.HandleBlock([]types.Transaction{{}}, []*types.ExecTrace{trace})
	require.ErrorIs(t, err, types.ErrInvalidTrace)
}

func TestMaxRWsExceeded(t *testing.T) {
	b := NewCircuitInputBuilder(state.New(), Params{MaxRWs: 10})
	err := b.HandleBlock([]types.Transaction{{To: common.HexToAddress("0xcafe")}}, []*types.ExecTrace{sstoreTrace(0x6f)})
	require.ErrorIs(t, err, ErrMaxRWsExceeded)
}

// Warmth acquired in one transaction must not leak into the next.
func TestAccessListResetBetweenTransactions(t *testing.T) {
	contract := common.HexToAddress("0xcafe")
	txs := []types.Transaction{{To: contract}, {To: contract}}
	traces := []*types.ExecTrace{sstoreTrace(0x6f), sstoreTrace(0x70)}

	b := NewCircuitInputBuilder(state.New(), Params{})
	require.NoError(t, b.HandleBlock(txs, traces))

	alOps := b.Block().Container.TxAccessListAccountStorage
	require.Len(t, alOps, 2)
	for i, op := range alOps {
		slot := op.Op.(*operation.TxAccessListAccountStorageOp)
		require.Equal(t, i+1, slot.TxID)
		require.True(t, slot.IsWarm)
		require.False(t, slot.IsWarmPrev, "tx %d first access must be cold", i+1)
	}
	requireContiguousRWCs(t, b)
}
