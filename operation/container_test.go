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

package operation

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestRWCounterStartsAtOne(t *testing.T) {
	c := NewRWCounter()
	require.Equal(t, 1, c.Peek())
	require.Equal(t, 1, c.Inc())
	require.Equal(t, 2, c.Inc())
	require.Equal(t, 3, c.Peek())
}

func TestContainerInsertAndGet(t *testing.T) {
	c := NewContainer()
	rwc := NewRWCounter()

	refStack := c.Insert(Operation{RWC: rwc.Inc(), RW: READ, Op: &StackOp{CallID: 1, Address: 1023, Value: *uint256.NewInt(7)}})
	refMem := c.Insert(Operation{RWC: rwc.Inc(), RW: WRITE, Op: &MemoryOp{CallID: 1, Address: 0, Value: 0xff}})
	refCC := c.Insert(Operation{RWC: rwc.Inc(), RW: READ, Op: &CallContextOp{CallID: 1, Field: TxIDField, Value: *uint256.NewInt(1)}})

	require.Equal(t, OperationRef{Target: TargetStack, Index: 0}, refStack)
	require.Equal(t, OperationRef{Target: TargetMemory, Index: 0}, refMem)
	require.Equal(t, OperationRef{Target: TargetCallContext, Index: 0}, refCC)
	require.Equal(t, 3, c.Len())

	got := c.Get(refMem)
	require.Equal(t, 2, got.RWC)
	require.True(t, got.RW.IsWrite())
}

// Reversion patching rewrites stored values through the pointer Get returns,
// so the pointer must alias the container's backing array.
func TestContainerGetAliasesStorage(t *testing.T) {
	c := NewContainer()
	ref := c.Insert(Operation{RWC: 1, RW: READ, Op: &CallContextOp{CallID: 1, Field: RwCounterEndOfReversionField}})

	op := c.Get(ref).Op.(*CallContextOp)
	op.Value = *uint256.NewInt(42)

	require.Equal(t, *uint256.NewInt(42), c.Get(ref).Op.(*CallContextOp).Value)
}

// Log and receipt operations route to their own vectors; the builder's EndTx
// consumers fill these once transaction-level witness assembly runs.
func TestContainerLogAndReceiptVectors(t *testing.T) {
	c := NewContainer()

	refLog := c.Insert(Operation{RWC: 1, RW: WRITE, Op: &TxLogOp{
		TxID:  1,
		LogID: 1,
		Field: TxLogTopic,
		Index: 0,
		Value: *uint256.NewInt(0xbeef),
	}})
	refReceipt := c.Insert(Operation{RWC: 2, RW: READ, Op: &TxReceiptOp{
		TxID:  1,
		Field: TxReceiptLogLength,
		Value: 1,
	}})

	require.Equal(t, OperationRef{Target: TargetTxLog, Index: 0}, refLog)
	require.Equal(t, OperationRef{Target: TargetTxReceipt, Index: 0}, refReceipt)
	require.Len(t, c.TxLog, 1)
	require.Len(t, c.TxReceipt, 1)
	require.Equal(t, 2, c.Len())
}

func TestContainerAllSortedByCounter(t *testing.T) {
	c := NewContainer()
	// Insert across vectors in shuffled counter order.
	c.Insert(Operation{RWC: 3, Op: &StackOp{}})
	c.Insert(Operation{RWC: 1, Op: &MemoryOp{}})
	c.Insert(Operation{RWC: 4, Op: &StorageOp{}})
	c.Insert(Operation{RWC: 2, Op: &StackOp{}})

	all := c.All()
	require.Len(t, all, 4)
	for i, op := range all {
		require.Equal(t, i+1, op.RWC)
	}
}

func TestReverseSwapsValueAndPrev(t *testing.T) {
	addr := common.HexToAddress("0xcafe")
	key := common.HexToHash("0x01")

	st := &StorageOp{Address: addr, Key: key, Value: common.HexToHash("0x02"), ValuePrev: common.HexToHash("0x03"), TxID: 1}
	rev := st.Reverse().(*StorageOp)
	require.Equal(t, st.ValuePrev, rev.Value)
	require.Equal(t, st.Value, rev.ValuePrev)
	require.Equal(t, st.Address, rev.Address)
	require.Equal(t, st.Key, rev.Key)

	al := &TxAccessListAccountStorageOp{TxID: 1, Address: addr, Key: key, IsWarm: true, IsWarmPrev: false}
	alRev := al.Reverse().(*TxAccessListAccountStorageOp)
	require.False(t, alRev.IsWarm)
	require.True(t, alRev.IsWarmPrev)

	rf := &TxRefundOp{TxID: 1, Value: 100, ValuePrev: 40}
	rfRev := rf.Reverse().(*TxRefundOp)
	require.Equal(t, uint64(40), rfRev.Value)
	require.Equal(t, uint64(100), rfRev.ValuePrev)
}
