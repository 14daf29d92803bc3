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
	"github.com/ethereum/go-ethereum/common"

	"github.com/wasm0/zkwasm-busmapping/operation"
	"github.com/wasm0/zkwasm-busmapping/params"
	"github.com/wasm0/zkwasm-busmapping/types"
)

// opSload loads a storage slot. The key is a word pointer into the frame's
// memory; the loaded word is written back to memory at the destination
// pointer. The slot's warm transition is a reversible write.
func opSload(st *CircuitInputStateRef, window []types.StructLog) (*ExecStep, error) {
	cur := &window[0]
	step, err := st.NewStep(cur)
	if err != nil {
		return nil, err
	}
	call, err := st.Call()
	if err != nil {
		return nil, err
	}
	ctx, err := st.CallCtx()
	if err != nil {
		return nil, err
	}
	contract := call.Address

	st.CallContextRead(step, call.CallID, operation.TxIDField, u64Word(uint64(st.TxID())))
	st.CallContextRead(step, call.CallID, operation.RwCounterEndOfReversionField, u64Word(uint64(call.RwCounterEndOfReversion)))
	st.CallContextRead(step, call.CallID, operation.IsPersistentField, boolWord(call.IsPersistent))
	st.CallContextRead(step, call.CallID, operation.CalleeAddressField, addressWord(contract))

	destOffset, err := cur.Stack.NthLast(0)
	if err != nil {
		return nil, err
	}
	if err := st.StackRead(step, cur.Stack.NthLastFilled(0), destOffset); err != nil {
		return nil, err
	}
	keyOffset, err := cur.Stack.NthLast(1)
	if err != nil {
		return nil, err
	}
	if err := st.StackRead(step, cur.Stack.NthLastFilled(1), keyOffset); err != nil {
		return nil, err
	}

	destAddr, err := memAddr(destOffset)
	if err != nil {
		return nil, err
	}
	keyAddr, err := memAddr(keyOffset)
	if err != nil {
		return nil, err
	}
	keyWord := ctx.memory.ReadWord(keyAddr)
	key := common.Hash(keyWord.Bytes32())

	value := st.StateDB().GetState(contract, key)
	committed := st.StateDB().GetCommittedState(contract, key)
	st.StorageRead(step, contract, key, value, committed)

	isWarm := st.StateDB().SlotInAccessList(contract, key)
	if err := st.PushOpReversible(step, &operation.TxAccessListAccountStorageOp{
		TxID:       st.TxID(),
		Address:    contract,
		Key:        key,
		IsWarm:     true,
		IsWarmPrev: isWarm,
	}); err != nil {
		return nil, err
	}

	ctx.memory.ExtendAtLeast(int(destAddr) + params.WordByteLength)
	if err := st.MemoryWriteN(step, destAddr, value.Bytes()); err != nil {
		return nil, err
	}
	if err := st.MemoryReadN(step, keyAddr, key.Bytes()); err != nil {
		return nil, err
	}
	return step, nil
}
