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
	"github.com/wasm0/zkwasm-busmapping/types"
)

// opSstore writes a storage slot. Key and value are word pointers into the
// frame's linear memory. The storage write, the slot's warm transition and
// the refund update are all reversible; the key and value bytes are read
// back so the circuit can bind the pointers to their words.
func opSstore(st *CircuitInputStateRef, window []types.StructLog) (*ExecStep, error) {
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
	st.CallContextRead(step, call.CallID, operation.IsStaticField, boolWord(call.IsStatic))
	st.CallContextRead(step, call.CallID, operation.RwCounterEndOfReversionField, u64Word(uint64(call.RwCounterEndOfReversion)))
	st.CallContextRead(step, call.CallID, operation.IsPersistentField, boolWord(call.IsPersistent))
	st.CallContextRead(step, call.CallID, operation.CalleeAddressField, addressWord(contract))

	valueOffset, err := cur.Stack.NthLast(0)
	if err != nil {
		return nil, err
	}
	if err := st.StackRead(step, cur.Stack.NthLastFilled(0), valueOffset); err != nil {
		return nil, err
	}
	keyOffset, err := cur.Stack.NthLast(1)
	if err != nil {
		return nil, err
	}
	if err := st.StackRead(step, cur.Stack.NthLastFilled(1), keyOffset); err != nil {
		return nil, err
	}

	valueAddr, err := memAddr(valueOffset)
	if err != nil {
		return nil, err
	}
	keyAddr, err := memAddr(keyOffset)
	if err != nil {
		return nil, err
	}
	keyWord := ctx.memory.ReadWord(keyAddr)
	valueWord := ctx.memory.ReadWord(valueAddr)
	key := common.Hash(keyWord.Bytes32())
	value := common.Hash(valueWord.Bytes32())

	isWarm := st.StateDB().SlotInAccessList(contract, key)
	valuePrev := st.StateDB().GetState(contract, key)
	committed := st.StateDB().GetCommittedState(contract, key)

	if err := st.PushOpReversible(step, &operation.StorageOp{
		Address:        contract,
		Key:            key,
		Value:          value,
		ValuePrev:      valuePrev,
		TxID:           st.TxID(),
		CommittedValue: committed,
	}); err != nil {
		return nil, err
	}
	if err := st.PushOpReversible(step, &operation.TxAccessListAccountStorageOp{
		TxID:       st.TxID(),
		Address:    contract,
		Key:        key,
		IsWarm:     true,
		IsWarmPrev: isWarm,
	}); err != nil {
		return nil, err
	}
	if err := st.PushOpReversible(step, &operation.TxRefundOp{
		TxID:      st.TxID(),
		Value:     cur.Refund,
		ValuePrev: st.StateDB().Refund(),
	}); err != nil {
		return nil, err
	}

	if err := st.MemoryReadN(step, keyAddr, key.Bytes()); err != nil {
		return nil, err
	}
	if err := st.MemoryReadN(step, valueAddr, value.Bytes()); err != nil {
		return nil, err
	}
	return step, nil
}
