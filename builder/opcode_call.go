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
	"fmt"

	"github.com/holiman/uint256"

	"github.com/wasm0/zkwasm-busmapping/operation"
	"github.com/wasm0/zkwasm-busmapping/types"
)

// opCall records the call operands, the callee's warm transition, and opens
// the child frame. The callee address and transferred value are word pointers
// into the caller's memory; the child's call data is the argument window
// sliced out of it. The child frame's memory image is seeded from the
// lookahead snapshot, which already reflects the callee's data sections.
//
// The child's outcome is known up front from the pre-scanned trace, so its
// persistence flag is final the moment the frame opens.
func opCall(st *CircuitInputStateRef, window []types.StructLog) (*ExecStep, error) {
	if err := requireLookahead(window); err != nil {
		return nil, err
	}
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

	var operands [7]uint256.Int
	for i := 0; i < len(operands); i++ {
		v, err := cur.Stack.NthLast(i)
		if err != nil {
			return nil, err
		}
		if err := st.StackRead(step, cur.Stack.NthLastFilled(i), v); err != nil {
			return nil, err
		}
		operands[i] = v
	}
	addrPtr, valuePtr := operands[1], operands[2]
	argsOffset, argsLength := operands[3], operands[4]

	addrAddr, err := memAddr(addrPtr)
	if err != nil {
		return nil, err
	}
	valueAddr, err := memAddr(valuePtr)
	if err != nil {
		return nil, err
	}
	argsAddr, err := memAddr(argsOffset)
	if err != nil {
		return nil, err
	}
	if !argsLength.IsUint64() {
		return nil, fmt.Errorf("%w: call argument length %s overflows", types.ErrOutOfRange, argsLength.Hex())
	}
	callee := ctx.memory.ReadAddress(addrAddr)
	value := ctx.memory.ReadWord(valueAddr)

	st.CallContextRead(step, call.CallID, operation.TxIDField, u64Word(uint64(st.TxID())))
	st.CallContextRead(step, call.CallID, operation.RwCounterEndOfReversionField, u64Word(uint64(call.RwCounterEndOfReversion)))
	st.CallContextRead(step, call.CallID, operation.IsPersistentField, boolWord(call.IsPersistent))

	isWarm := st.StateDB().AddressInAccessList(callee)
	if err := st.PushOpReversible(step, &operation.TxAccessListAccountOp{
		TxID:       st.TxID(),
		Address:    callee,
		IsWarm:     true,
		IsWarmPrev: isWarm,
	}); err != nil {
		return nil, err
	}

	success, err := st.txCtx.nextCallSuccess()
	if err != nil {
		return nil, err
	}
	callData := ctx.memory.ReadChunk(argsAddr, int(argsLength.Uint64()))
	st.pushCall(Call{
		CallID:         st.blockCtx.allocCallID(),
		CallerID:       call.CallID,
		IsStatic:       call.IsStatic,
		IsSuccess:      success,
		IsPersistent:   success && call.IsPersistent,
		Address:        callee,
		CallerAddress:  call.Address,
		Value:          &value,
		CallDataOffset: uint64(argsAddr),
		CallDataLength: argsLength.Uint64(),
	}, callData, window[1].Memory.Copy())

	return step, nil
}
