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

// opCaller writes the 20 caller address bytes to memory at the destination
// pointer.
func opCaller(st *CircuitInputStateRef, window []types.StructLog) (*ExecStep, error) {
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

	st.CallContextRead(step, call.CallID, operation.CallerAddressField, addressWord(call.CallerAddress))

	dest, err := cur.Stack.NthLast(0)
	if err != nil {
		return nil, err
	}
	if err := st.StackRead(step, cur.Stack.NthLastFilled(0), dest); err != nil {
		return nil, err
	}
	destAddr, err := memAddr(dest)
	if err != nil {
		return nil, err
	}

	ctx.memory.ExtendAtLeast(int(destAddr) + common.AddressLength)
	if err := st.MemoryWriteN(step, destAddr, call.CallerAddress.Bytes()); err != nil {
		return nil, err
	}
	return step, nil
}

// opCallValue writes the 32-byte transferred value to memory at the
// destination pointer.
func opCallValue(st *CircuitInputStateRef, window []types.StructLog) (*ExecStep, error) {
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

	value := *call.Value
	st.CallContextRead(step, call.CallID, operation.ValueField, value)

	dest, err := cur.Stack.NthLast(0)
	if err != nil {
		return nil, err
	}
	if err := st.StackRead(step, cur.Stack.NthLastFilled(0), dest); err != nil {
		return nil, err
	}
	destAddr, err := memAddr(dest)
	if err != nil {
		return nil, err
	}

	word := value.Bytes32()
	ctx.memory.ExtendAtLeast(int(destAddr) + params.WordByteLength)
	if err := st.MemoryWriteN(step, destAddr, word[:]); err != nil {
		return nil, err
	}
	return step, nil
}
