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
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/wasm0/zkwasm-busmapping/operation"
	"github.com/wasm0/zkwasm-busmapping/params"
	"github.com/wasm0/zkwasm-busmapping/types"
)

// opCallDataLoad loads a 32-byte window of the call data and writes it to
// memory at the destination pointer. The word is recomputed from the call's
// own call data, right zero-padded past its end; the lookahead snapshot only
// cross-checks it. In an internal call the in-range source bytes are read
// from the caller's memory, one operation per byte.
func opCallDataLoad(st *CircuitInputStateRef, window []types.StructLog) (*ExecStep, error) {
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

	index, err := cur.Stack.NthLast(1)
	if err != nil {
		return nil, err
	}
	if err := st.StackRead(step, cur.Stack.NthLastFilled(1), index); err != nil {
		return nil, err
	}

	if call.IsRoot {
		st.CallContextRead(step, call.CallID, operation.TxIDField, u64Word(uint64(st.TxID())))
		st.CallContextRead(step, call.CallID, operation.CallDataLengthField, u64Word(call.CallDataLength))
	} else {
		st.CallContextRead(step, call.CallID, operation.CallerIDField, u64Word(uint64(call.CallerID)))
		st.CallContextRead(step, call.CallID, operation.CallDataLengthField, u64Word(call.CallDataLength))
		st.CallContextRead(step, call.CallID, operation.CallDataOffsetField, u64Word(call.CallDataOffset))
	}

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
	srcIndex, err := memAddr(index)
	if err != nil {
		return nil, err
	}

	var word [params.WordByteLength]byte
	for i := 0; i < params.WordByteLength; i++ {
		idx := uint64(srcIndex) + uint64(i)
		if idx >= call.CallDataLength {
			continue
		}
		b := ctx.callData[idx]
		word[i] = b
		if !call.IsRoot {
			// Call data of an internal call lives in the caller's memory.
			st.PushOp(step, operation.READ, &operation.MemoryOp{
				CallID:  call.CallerID,
				Address: types.MemoryAddress(call.CallDataOffset + idx),
				Value:   b,
			})
		}
	}

	if expected := window[1].Memory.ReadChunk(destAddr, params.WordByteLength); !bytes.Equal(word[:], expected) {
		return nil, fmt.Errorf("%w: CALLDATALOAD result mismatch at pc %d", types.ErrInvalidTrace, cur.Pc)
	}

	ctx.memory.ExtendAtLeast(int(destAddr) + params.WordByteLength)
	if err := st.MemoryWriteN(step, destAddr, word[:]); err != nil {
		return nil, err
	}
	return step, nil
}

// opCallDataSize writes the big-endian call data length to memory at the
// destination pointer.
func opCallDataSize(st *CircuitInputStateRef, window []types.StructLog) (*ExecStep, error) {
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

	st.CallContextRead(step, call.CallID, operation.CallDataLengthField, u64Word(call.CallDataLength))

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

	var size [params.CodeSizeByteLength]byte
	binary.BigEndian.PutUint32(size[:], uint32(call.CallDataLength))
	ctx.memory.ExtendAtLeast(int(destAddr) + params.CodeSizeByteLength)
	if err := st.MemoryWriteN(step, destAddr, size[:]); err != nil {
		return nil, err
	}
	return step, nil
}
