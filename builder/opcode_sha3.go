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
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/wasm0/zkwasm-busmapping/params"
	"github.com/wasm0/zkwasm-busmapping/types"
)

// opSha3 hashes a window of the current call's memory and writes the digest
// back to memory. The digest is recomputed from the frame's own memory image;
// the lookahead snapshot only cross-checks it. The input window becomes one
// copy event plus one read operation per input byte.
func opSha3(st *CircuitInputStateRef, window []types.StructLog) (*ExecStep, error) {
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

	dest, err := cur.Stack.NthLast(0)
	if err != nil {
		return nil, err
	}
	if err := st.StackRead(step, cur.Stack.NthLastFilled(0), dest); err != nil {
		return nil, err
	}
	size, err := cur.Stack.NthLast(1)
	if err != nil {
		return nil, err
	}
	if err := st.StackRead(step, cur.Stack.NthLastFilled(1), size); err != nil {
		return nil, err
	}
	offset, err := cur.Stack.NthLast(2)
	if err != nil {
		return nil, err
	}
	if err := st.StackRead(step, cur.Stack.NthLastFilled(2), offset); err != nil {
		return nil, err
	}

	destAddr, err := memAddr(dest)
	if err != nil {
		return nil, err
	}
	srcAddr, err := memAddr(offset)
	if err != nil {
		return nil, err
	}
	if !size.IsUint64() {
		return nil, fmt.Errorf("%w: hash input size %s overflows", types.ErrOutOfRange, size.Hex())
	}
	n := int(size.Uint64())
	if n > 0 {
		ctx.memory.ExtendAtLeast(int(srcAddr) + n)
	}

	input := ctx.memory.ReadChunk(srcAddr, n)
	digest := crypto.Keccak256(input)
	if expected := window[1].Memory.ReadChunk(destAddr, params.WordByteLength); !bytes.Equal(digest, expected) {
		return nil, fmt.Errorf("%w: SHA3 digest mismatch at pc %d", types.ErrInvalidTrace, cur.Pc)
	}

	ctx.memory.ExtendAtLeast(int(destAddr) + params.WordByteLength)
	if err := st.MemoryWriteN(step, destAddr, digest); err != nil {
		return nil, err
	}

	rwcStart := st.RWCPeek()
	copied := make([]CopyByte, 0, n)
	for i, b := range input {
		if err := st.MemoryRead(step, srcAddr+types.MemoryAddress(i), b); err != nil {
			return nil, err
		}
		copied = append(copied, CopyByte{Value: b})
	}
	st.block.Sha3Inputs = append(st.block.Sha3Inputs, input)

	st.PushCopy(step, CopyEvent{
		SrcType:        CopyMemory,
		SrcID:          NumberID(call.CallID),
		SrcAddr:        uint64(srcAddr),
		SrcAddrEnd:     uint64(srcAddr) + uint64(n),
		DstType:        CopyRlcAcc,
		DstID:          NumberID(call.CallID),
		RWCounterStart: rwcStart,
		Bytes:          copied,
	})
	return step, nil
}
