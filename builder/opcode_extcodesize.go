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

	"github.com/holiman/uint256"

	"github.com/wasm0/zkwasm-busmapping/operation"
	"github.com/wasm0/zkwasm-busmapping/params"
	"github.com/wasm0/zkwasm-busmapping/types"
)

// opExtCodeSize reads the code size of an account whose 20-byte address sits
// in memory and writes the big-endian size to memory at the destination
// pointer. The account's warm transition is a reversible write.
func opExtCodeSize(st *CircuitInputStateRef, window []types.StructLog) (*ExecStep, error) {
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

	addrPtr, err := cur.Stack.NthLast(1)
	if err != nil {
		return nil, err
	}
	if err := st.StackRead(step, cur.Stack.NthLastFilled(1), addrPtr); err != nil {
		return nil, err
	}
	addrAddr, err := memAddr(addrPtr)
	if err != nil {
		return nil, err
	}
	account := ctx.memory.ReadAddress(addrAddr)

	st.CallContextRead(step, call.CallID, operation.TxIDField, u64Word(uint64(st.TxID())))
	st.CallContextRead(step, call.CallID, operation.RwCounterEndOfReversionField, u64Word(uint64(call.RwCounterEndOfReversion)))
	st.CallContextRead(step, call.CallID, operation.IsPersistentField, boolWord(call.IsPersistent))

	isWarm := st.StateDB().AddressInAccessList(account)
	if err := st.PushOpReversible(step, &operation.TxAccessListAccountOp{
		TxID:       st.TxID(),
		Address:    account,
		IsWarm:     true,
		IsWarmPrev: isWarm,
	}); err != nil {
		return nil, err
	}

	var codeHash uint256.Int
	var codeSize int
	if acc, ok := st.StateDB().GetAccount(account); ok {
		codeHash.SetBytes(acc.CodeHash.Bytes())
		codeSize = st.StateDB().GetCodeSize(acc.CodeHash)
	}
	st.AccountRead(step, account, operation.AccountCodeHash, codeHash)

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
	binary.BigEndian.PutUint32(size[:], uint32(codeSize))
	if expected := window[1].Memory.ReadChunk(destAddr, params.CodeSizeByteLength); !bytes.Equal(size[:], expected) {
		return nil, fmt.Errorf("%w: EXTCODESIZE result mismatch at pc %d", types.ErrInvalidTrace, cur.Pc)
	}

	ctx.memory.ExtendAtLeast(int(destAddr) + params.CodeSizeByteLength)
	if err := st.MemoryWriteN(step, destAddr, size[:]); err != nil {
		return nil, err
	}
	return step, nil
}
