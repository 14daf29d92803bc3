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

	"github.com/wasm0/zkwasm-busmapping/types"
)

// handlerFunc translates one traced instruction into its exec step plus the
// opcode's canonical operation sequence. The window starts at the
// instruction's own snapshot; handlers that cross-check against the
// post-effect state index the lookahead entry.
type handlerFunc func(st *CircuitInputStateRef, window []types.StructLog) (*ExecStep, error)

var jumpTable = [256]handlerFunc{
	types.STOP:         opStop,
	types.SHA3:         opSha3,
	types.CALLER:       opCaller,
	types.CALLVALUE:    opCallValue,
	types.CALLDATALOAD: opCallDataLoad,
	types.CALLDATASIZE: opCallDataSize,
	types.EXTCODESIZE:  opExtCodeSize,
	types.SLOAD:        opSload,
	types.SSTORE:       opSstore,
	types.CALL:         opCall,
	types.RETURN:       opReturnRevert,
	types.REVERT:       opReturnRevert,
}

// handlerFor selects the handler for an opcode; untracked opcodes still
// produce a step, with no operations attached.
func handlerFor(op types.OpCode) handlerFunc {
	if h := jumpTable[op]; h != nil {
		return h
	}
	return opNoop
}

// requireLookahead guards handlers that consult the post-effect snapshot.
func requireLookahead(window []types.StructLog) error {
	if len(window) < 2 {
		return fmt.Errorf("%w: %v requires a lookahead entry", types.ErrInvalidTrace, window[0].Op)
	}
	return nil
}

// opNoop covers opcodes whose effects the circuit proves without bus-mapping
// operations (pure arithmetic and control flow).
func opNoop(st *CircuitInputStateRef, window []types.StructLog) (*ExecStep, error) {
	return st.NewStep(&window[0])
}

func opStop(st *CircuitInputStateRef, window []types.StructLog) (*ExecStep, error) {
	return st.NewStep(&window[0])
}

// opReturnRevert records the memory range operands of RETURN and REVERT.
// Frame completion, including reversion placement, is the driver's job.
func opReturnRevert(st *CircuitInputStateRef, window []types.StructLog) (*ExecStep, error) {
	cur := &window[0]
	step, err := st.NewStep(cur)
	if err != nil {
		return nil, err
	}
	offset, err := cur.Stack.NthLast(0)
	if err != nil {
		return nil, err
	}
	if err := st.StackRead(step, cur.Stack.NthLastFilled(0), offset); err != nil {
		return nil, err
	}
	size, err := cur.Stack.NthLast(1)
	if err != nil {
		return nil, err
	}
	if err := st.StackRead(step, cur.Stack.NthLastFilled(1), size); err != nil {
		return nil, err
	}
	return step, nil
}
