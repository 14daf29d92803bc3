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

	"github.com/wasm0/zkwasm-busmapping/operation"
	"github.com/wasm0/zkwasm-busmapping/types"
)

// blockContext carries the global counters of one block build.
type blockContext struct {
	rwc        *operation.RWCounter
	nextCallID int
}

func newBlockContext() *blockContext {
	return &blockContext{rwc: operation.NewRWCounter(), nextCallID: 1}
}

func (bc *blockContext) allocCallID() int {
	id := bc.nextCallID
	bc.nextCallID++
	return id
}

// transactionContext tracks the live call stack of one transaction replay
// plus the pre-scanned outcome of every frame the trace will open.
type transactionContext struct {
	id int

	// callIsSuccess holds one entry per frame in open order; entry 0 is the
	// root call. Scanned from the full trace before replay starts so that
	// IsPersistent is known the moment a frame opens.
	callIsSuccess []bool
	nextCall      int

	// calls is the live frame stack, innermost last.
	calls []*callContext
}

func newTransactionContext(id int, trace *types.ExecTrace) *transactionContext {
	return &transactionContext{
		id:            id,
		callIsSuccess: scanCallSuccess(trace),
	}
}

// nextCallSuccess consumes the pre-scanned outcome of the next frame to open.
func (tc *transactionContext) nextCallSuccess() (bool, error) {
	if tc.nextCall >= len(tc.callIsSuccess) {
		return false, fmt.Errorf("%w: depth increased beyond the scanned call count", types.ErrInvalidTrace)
	}
	ok := tc.callIsSuccess[tc.nextCall]
	tc.nextCall++
	return ok, nil
}

// callCtx returns the innermost live frame.
func (tc *transactionContext) callCtx() (*callContext, error) {
	if len(tc.calls) == 0 {
		return nil, fmt.Errorf("%w: no live call frame", types.ErrInvalidTrace)
	}
	return tc.calls[len(tc.calls)-1], nil
}

// parentCtx returns the frame enclosing the innermost one, if any.
func (tc *transactionContext) parentCtx() *callContext {
	if len(tc.calls) < 2 {
		return nil
	}
	return tc.calls[len(tc.calls)-2]
}

func (tc *transactionContext) push(ctx *callContext) {
	tc.calls = append(tc.calls, ctx)
}

func (tc *transactionContext) pop() {
	tc.calls = tc.calls[:len(tc.calls)-1]
}

// scanCallSuccess walks the whole trace once and determines, per frame in
// open order, whether the frame completes successfully. A frame fails when
// its closing step is a REVERT or carries an interpreter error. The root
// frame's outcome comes from the trace envelope.
func scanCallSuccess(trace *types.ExecTrace) []bool {
	success := []bool{!trace.Failed}
	logs := trace.StructLogs

	var open []int
	for i := range logs {
		if i+1 < len(logs) && logs[i+1].Depth == logs[i].Depth+1 {
			success = append(success, true)
			open = append(open, len(success)-1)
		}
		closes := 0
		if i+1 < len(logs) && logs[i+1].Depth < logs[i].Depth {
			closes = logs[i].Depth - logs[i+1].Depth
		} else if i+1 == len(logs) {
			closes = len(open)
		}
		for j := 0; j < closes && len(open) > 0; j++ {
			idx := open[len(open)-1]
			open = open[:len(open)-1]
			success[idx] = logs[i].Op != types.REVERT && logs[i].Err == ""
		}
	}
	return success
}
