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
	"github.com/wasm0/zkwasm-busmapping/operation"
	"github.com/wasm0/zkwasm-busmapping/types"
)

// ExecState classifies an execution step of the witness.
type ExecState uint8

const (
	ExecStateBeginTx ExecState = iota
	ExecStateEndTx
	ExecStateOp
)

func (s ExecState) String() string {
	switch s {
	case ExecStateBeginTx:
		return "BeginTx"
	case ExecStateEndTx:
		return "EndTx"
	case ExecStateOp:
		return "Op"
	}
	return "Unknown"
}

// ExecStep is one executed instruction together with the ordered references
// to every operation it appended to the container.
type ExecStep struct {
	ExecState ExecState
	Op        types.OpCode

	PC         uint64
	StackSize  int
	MemorySize int
	GasLeft    uint64
	GasCost    uint64

	// RWCounter is the counter value at step start; the step's operations
	// occupy a contiguous counter range beginning here.
	RWCounter int
	CallIndex int

	// BusMappingInstance references, in emission order, every operation this
	// step created.
	BusMappingInstance []operation.OperationRef

	// ReversibleWriteCounterDelta counts the reversible writes this step
	// contributed to its frame.
	ReversibleWriteCounterDelta int

	// CopyRWCounterDelta counts the operations consumed by copy events this
	// step produced.
	CopyRWCounterDelta int
}
