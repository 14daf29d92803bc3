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
	"github.com/holiman/uint256"

	"github.com/wasm0/zkwasm-busmapping/operation"
	"github.com/wasm0/zkwasm-busmapping/types"
)

// Call is one call frame of the witness, created when the frame opens.
//
// IsSuccess is known at open time because frame outcomes are pre-scanned from
// the trace, so IsPersistent (this frame and every ancestor succeed) is fixed
// before the first operation of the frame is emitted.
// RwCounterEndOfReversion stays zero for persistent frames; for frames whose
// writes get reverted it is assigned when the reversion section is
// materialized, and every operation that read it earlier is patched to the
// final value.
type Call struct {
	CallID   int
	CallerID int
	Index    int

	IsRoot       bool
	IsStatic     bool
	IsSuccess    bool
	IsPersistent bool

	Address       common.Address
	CallerAddress common.Address
	Value         *uint256.Int

	CallDataOffset uint64
	CallDataLength uint64

	RwCounterEndOfReversion int
	ReversibleWriteCounter  int
}

// pendingOp is one not-yet-materialized undo write.
type pendingOp struct {
	callIndex int
	op        operation.ReversibleOp
}

// callContext is the builder-side mutable companion of a Call: the frame's
// linear memory image, its call data window and the bookkeeping needed to
// materialize a reversion section.
type callContext struct {
	index    int
	callData []byte
	memory   types.Memory

	// pendingUndo holds undo payloads in forward (creation) order for this
	// frame and for completed non-persistent children that transferred
	// theirs here.
	pendingUndo []pendingOp

	// eorRefs are the container positions of RwCounterEndOfReversion reads
	// that must be patched once the reversion section is placed.
	eorRefs []operation.OperationRef

	// groupCalls lists every call index sharing this frame's reversion
	// section: the frame itself plus transferred children.
	groupCalls []int
}
