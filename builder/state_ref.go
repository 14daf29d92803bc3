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

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/wasm0/zkwasm-busmapping/operation"
	"github.com/wasm0/zkwasm-busmapping/params"
	"github.com/wasm0/zkwasm-busmapping/state"
	"github.com/wasm0/zkwasm-busmapping/types"
)

// CircuitInputStateRef is the exclusive gateway handlers use to read and
// mutate builder state. Every primitive atomically validates the access,
// allocates the next RW counter value, appends the operation to the container
// and records its reference on the current ExecStep, in call order.
type CircuitInputStateRef struct {
	sdb      *state.StateDB
	block    *Block
	blockCtx *blockContext
	tx       *Transaction
	txCtx    *transactionContext
}

// Call returns the current call frame of the witness.
func (st *CircuitInputStateRef) Call() (*Call, error) {
	ctx, err := st.txCtx.callCtx()
	if err != nil {
		return nil, err
	}
	return &st.tx.Calls[ctx.index], nil
}

// CallCtx returns the builder-side context of the current frame.
func (st *CircuitInputStateRef) CallCtx() (*callContext, error) {
	return st.txCtx.callCtx()
}

// StateDB exposes the backing state snapshot, read-only by convention for
// handlers: every mutation goes through PushOpReversible.
func (st *CircuitInputStateRef) StateDB() *state.StateDB {
	return st.sdb
}

// TxID returns the one-based id of the transaction being replayed.
func (st *CircuitInputStateRef) TxID() int {
	return st.txCtx.id
}

// RWCPeek returns the counter value the next operation will consume.
func (st *CircuitInputStateRef) RWCPeek() int {
	return st.blockCtx.rwc.Peek()
}

// NewStep seeds an ExecStep from the current trace snapshot.
func (st *CircuitInputStateRef) NewStep(sl *types.StructLog) (*ExecStep, error) {
	ctx, err := st.txCtx.callCtx()
	if err != nil {
		return nil, err
	}
	return &ExecStep{
		ExecState:  ExecStateOp,
		Op:         sl.Op,
		PC:         sl.Pc,
		StackSize:  len(sl.Stack),
		MemorySize: ctx.memory.Len(),
		GasLeft:    sl.Gas,
		GasCost:    sl.GasCost,
		RWCounter:  st.blockCtx.rwc.Peek(),
		CallIndex:  ctx.index,
	}, nil
}

// PushOp allocates the next counter value, appends the operation and records
// its reference on the step.
func (st *CircuitInputStateRef) PushOp(step *ExecStep, rw operation.RW, op operation.Op) operation.OperationRef {
	return st.pushOp(step, rw, op, false)
}

func (st *CircuitInputStateRef) pushOp(step *ExecStep, rw operation.RW, op operation.Op, reversible bool) operation.OperationRef {
	ref := st.block.Container.Insert(operation.Operation{
		RWC:        st.blockCtx.rwc.Inc(),
		RW:         rw,
		Reversible: reversible,
		Op:         op,
	})
	step.BusMappingInstance = append(step.BusMappingInstance, ref)
	opsAppendedCounter.Inc(1)
	return ref
}

// StackRead emits a read of one stack slot of the current call.
func (st *CircuitInputStateRef) StackRead(step *ExecStep, addr types.StackAddress, value uint256.Int) error {
	call, err := st.Call()
	if err != nil {
		return err
	}
	if addr < 0 || addr >= params.StackLimit {
		return fmt.Errorf("%w: stack address %d", types.ErrOutOfRange, addr)
	}
	st.PushOp(step, operation.READ, &operation.StackOp{CallID: call.CallID, Address: addr, Value: value})
	return nil
}

// StackWrite emits a write of one stack slot of the current call.
func (st *CircuitInputStateRef) StackWrite(step *ExecStep, addr types.StackAddress, value uint256.Int) error {
	call, err := st.Call()
	if err != nil {
		return err
	}
	if addr < 0 || addr >= params.StackLimit {
		return fmt.Errorf("%w: stack address %d", types.ErrOutOfRange, addr)
	}
	st.PushOp(step, operation.WRITE, &operation.StackOp{CallID: call.CallID, Address: addr, Value: value})
	return nil
}

// MemoryRead emits a read of one byte of the current call's memory. The
// address must already be covered by the frame's tracked growth.
func (st *CircuitInputStateRef) MemoryRead(step *ExecStep, addr types.MemoryAddress, value byte) error {
	call, err := st.Call()
	if err != nil {
		return err
	}
	ctx, _ := st.txCtx.callCtx()
	if int(addr) >= ctx.memory.Len() {
		return fmt.Errorf("%w: memory read at %d beyond size %d", types.ErrOutOfRange, addr, ctx.memory.Len())
	}
	st.PushOp(step, operation.READ, &operation.MemoryOp{CallID: call.CallID, Address: addr, Value: value})
	return nil
}

// MemoryWrite emits a write of one byte of the current call's memory and
// applies it to the frame's memory image. Handlers extend the memory before
// writing past the current size.
func (st *CircuitInputStateRef) MemoryWrite(step *ExecStep, addr types.MemoryAddress, value byte) error {
	call, err := st.Call()
	if err != nil {
		return err
	}
	ctx, _ := st.txCtx.callCtx()
	if int(addr) >= ctx.memory.Len() {
		return fmt.Errorf("%w: memory write at %d beyond size %d", types.ErrOutOfRange, addr, ctx.memory.Len())
	}
	ctx.memory[addr] = value
	st.PushOp(step, operation.WRITE, &operation.MemoryOp{CallID: call.CallID, Address: addr, Value: value})
	return nil
}

// MemoryReadN emits one read per byte of the run starting at addr.
func (st *CircuitInputStateRef) MemoryReadN(step *ExecStep, addr types.MemoryAddress, values []byte) error {
	for i, b := range values {
		if err := st.MemoryRead(step, addr+types.MemoryAddress(i), b); err != nil {
			return err
		}
	}
	return nil
}

// MemoryWriteN emits one write per byte of the run starting at addr.
func (st *CircuitInputStateRef) MemoryWriteN(step *ExecStep, addr types.MemoryAddress, values []byte) error {
	for i, b := range values {
		if err := st.MemoryWrite(step, addr+types.MemoryAddress(i), b); err != nil {
			return err
		}
	}
	return nil
}

// CallContextRead emits a read of one call frame attribute. Reads of
// RwCounterEndOfReversion are recorded for later patching, since the final
// value is only known once the frame's reversion section is placed.
func (st *CircuitInputStateRef) CallContextRead(step *ExecStep, callID int, field operation.CallContextField, value uint256.Int) {
	ref := st.PushOp(step, operation.READ, &operation.CallContextOp{CallID: callID, Field: field, Value: value})
	if field == operation.RwCounterEndOfReversionField {
		if ctx, err := st.txCtx.callCtx(); err == nil {
			ctx.eorRefs = append(ctx.eorRefs, ref)
		}
	}
}

// CallContextWrite emits a write of one call frame attribute.
func (st *CircuitInputStateRef) CallContextWrite(step *ExecStep, callID int, field operation.CallContextField, value uint256.Int) {
	st.PushOp(step, operation.WRITE, &operation.CallContextOp{CallID: callID, Field: field, Value: value})
}

// StorageRead emits a non-mutating read of one storage slot.
func (st *CircuitInputStateRef) StorageRead(step *ExecStep, addr common.Address, key, value, committed common.Hash) {
	st.PushOp(step, operation.READ, &operation.StorageOp{
		Address:        addr,
		Key:            key,
		Value:          value,
		ValuePrev:      value,
		TxID:           st.txCtx.id,
		CommittedValue: committed,
	})
}

// AccountRead emits a non-mutating read of one account attribute.
func (st *CircuitInputStateRef) AccountRead(step *ExecStep, addr common.Address, field operation.AccountField, value uint256.Int) {
	st.PushOp(step, operation.READ, &operation.AccountOp{Address: addr, Field: field, Value: value, ValuePrev: value})
}

// PushOpReversible applies the write to the state snapshot and appends it. If
// the current frame is not persistent the mirrored undo payload is enqueued
// against the frame's future reversion section and the frame's reversible
// write counter advances.
func (st *CircuitInputStateRef) PushOpReversible(step *ExecStep, op operation.ReversibleOp) error {
	call, err := st.Call()
	if err != nil {
		return err
	}
	st.applyOp(op)
	st.pushOp(step, operation.WRITE, op, true)
	if !call.IsPersistent {
		ctx, _ := st.txCtx.callCtx()
		ctx.pendingUndo = append(ctx.pendingUndo, pendingOp{callIndex: ctx.index, op: op.Reverse()})
		call.ReversibleWriteCounter++
		step.ReversibleWriteCounterDelta++
	}
	return nil
}

// applyOp mutates the state snapshot according to the payload. Access-list
// payloads only ever add warmth: a cold IsWarm value (as produced by an undo
// payload) leaves the list untouched, which is what keeps cold-to-warm
// transitions one-way across reverts.
func (st *CircuitInputStateRef) applyOp(op operation.Op) {
	switch o := op.(type) {
	case *operation.StorageOp:
		st.sdb.SetState(o.Address, o.Key, o.Value)
	case *operation.TxAccessListAccountOp:
		if o.IsWarm {
			st.sdb.AddAddressToAccessList(o.Address)
		}
	case *operation.TxAccessListAccountStorageOp:
		if o.IsWarm {
			st.sdb.AddSlotToAccessList(o.Address, o.Key)
		}
	case *operation.TxRefundOp:
		st.sdb.SetRefund(o.Value)
	default:
		panic(fmt.Sprintf("builder: cannot apply operation %T to state", op))
	}
}

// PushCopy records a copy event and accounts its operations on the step.
func (st *CircuitInputStateRef) PushCopy(step *ExecStep, ev CopyEvent) {
	step.CopyRWCounterDelta += len(ev.Bytes)
	st.block.CopyEvents = append(st.block.CopyEvents, ev)
	copyEventCounter.Inc(1)
}

// pushCall opens a frame: the Call joins the transaction's call list and its
// context joins the live stack.
func (st *CircuitInputStateRef) pushCall(call Call, callData []byte, memory types.Memory) {
	call.Index = len(st.tx.Calls)
	st.tx.Calls = append(st.tx.Calls, call)
	st.txCtx.push(&callContext{
		index:      call.Index,
		callData:   callData,
		memory:     memory,
		groupCalls: []int{call.Index},
	})
}

// handleReturn completes the innermost frame. A frame that failed
// materializes its reversion section into the given step; a successful but
// non-persistent frame hands its pending undos to the parent, to be undone
// when the reverting ancestor completes.
func (st *CircuitInputStateRef) handleReturn(step *ExecStep) error {
	ctx, err := st.txCtx.callCtx()
	if err != nil {
		return err
	}
	call := &st.tx.Calls[ctx.index]
	switch {
	case !call.IsSuccess:
		st.handleReversion(step, ctx)
	case !call.IsPersistent:
		parent := st.txCtx.parentCtx()
		if parent == nil {
			panic(fmt.Sprintf("builder: root call %d succeeded but is not persistent", call.CallID))
		}
		parent.pendingUndo = append(parent.pendingUndo, ctx.pendingUndo...)
		parent.eorRefs = append(parent.eorRefs, ctx.eorRefs...)
		parent.groupCalls = append(parent.groupCalls, ctx.groupCalls...)
		st.tx.Calls[parent.index].ReversibleWriteCounter += call.ReversibleWriteCounter
	}
	st.txCtx.pop()
	return nil
}

// handleReversion places the reversion section of a failed frame: every
// pending undo replays in LIFO order, each consuming a fresh counter value,
// so the section occupies exactly
// [rw_counter_end_of_reversion, rw_counter_end_of_reversion + pending).
// Earlier reads of RwCounterEndOfReversion are patched to the final value.
func (st *CircuitInputStateRef) handleReversion(step *ExecStep, ctx *callContext) {
	eor := st.blockCtx.rwc.Peek()

	for _, ref := range ctx.eorRefs {
		stored := st.block.Container.Get(ref)
		ccOp, ok := stored.Op.(*operation.CallContextOp)
		if !ok || ccOp.Field != operation.RwCounterEndOfReversionField {
			panic(fmt.Sprintf("builder: reversion patch reference %v does not point at a RwCounterEndOfReversion read", ref))
		}
		ccOp.Value = *uint256.NewInt(uint64(eor))
	}
	for _, idx := range ctx.groupCalls {
		st.tx.Calls[idx].RwCounterEndOfReversion = eor
	}

	for i := len(ctx.pendingUndo) - 1; i >= 0; i-- {
		undo := ctx.pendingUndo[i].op
		st.applyOp(undo)
		st.pushOp(step, operation.WRITE, undo, false)
	}

	if got, want := st.blockCtx.rwc.Peek(), eor+len(ctx.pendingUndo); got != want {
		panic(fmt.Sprintf("builder: reversion section of call %d ends at counter %d, want %d", st.tx.Calls[ctx.index].CallID, got, want))
	}

	reversionCounter.Inc(1)
	log.Debug("Materialized reversion section", "tx", st.txCtx.id, "call", st.tx.Calls[ctx.index].CallID,
		"ops", len(ctx.pendingUndo), "rwcStart", eor)
}

// addressWord widens an account address to a 256-bit word.
func addressWord(addr common.Address) uint256.Int {
	var w uint256.Int
	w.SetBytes(addr.Bytes())
	return w
}

func boolWord(b bool) uint256.Int {
	if b {
		return *uint256.NewInt(1)
	}
	return uint256.Int{}
}

func u64Word(v uint64) uint256.Int {
	return *uint256.NewInt(v)
}

// memAddr narrows a stack word to a memory address.
func memAddr(v uint256.Int) (types.MemoryAddress, error) {
	if !v.IsUint64() {
		return 0, fmt.Errorf("%w: memory address %s overflows", types.ErrOutOfRange, v.Hex())
	}
	return types.MemoryAddress(v.Uint64()), nil
}
