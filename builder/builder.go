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

// Package builder replays traced program executions and emits the exact,
// ordered log of read/write operations a constraint-based proving circuit
// verifies through lookup and permutation arguments.
package builder

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/wasm0/zkwasm-busmapping/state"
	"github.com/wasm0/zkwasm-busmapping/types"
)

// ErrMaxRWsExceeded is returned when a block build emits more operations
// than the configured circuit capacity.
var ErrMaxRWsExceeded = errors.New("maximum rw operation count exceeded")

// Params bounds one witness build.
type Params struct {
	// MaxRWs caps the total operation count; zero means unbounded.
	MaxRWs int
}

// CircuitInputBuilder replays execution traces and accumulates the complete
// ordered witness of one block. It exclusively owns the state snapshot, the
// operation container, the RW counter and the call stack for the duration of
// the build; independent blocks use independent builders.
type CircuitInputBuilder struct {
	sdb      *state.StateDB
	params   Params
	block    *Block
	blockCtx *blockContext
}

func NewCircuitInputBuilder(sdb *state.StateDB, params Params) *CircuitInputBuilder {
	return &CircuitInputBuilder{
		sdb:      sdb,
		params:   params,
		block:    newBlock(),
		blockCtx: newBlockContext(),
	}
}

// Block returns the witness assembled so far.
func (b *CircuitInputBuilder) Block() *Block {
	return b.block
}

// StateDB returns the backing state snapshot.
func (b *CircuitInputBuilder) StateDB() *state.StateDB {
	return b.sdb
}

// HandleBlock replays every transaction trace in order and assembles the
// block witness. The transformation is deterministic: on error the build
// aborts with no partial result contract.
func (b *CircuitInputBuilder) HandleBlock(txs []types.Transaction, traces []*types.ExecTrace) error {
	if len(txs) != len(traces) {
		return fmt.Errorf("%w: %d transactions with %d traces", types.ErrInvalidTrace, len(txs), len(traces))
	}
	for i := range txs {
		if err := b.handleTx(i+1, &txs[i], traces[i]); err != nil {
			return err
		}
	}
	if b.params.MaxRWs > 0 && b.blockCtx.rwc.Peek()-1 > b.params.MaxRWs {
		return fmt.Errorf("%w: %d > %d", ErrMaxRWsExceeded, b.blockCtx.rwc.Peek()-1, b.params.MaxRWs)
	}
	return nil
}

func (b *CircuitInputBuilder) handleTx(id int, tx *types.Transaction, trace *types.ExecTrace) error {
	b.sdb.ResetAccessList()

	txCtx := newTransactionContext(id, trace)
	wtx := &Transaction{
		ID:       id,
		From:     tx.From,
		To:       tx.To,
		Value:    txValue(tx),
		CallData: tx.Input,
	}
	b.block.Txs = append(b.block.Txs, wtx)

	st := &CircuitInputStateRef{
		sdb:      b.sdb,
		block:    b.block,
		blockCtx: b.blockCtx,
		tx:       wtx,
		txCtx:    txCtx,
	}

	rootSuccess, err := txCtx.nextCallSuccess()
	if err != nil {
		return err
	}
	rootMemory := types.Memory{}
	if len(trace.StructLogs) > 0 {
		rootMemory = trace.StructLogs[0].Memory.Copy()
	}
	st.pushCall(Call{
		CallID:         b.blockCtx.allocCallID(),
		IsRoot:         true,
		IsSuccess:      rootSuccess,
		IsPersistent:   rootSuccess,
		Address:        tx.To,
		CallerAddress:  tx.From,
		Value:          txValue(tx),
		CallDataLength: uint64(len(tx.Input)),
	}, tx.Input, rootMemory)

	wtx.Steps = append(wtx.Steps, ExecStep{
		ExecState: ExecStateBeginTx,
		RWCounter: b.blockCtx.rwc.Peek(),
		CallIndex: 0,
	})

	log.Trace("Replaying transaction trace", "tx", id, "steps", len(trace.StructLogs), "failed", trace.Failed)

	logs := trace.StructLogs
	for i := range logs {
		cur := &logs[i]
		framesBefore := len(txCtx.calls)

		step, err := handlerFor(cur.Op)(st, logs[i:])
		if err != nil {
			return fmt.Errorf("tx %d step %d (%v at pc %d): %w", id, i, cur.Op, cur.Pc, err)
		}

		if i+1 < len(logs) {
			next := &logs[i+1]
			switch {
			case next.Depth == cur.Depth+1:
				if len(txCtx.calls) != framesBefore+1 {
					return fmt.Errorf("tx %d step %d: %w: depth increased without a call", id, i, types.ErrInvalidTrace)
				}
			case next.Depth < cur.Depth:
				for d := cur.Depth - next.Depth; d > 0; d-- {
					if err := st.handleReturn(step); err != nil {
						return err
					}
				}
			case next.Depth == cur.Depth:
				if len(txCtx.calls) != framesBefore {
					return fmt.Errorf("tx %d step %d: %w: call opened without depth change", id, i, types.ErrInvalidTrace)
				}
			default:
				return fmt.Errorf("tx %d step %d: %w: depth jumped from %d to %d", id, i, types.ErrInvalidTrace, cur.Depth, next.Depth)
			}
		}

		wtx.Steps = append(wtx.Steps, *step)
	}

	endStep := ExecStep{
		ExecState: ExecStateEndTx,
		RWCounter: b.blockCtx.rwc.Peek(),
		CallIndex: 0,
	}
	for len(txCtx.calls) > 0 {
		if err := st.handleReturn(&endStep); err != nil {
			return err
		}
	}
	wtx.Steps = append(wtx.Steps, endStep)

	txProcessedCounter.Inc(1)
	return nil
}

func txValue(tx *types.Transaction) *uint256.Int {
	if tx.Value == nil {
		return new(uint256.Int)
	}
	return tx.Value
}
