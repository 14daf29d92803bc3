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

package operation

import (
	"fmt"
	"sort"
)

// RWCounter hands out the global position of every operation in the
// permutation argument. The first operation of a block build takes value 1;
// values are consumed strictly in creation order with no gaps.
type RWCounter struct {
	next int
}

func NewRWCounter() *RWCounter {
	return &RWCounter{next: 1}
}

// Inc returns the next counter value and advances the counter.
func (c *RWCounter) Inc() int {
	v := c.next
	c.next++
	return v
}

// Peek returns the value the next operation will consume.
func (c *RWCounter) Peek() int {
	return c.next
}

// Operation pairs a payload with its global counter position and direction.
type Operation struct {
	RWC        int
	RW         RW
	Reversible bool
	Op         Op
}

// OperationRef locates an operation inside the container: which vector, and
// the index within it. References are stable for the lifetime of a build.
type OperationRef struct {
	Target Target
	Index  int
}

// Container accumulates every operation of one block build, one append-only
// vector per target. It is exclusively owned by a single builder.
type Container struct {
	Stack                      []Operation
	Memory                     []Operation
	Storage                    []Operation
	CallContext                []Operation
	TxAccessListAccount        []Operation
	TxAccessListAccountStorage []Operation
	TxRefund                   []Operation
	Account                    []Operation
	TxLog                      []Operation
	TxReceipt                  []Operation
}

func NewContainer() *Container {
	return &Container{}
}

// Insert appends the operation to the vector matching its payload and returns
// its stable reference.
func (c *Container) Insert(op Operation) OperationRef {
	target := op.Op.Target()
	v := c.vector(target)
	*v = append(*v, op)
	return OperationRef{Target: target, Index: len(*v) - 1}
}

// Get resolves a reference to the stored operation. The returned pointer
// aliases container memory; reversion patching relies on this.
func (c *Container) Get(ref OperationRef) *Operation {
	v := c.vector(ref.Target)
	if ref.Index >= len(*v) {
		panic(fmt.Sprintf("operation: dangling reference %s[%d], have %d", ref.Target, ref.Index, len(*v)))
	}
	return &(*v)[ref.Index]
}

// Len returns the total number of stored operations.
func (c *Container) Len() int {
	n := 0
	for _, t := range allTargets {
		n += len(*c.vector(t))
	}
	return n
}

// All returns every stored operation ordered by RW counter.
func (c *Container) All() []Operation {
	ops := make([]Operation, 0, c.Len())
	for _, t := range allTargets {
		ops = append(ops, *c.vector(t)...)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].RWC < ops[j].RWC })
	return ops
}

var allTargets = []Target{
	TargetMemory,
	TargetStack,
	TargetStorage,
	TargetTxAccessListAccount,
	TargetTxAccessListAccountStorage,
	TargetTxRefund,
	TargetAccount,
	TargetCallContext,
	TargetTxLog,
	TargetTxReceipt,
}

func (c *Container) vector(t Target) *[]Operation {
	switch t {
	case TargetStack:
		return &c.Stack
	case TargetMemory:
		return &c.Memory
	case TargetStorage:
		return &c.Storage
	case TargetCallContext:
		return &c.CallContext
	case TargetTxAccessListAccount:
		return &c.TxAccessListAccount
	case TargetTxAccessListAccountStorage:
		return &c.TxAccessListAccountStorage
	case TargetTxRefund:
		return &c.TxRefund
	case TargetAccount:
		return &c.Account
	case TargetTxLog:
		return &c.TxLog
	case TargetTxReceipt:
		return &c.TxReceipt
	default:
		panic(fmt.Sprintf("operation: no container vector for %s", t))
	}
}
