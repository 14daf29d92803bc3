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

// Package operation defines the low-level read/write operations the
// bus-mapping engine emits, and the append-only container the proving
// circuit's lookup and permutation arguments consume them from.
package operation

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/wasm0/zkwasm-busmapping/types"
)

// RW tags an operation as a read or a write.
type RW uint8

const (
	READ RW = iota
	WRITE
)

func (rw RW) IsWrite() bool {
	return rw == WRITE
}

func (rw RW) String() string {
	if rw == WRITE {
		return "WRITE"
	}
	return "READ"
}

// Target names the container vector an operation belongs to.
type Target uint8

const (
	TargetStart Target = iota
	TargetMemory
	TargetStack
	TargetStorage
	TargetTxAccessListAccount
	TargetTxAccessListAccountStorage
	TargetTxRefund
	TargetAccount
	TargetCallContext
	TargetTxLog
	TargetTxReceipt
)

var targetToString = map[Target]string{
	TargetStart:                      "Start",
	TargetMemory:                     "Memory",
	TargetStack:                      "Stack",
	TargetStorage:                    "Storage",
	TargetTxAccessListAccount:        "TxAccessListAccount",
	TargetTxAccessListAccountStorage: "TxAccessListAccountStorage",
	TargetTxRefund:                   "TxRefund",
	TargetAccount:                    "Account",
	TargetCallContext:                "CallContext",
	TargetTxLog:                      "TxLog",
	TargetTxReceipt:                  "TxReceipt",
}

func (t Target) String() string {
	if s, ok := targetToString[t]; ok {
		return s
	}
	return fmt.Sprintf("target %d not defined", int(t))
}

// Op is implemented by every operation payload.
type Op interface {
	Target() Target
}

// ReversibleOp is an Op whose effect can be undone by a mirrored write.
type ReversibleOp interface {
	Op

	// Reverse returns the payload that undoes this write: value and previous
	// value swapped, every key field unchanged.
	Reverse() ReversibleOp
}

// CallContextField selects one read-only attribute of a call frame.
type CallContextField uint8

const (
	TxIDField CallContextField = iota
	CallerIDField
	CallDataLengthField
	CallDataOffsetField
	IsStaticField
	IsPersistentField
	RwCounterEndOfReversionField
	CalleeAddressField
	CallerAddressField
	ValueField
	IsSuccessField
)

var callContextFieldToString = map[CallContextField]string{
	TxIDField:                    "TxId",
	CallerIDField:                "CallerId",
	CallDataLengthField:          "CallDataLength",
	CallDataOffsetField:          "CallDataOffset",
	IsStaticField:                "IsStatic",
	IsPersistentField:            "IsPersistent",
	RwCounterEndOfReversionField: "RwCounterEndOfReversion",
	CalleeAddressField:           "CalleeAddress",
	CallerAddressField:           "CallerAddress",
	ValueField:                   "Value",
	IsSuccessField:               "IsSuccess",
}

func (f CallContextField) String() string {
	if s, ok := callContextFieldToString[f]; ok {
		return s
	}
	return fmt.Sprintf("call context field %d not defined", int(f))
}

// AccountField selects one attribute of an account.
type AccountField uint8

const (
	AccountNonce AccountField = iota
	AccountBalance
	AccountCodeHash
)

// TxLogField selects one attribute of an emitted log.
type TxLogField uint8

const (
	TxLogAddress TxLogField = iota
	TxLogTopic
	TxLogData
)

// TxReceiptField selects one attribute of a transaction receipt.
type TxReceiptField uint8

const (
	TxReceiptPostStateOrStatus TxReceiptField = iota
	TxReceiptCumulativeGasUsed
	TxReceiptLogLength
)

// StackOp is one access to a stack slot of a call.
type StackOp struct {
	CallID  int
	Address types.StackAddress
	Value   uint256.Int
}

func (op *StackOp) Target() Target { return TargetStack }

func (op *StackOp) String() string {
	return fmt.Sprintf("StackOp{call %d, addr %d, value %s}", op.CallID, op.Address, op.Value.Hex())
}

// MemoryOp is one access to a single byte of a call's linear memory.
type MemoryOp struct {
	CallID  int
	Address types.MemoryAddress
	Value   byte
}

func (op *MemoryOp) Target() Target { return TargetMemory }

func (op *MemoryOp) String() string {
	return fmt.Sprintf("MemoryOp{call %d, addr %d, value %#x}", op.CallID, op.Address, op.Value)
}

// StorageOp is one access to a contract storage slot. Writes carry the value
// observed before the mutation and the value committed at transaction start.
type StorageOp struct {
	Address        common.Address
	Key            common.Hash
	Value          common.Hash
	ValuePrev      common.Hash
	TxID           int
	CommittedValue common.Hash
}

func (op *StorageOp) Target() Target { return TargetStorage }

func (op *StorageOp) Reverse() ReversibleOp {
	r := *op
	r.Value, r.ValuePrev = op.ValuePrev, op.Value
	return &r
}

func (op *StorageOp) String() string {
	return fmt.Sprintf("StorageOp{addr %s, key %s, value %s, prev %s}",
		op.Address.Hex(), op.Key.Hex(), op.Value.Hex(), op.ValuePrev.Hex())
}

// CallContextOp is one access to a call frame attribute.
type CallContextOp struct {
	CallID int
	Field  CallContextField
	Value  uint256.Int
}

func (op *CallContextOp) Target() Target { return TargetCallContext }

func (op *CallContextOp) String() string {
	return fmt.Sprintf("CallContextOp{call %d, field %s, value %s}", op.CallID, op.Field, op.Value.Hex())
}

// TxAccessListAccountOp records an account's cold/warm transition within the
// current transaction's access list.
type TxAccessListAccountOp struct {
	TxID       int
	Address    common.Address
	IsWarm     bool
	IsWarmPrev bool
}

func (op *TxAccessListAccountOp) Target() Target { return TargetTxAccessListAccount }

func (op *TxAccessListAccountOp) Reverse() ReversibleOp {
	r := *op
	r.IsWarm, r.IsWarmPrev = op.IsWarmPrev, op.IsWarm
	return &r
}

// TxAccessListAccountStorageOp records a storage slot's cold/warm transition
// within the current transaction's access list.
type TxAccessListAccountStorageOp struct {
	TxID       int
	Address    common.Address
	Key        common.Hash
	IsWarm     bool
	IsWarmPrev bool
}

func (op *TxAccessListAccountStorageOp) Target() Target { return TargetTxAccessListAccountStorage }

func (op *TxAccessListAccountStorageOp) Reverse() ReversibleOp {
	r := *op
	r.IsWarm, r.IsWarmPrev = op.IsWarmPrev, op.IsWarm
	return &r
}

// TxRefundOp is one access to the transaction's accumulated gas refund.
type TxRefundOp struct {
	TxID      int
	Value     uint64
	ValuePrev uint64
}

func (op *TxRefundOp) Target() Target { return TargetTxRefund }

func (op *TxRefundOp) Reverse() ReversibleOp {
	r := *op
	r.Value, r.ValuePrev = op.ValuePrev, op.Value
	return &r
}

// AccountOp is one access to an account attribute.
type AccountOp struct {
	Address   common.Address
	Field     AccountField
	Value     uint256.Int
	ValuePrev uint256.Int
}

func (op *AccountOp) Target() Target { return TargetAccount }

func (op *AccountOp) Reverse() ReversibleOp {
	r := *op
	r.Value, r.ValuePrev = op.ValuePrev, op.Value
	return &r
}

// TxLogOp is one write into the transaction's log table.
type TxLogOp struct {
	TxID  int
	LogID int
	Field TxLogField
	Index int
	Value uint256.Int
}

func (op *TxLogOp) Target() Target { return TargetTxLog }

// TxReceiptOp is one access to a transaction receipt attribute.
type TxReceiptOp struct {
	TxID  int
	Field TxReceiptField
	Value uint64
}

func (op *TxReceiptOp) Target() Target { return TargetTxReceipt }
