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

import "github.com/ethereum/go-ethereum/common"

// CopyDataType names one endpoint kind of a bulk byte-range copy.
type CopyDataType uint8

const (
	CopyBytecode CopyDataType = iota
	CopyMemory
	CopyTxCalldata
	CopyTxLog
	CopyRlcAcc
)

// NumberOrHash identifies a copy endpoint either by a numeric id (call id or
// transaction id) or by a code hash.
type NumberOrHash struct {
	IsHash bool
	Number int
	Hash   common.Hash
}

func NumberID(n int) NumberOrHash {
	return NumberOrHash{Number: n}
}

func HashID(h common.Hash) NumberOrHash {
	return NumberOrHash{IsHash: true, Hash: h}
}

// CopyByte is one copied byte plus its bytecode flag.
type CopyByte struct {
	Value  byte
	IsCode bool
}

// CopyEvent records one bulk byte-range copy for the copy-correctness
// consumer: a hashing input, a memory-to-memory move or a calldata slice.
type CopyEvent struct {
	SrcType    CopyDataType
	SrcID      NumberOrHash
	SrcAddr    uint64
	SrcAddrEnd uint64

	DstType CopyDataType
	DstID   NumberOrHash
	DstAddr uint64

	// LogID is set only for TxLog destinations.
	LogID uint64

	// RWCounterStart is the counter value consumed by the first operation
	// backing this copy.
	RWCounterStart int

	Bytes []CopyByte
}
