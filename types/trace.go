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

package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// StructLog is the per-step snapshot emitted by the tracing interpreter. It
// is consumed strictly read-only, with a one-step lookahead window.
type StructLog struct {
	Pc      uint64 `json:"pc"`
	Op      OpCode `json:"op"`
	Gas     uint64 `json:"gas"`
	GasCost uint64 `json:"gasCost"`
	Depth   int    `json:"depth"`
	Refund  uint64 `json:"refund"`
	Err     string `json:"error,omitempty"`
	Stack   Stack  `json:"stack"`
	Memory  Memory `json:"memory"`
}

// ExecTrace is the ordered trace of one transaction's execution.
type ExecTrace struct {
	Gas         uint64        `json:"gas"`
	Failed      bool          `json:"failed"`
	ReturnValue hexutil.Bytes `json:"returnValue"`
	StructLogs  []StructLog   `json:"structLogs"`
}

// Transaction is the input envelope of one traced transaction.
type Transaction struct {
	From  common.Address
	To    common.Address
	Value *uint256.Int
	Input []byte
}
