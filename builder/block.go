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
)

// Transaction is the witness form of one executed transaction.
type Transaction struct {
	ID int

	From     common.Address
	To       common.Address
	Value    *uint256.Int
	CallData []byte

	Calls []Call
	Steps []ExecStep
}

// Block is the witness artifact handed to the circuit assignment stage: the
// transactions with their calls and steps, the full operation container and
// the copy-event log.
type Block struct {
	Container  *operation.Container
	Txs        []*Transaction
	CopyEvents []CopyEvent

	// Sha3Inputs collects every byte string hashed during the block, in
	// hashing order, for the keccak consumer.
	Sha3Inputs [][]byte
}

func newBlock() *Block {
	return &Block{Container: operation.NewContainer()}
}
