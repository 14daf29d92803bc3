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
	"fmt"

	"github.com/holiman/uint256"

	"github.com/wasm0/zkwasm-busmapping/params"
)

// StackAddress is the absolute position of one stack slot, counted from the
// bottom of the 1024-slot interpreter stack.
type StackAddress int

// Stack is a read-only snapshot of one traced step's stack, bottom first.
type Stack []uint256.Int

// NthLast returns the n-th value from the top of the stack. n == 0 is the top.
func (st Stack) NthLast(n int) (uint256.Int, error) {
	if n >= len(st) {
		return uint256.Int{}, fmt.Errorf("%w: stack has %d elements, depth %d requested", ErrInvalidTrace, len(st), n)
	}
	return st[len(st)-1-n], nil
}

// NthLastFilled returns the absolute address of the n-th slot from the top.
func (st Stack) NthLastFilled(n int) StackAddress {
	return StackAddress(params.StackLimit - len(st) + n)
}

// LastFilled returns the absolute address of the top slot.
func (st Stack) LastFilled() StackAddress {
	return st.NthLastFilled(0)
}
