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

import "errors"

var (
	// ErrInvalidTrace is returned when an execution trace does not carry the
	// content the current opcode requires, e.g. a missing lookahead entry or
	// a stack shallower than the instruction's operand count.
	ErrInvalidTrace = errors.New("invalid execution trace")

	// ErrOutOfRange is returned when a stack or memory access falls outside
	// the addressable bounds of the current call.
	ErrOutOfRange = errors.New("access out of range")
)
