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

package params

const (
	// StackLimit is the maximum addressable depth of the interpreter stack.
	StackLimit = 1024

	// WordByteLength is the width of a storage key, storage value and of
	// every word-sized result written back to linear memory.
	WordByteLength = 32

	// CodeSizeByteLength is the width of the big-endian length value written
	// back to linear memory by EXTCODESIZE and CALLDATASIZE.
	CodeSizeByteLength = 4
)
