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

import "fmt"

// OpCode is a single byte identifying one traced instruction.
type OpCode byte

// The opcode set the bus-mapping engine tracks. Opcodes outside this set are
// legal in a trace and dispatch to the no-op handler.
const (
	STOP         OpCode = 0x00
	SHA3         OpCode = 0x20
	CALLER       OpCode = 0x33
	CALLVALUE    OpCode = 0x34
	CALLDATALOAD OpCode = 0x35
	CALLDATASIZE OpCode = 0x36
	EXTCODESIZE  OpCode = 0x3b
	SLOAD        OpCode = 0x54
	SSTORE       OpCode = 0x55
	CALL         OpCode = 0xf1
	RETURN       OpCode = 0xf3
	REVERT       OpCode = 0xfd
)

var opCodeToString = map[OpCode]string{
	STOP:         "STOP",
	SHA3:         "SHA3",
	CALLER:       "CALLER",
	CALLVALUE:    "CALLVALUE",
	CALLDATALOAD: "CALLDATALOAD",
	CALLDATASIZE: "CALLDATASIZE",
	EXTCODESIZE:  "EXTCODESIZE",
	SLOAD:        "SLOAD",
	SSTORE:       "SSTORE",
	CALL:         "CALL",
	RETURN:       "RETURN",
	REVERT:       "REVERT",
}

func (op OpCode) String() string {
	if s, ok := opCodeToString[op]; ok {
		return s
	}
	return fmt.Sprintf("opcode %#x not defined", int(op))
}

// IsCall reports whether the opcode opens a nested call frame.
func (op OpCode) IsCall() bool {
	return op == CALL
}

// IsTerminal reports whether the opcode ends the current call frame.
func (op OpCode) IsTerminal() bool {
	switch op {
	case STOP, RETURN, REVERT:
		return true
	}
	return false
}
