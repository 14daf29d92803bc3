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

package state

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestStorageRoundTrip(t *testing.T) {
	s := New()
	addr := common.HexToAddress("0xcafe")
	key := common.HexToHash("0x01")

	require.Equal(t, common.Hash{}, s.GetState(addr, key))

	s.SetState(addr, key, common.HexToHash("0x6f"))
	require.Equal(t, common.HexToHash("0x6f"), s.GetState(addr, key))

	// Committed storage is a separate table and never changes with SetState.
	require.Equal(t, common.Hash{}, s.GetCommittedState(addr, key))
	s.SetCommittedState(addr, key, common.HexToHash("0x6f"))
	s.SetState(addr, key, common.HexToHash("0x70"))
	require.Equal(t, common.HexToHash("0x6f"), s.GetCommittedState(addr, key))
}

func TestAccountEmptiness(t *testing.T) {
	s := New()
	addr := common.HexToAddress("0x01")
	require.False(t, s.Exists(addr))

	acc := NewEmptyAccount()
	s.SetAccount(addr, acc)
	require.False(t, s.Exists(addr), "empty account does not exist")

	acc.Balance = uint256.NewInt(1)
	require.True(t, s.Exists(addr))
}

func TestCodeStorage(t *testing.T) {
	s := New()
	code := []byte{0x60, 0x01, 0x60, 0x02}

	hash := s.SetCode(code)
	require.Equal(t, crypto.Keccak256Hash(code), hash)
	require.Equal(t, code, s.GetCode(hash))
	require.Equal(t, len(code), s.GetCodeSize(hash))
	require.Equal(t, 0, s.GetCodeSize(common.HexToHash("0xdead")))
}

// Warmth only ever moves cold to warm within a transaction; the reset at a
// transaction boundary is the only way back.
func TestAccessListOneWay(t *testing.T) {
	s := New()
	addr := common.HexToAddress("0xcafe")
	key := common.HexToHash("0x01")

	require.False(t, s.AddressInAccessList(addr))
	require.True(t, s.AddAddressToAccessList(addr), "first access reports cold")
	require.False(t, s.AddAddressToAccessList(addr), "second access reports warm")
	require.True(t, s.AddressInAccessList(addr))

	require.True(t, s.AddSlotToAccessList(addr, key))
	require.False(t, s.AddSlotToAccessList(addr, key))
	require.True(t, s.SlotInAccessList(addr, key))

	s.ResetAccessList()
	require.False(t, s.AddressInAccessList(addr))
	require.False(t, s.SlotInAccessList(addr, key))
}

func TestRefundCounter(t *testing.T) {
	s := New()
	require.Zero(t, s.Refund())
	s.SetRefund(4800)
	require.Equal(t, uint64(4800), s.Refund())
}
