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

// Package state holds the in-memory state snapshot the bus-mapping engine
// reads and reversibly writes while replaying a trace: accounts, storage,
// committed storage, the gas refund counter and the per-transaction access
// lists.
package state

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// Account is the in-memory image of one account.
type Account struct {
	Nonce    uint64
	Balance  *uint256.Int
	CodeHash common.Hash
	Storage  map[common.Hash]common.Hash
}

func NewEmptyAccount() *Account {
	return &Account{
		Balance: new(uint256.Int),
		Storage: make(map[common.Hash]common.Hash),
	}
}

// IsEmpty reports whether the account matches the protocol's definition of an
// empty account: zero nonce, zero balance, no code.
func (a *Account) IsEmpty() bool {
	return a.Nonce == 0 && a.Balance.IsZero() && (a.CodeHash == common.Hash{} || a.CodeHash == emptyCodeHash)
}

var emptyCodeHash = crypto.Keccak256Hash(nil)

// StorageSlot identifies one (account, key) storage slot.
type StorageSlot struct {
	Address common.Address
	Key     common.Hash
}

// StateDB is the state snapshot for one block build. It is exclusively owned
// by a single builder, so no locking is involved.
type StateDB struct {
	accounts  map[common.Address]*Account
	committed map[common.Address]map[common.Hash]common.Hash
	code      map[common.Hash][]byte
	refund    uint64

	accessedAddresses mapset.Set[common.Address]
	accessedSlots     mapset.Set[StorageSlot]
}

func New() *StateDB {
	return &StateDB{
		accounts:          make(map[common.Address]*Account),
		committed:         make(map[common.Address]map[common.Hash]common.Hash),
		code:              make(map[common.Hash][]byte),
		accessedAddresses: mapset.NewThreadUnsafeSet[common.Address](),
		accessedSlots:     mapset.NewThreadUnsafeSet[StorageSlot](),
	}
}

// GetAccount returns the account at addr, if present.
func (s *StateDB) GetAccount(addr common.Address) (*Account, bool) {
	acc, ok := s.accounts[addr]
	return acc, ok
}

// SetAccount installs the account at addr, replacing any previous image.
func (s *StateDB) SetAccount(addr common.Address, acc *Account) {
	s.accounts[addr] = acc
}

func (s *StateDB) Exists(addr common.Address) bool {
	acc, ok := s.accounts[addr]
	return ok && !acc.IsEmpty()
}

// GetState returns the current value of the storage slot, or the zero hash if
// the slot or the account does not exist.
func (s *StateDB) GetState(addr common.Address, key common.Hash) common.Hash {
	if acc, ok := s.accounts[addr]; ok {
		return acc.Storage[key]
	}
	return common.Hash{}
}

// SetState writes the storage slot, creating the account if needed.
func (s *StateDB) SetState(addr common.Address, key, value common.Hash) {
	acc, ok := s.accounts[addr]
	if !ok {
		acc = NewEmptyAccount()
		s.accounts[addr] = acc
	}
	acc.Storage[key] = value
}

// GetCommittedState returns the value the slot held at transaction start.
func (s *StateDB) GetCommittedState(addr common.Address, key common.Hash) common.Hash {
	if slots, ok := s.committed[addr]; ok {
		return slots[key]
	}
	return common.Hash{}
}

// SetCommittedState records the transaction-start value of the slot. The
// driver calls this at transaction boundaries; handlers never do.
func (s *StateDB) SetCommittedState(addr common.Address, key, value common.Hash) {
	slots, ok := s.committed[addr]
	if !ok {
		slots = make(map[common.Hash]common.Hash)
		s.committed[addr] = slots
	}
	slots[key] = value
}

// SetCode stores the code blob under its keccak hash and returns the hash.
func (s *StateDB) SetCode(code []byte) common.Hash {
	hash := crypto.Keccak256Hash(code)
	s.code[hash] = code
	return hash
}

func (s *StateDB) GetCode(hash common.Hash) []byte {
	return s.code[hash]
}

func (s *StateDB) GetCodeSize(hash common.Hash) int {
	return len(s.code[hash])
}

func (s *StateDB) Refund() uint64 {
	return s.refund
}

func (s *StateDB) SetRefund(value uint64) {
	s.refund = value
}

// AddAddressToAccessList marks the address warm and reports whether it was
// cold before this access.
func (s *StateDB) AddAddressToAccessList(addr common.Address) bool {
	return s.accessedAddresses.Add(addr)
}

func (s *StateDB) AddressInAccessList(addr common.Address) bool {
	return s.accessedAddresses.Contains(addr)
}

// AddSlotToAccessList marks the storage slot warm and reports whether it was
// cold before this access.
func (s *StateDB) AddSlotToAccessList(addr common.Address, key common.Hash) bool {
	return s.accessedSlots.Add(StorageSlot{Address: addr, Key: key})
}

func (s *StateDB) SlotInAccessList(addr common.Address, key common.Hash) bool {
	return s.accessedSlots.Contains(StorageSlot{Address: addr, Key: key})
}

// ResetAccessList clears both access lists. Warmth never survives a
// transaction boundary.
func (s *StateDB) ResetAccessList() {
	s.accessedAddresses = mapset.NewThreadUnsafeSet[common.Address]()
	s.accessedSlots = mapset.NewThreadUnsafeSet[StorageSlot]()
}
