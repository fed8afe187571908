// Copyright (c) 2025 The PKNet developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"

	"github.com/pknet/pknet/kv"
	"github.com/pknet/pknet/pknet"
	"github.com/pknet/pknet/stackedmap"
)

const cachedRecordSize = 2048

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// State manages the ledger account store. Records are addressed by
// (account address, storage key) and kept in a journaled map, so a whole
// group of mutations either commits together or is reverted together.
type State struct {
	kv    kv.GetPutter
	cache *lru.Cache // raw record cache, string(addr||key) -> []byte
	sm    *stackedmap.StackedMap
}

type storageKey struct {
	addr pknet.Address
	key  pknet.Bytes32
}

func (k storageKey) kvKey() []byte {
	b := make([]byte, 0, pknet.AddressLength+32)
	b = append(b, k.addr.Bytes()...)
	return append(b, k.key.Bytes()...)
}

// New create a state object backed by the given key-value store.
func New(store kv.GetPutter) *State {
	cache, _ := lru.New(cachedRecordSize)
	s := &State{
		kv:    store,
		cache: cache,
	}
	s.sm = stackedmap.New(func(key any) (any, bool, error) {
		return s.storeGetter(key.(storageKey))
	})
	// the root checkpoint, never popped
	s.sm.Push()
	return s
}

// storeGetter loads a raw record from cache or the underlying store.
func (s *State) storeGetter(key storageKey) (any, bool, error) {
	kvKey := key.kvKey()
	if raw, ok := s.cache.Get(string(kvKey)); ok {
		return raw.([]byte), true, nil
	}
	raw, err := s.kv.Get(kvKey)
	if err != nil {
		if s.kv.IsNotFound(err) {
			s.cache.Add(string(kvKey), []byte(nil))
			return []byte(nil), true, nil
		}
		return nil, false, err
	}
	s.cache.Add(string(kvKey), raw)
	return raw, true, nil
}

// GetRawStorage returns the raw encoded record for the given address and key.
// Absent records yield an empty slice.
func (s *State) GetRawStorage(addr pknet.Address, key pknet.Bytes32) ([]byte, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.([]byte), nil
}

// SetRawStorage sets the raw encoded record. Empty raw deletes the record.
func (s *State) SetRawStorage(addr pknet.Address, key pknet.Bytes32, raw []byte) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// Exists returns whether a record exists for the given address and key.
func (s *State) Exists(addr pknet.Address, key pknet.Bytes32) (bool, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return false, err
	}
	return len(raw) > 0, nil
}

// GetStructuredStorage decodes the record into val. val is left untouched
// if the record is absent.
func (s *State) GetStructuredStorage(addr pknet.Address, key pknet.Bytes32, val any) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	if err := rlp.DecodeBytes(raw, val); err != nil {
		return &Error{err}
	}
	return nil
}

// SetStructuredStorage encodes val and stores it as the record for the
// given address and key. A nil val deletes the record.
func (s *State) SetStructuredStorage(addr pknet.Address, key pknet.Bytes32, val any) error {
	if val == nil {
		s.SetRawStorage(addr, key, nil)
		return nil
	}
	raw, err := rlp.EncodeToBytes(val)
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// Scan iterates the committed records of one account in key order. It reads
// the underlying store directly; journal entries not yet committed are not
// visible. fn returning false stops the scan.
func (s *State) Scan(addr pknet.Address, fn func(key pknet.Bytes32, raw []byte) bool) error {
	prefix := addr.Bytes()
	it := s.kv.NewIterator(kv.Range{From: prefix, To: prefixEnd(prefix)})
	defer it.Release()
	for it.Next() {
		k := it.Key()
		if len(k) != pknet.AddressLength+32 {
			continue
		}
		raw := make([]byte, len(it.Value()))
		copy(raw, it.Value())
		if !fn(pknet.BytesToBytes32(k[pknet.AddressLength:]), raw) {
			break
		}
	}
	if err := it.Error(); err != nil {
		return &Error{err}
	}
	return nil
}

// prefixEnd returns the smallest key beyond every key carrying the prefix,
// or nil for an unbounded range.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}
