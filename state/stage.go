// Copyright (c) 2025 The PKNet developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/pknet/pknet/kv"
)

// Stage accumulates all journaled record mutations into a single batch,
// so they land in the underlying store all-or-nothing.
type Stage struct {
	batch   kv.Batch
	changes map[storageKey][]byte
	state   *State
}

// Stage makes a stage object to commit all journaled changes.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey][]byte)
	s.sm.Journal(func(k, v any) bool {
		changes[k.(storageKey)] = v.([]byte)
		return true
	})
	return &Stage{
		batch:   s.kv.NewBatch(),
		changes: changes,
		state:   s,
	}
}

// Commit writes all staged changes to the store in one batch and refreshes
// the record cache. It returns the number of changed records.
func (st *Stage) Commit() (int, error) {
	for key, raw := range st.changes {
		kvKey := key.kvKey()
		if len(raw) == 0 {
			if err := st.batch.Delete(kvKey); err != nil {
				return 0, &Error{err}
			}
		} else {
			if err := st.batch.Put(kvKey, raw); err != nil {
				return 0, &Error{err}
			}
		}
	}
	if err := st.batch.Write(); err != nil {
		return 0, &Error{err}
	}
	for key, raw := range st.changes {
		st.state.cache.Add(string(key.kvKey()), raw)
	}
	return len(st.changes), nil
}
