// Copyright (c) 2025 The PKNet developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pknet/pknet/stackedmap"
)

func TestStackedMap(t *testing.T) {
	src := map[string]string{"base": "src"}
	sm := stackedmap.New(func(key any) (any, bool, error) {
		v, ok := src[key.(string)]
		return v, ok, nil
	})

	sm.Push()
	sm.Put("k", "v1")

	rev := sm.Push()
	sm.Put("k", "v2")
	sm.Put("k", "v2b")

	v, ok, err := sm.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v2b", v)

	sm.PopTo(rev)
	v, ok, err = sm.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v1", v)

	// falls through to the source
	v, ok, err = sm.Get("base")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "src", v)

	_, ok, err = sm.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestJournal(t *testing.T) {
	sm := stackedmap.New(func(any) (any, bool, error) {
		return nil, false, nil
	})
	sm.Push()
	sm.Put("a", 1)
	sm.Push()
	sm.Put("b", 2)
	sm.Put("a", 3)

	var got []any
	sm.Journal(func(key, value any) bool {
		got = append(got, key, value)
		return true
	})
	assert.Equal(t, []any{"a", 1, "b", 2, "a", 3}, got)

	// traversal stops when the callback returns false
	count := 0
	sm.Journal(func(any, any) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}
