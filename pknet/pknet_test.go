// Copyright (c) 2025 The PKNet developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pknet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pknet/pknet/pknet"
)

func TestAddress(t *testing.T) {
	addr := pknet.BytesToAddress([]byte("alice"))
	assert.False(t, addr.IsZero())
	assert.True(t, pknet.Address{}.IsZero())

	parsed, err := pknet.ParseAddress(addr.String())
	require.NoError(t, err)
	assert.Equal(t, addr, *parsed)

	_, err = pknet.ParseAddress("not an address")
	require.Error(t, err)
}

func TestBytes32(t *testing.T) {
	b := pknet.Blake2b([]byte("data"))
	assert.False(t, b.IsZero())

	parsed, err := pknet.ParseBytes32(b.String())
	require.NoError(t, err)
	assert.Equal(t, b, parsed)
}

func TestBlake2b(t *testing.T) {
	// split inputs hash like the concatenation
	assert.Equal(t, pknet.Blake2b([]byte("ab")), pknet.Blake2b([]byte("a"), []byte("b")))
	assert.NotEqual(t, pknet.Blake2b([]byte("a")), pknet.Blake2b([]byte("b")))
}

func TestDeriveAddress(t *testing.T) {
	alice := pknet.BytesToAddress([]byte("alice"))
	bob := pknet.BytesToAddress([]byte("bob"))

	a1 := pknet.DeriveAddress(pknet.SeedUserStake, alice.Bytes(), []byte{0})
	a2 := pknet.DeriveAddress(pknet.SeedUserStake, alice.Bytes(), []byte{0})
	assert.Equal(t, a1, a2)

	assert.NotEqual(t, a1, pknet.DeriveAddress(pknet.SeedUserStake, bob.Bytes(), []byte{0}))
	assert.NotEqual(t, a1, pknet.DeriveAddress(pknet.SeedUserStake, alice.Bytes(), []byte{1}))
	assert.NotEqual(t, a1, pknet.DeriveAddress(pknet.SeedUserProfile, alice.Bytes(), []byte{0}))
}

func TestDeriveKey(t *testing.T) {
	alice := pknet.BytesToAddress([]byte("alice"))

	k1 := pknet.DeriveKey(pknet.SeedUserProfile, alice.Bytes())
	k2 := pknet.DeriveKey(pknet.SeedUserProfile, alice.Bytes())
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, pknet.DeriveKey(pknet.SeedVote, alice.Bytes()))
}

func TestCategories(t *testing.T) {
	assert.True(t, pknet.AssetTaxation.Valid())
	assert.False(t, pknet.AssetCategory(5).Valid())
	assert.Equal(t, "taxation", pknet.AssetTaxation.String())

	assert.True(t, pknet.PoolLiquidityMining.Valid())
	assert.False(t, pknet.PoolCategory(5).Valid())
	assert.Equal(t, "liquidity-mining", pknet.PoolLiquidityMining.String())

	// the pool and asset taxonomies differ on purpose
	assert.Equal(t, "governance", pknet.PoolGovernance.String())
	assert.Equal(t, "healthcare", pknet.AssetHealthcare.String())
}
