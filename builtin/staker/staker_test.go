// Copyright (c) 2025 The PKNet developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pknet/pknet/lvldb"
	"github.com/pknet/pknet/operr"
	"github.com/pknet/pknet/pknet"
	"github.com/pknet/pknet/state"
)

const genesisTime = int64(1_700_000_000)

func newTestStaker(t *testing.T) *Staker {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	s := New(pknet.BytesToAddress([]byte("pkn-staker")), state.New(db))
	for _, cat := range pknet.PoolCategories() {
		require.NoError(t, s.InitPool(cat, genesisTime))
	}
	return s
}

func TestInitPoolPresets(t *testing.T) {
	s := newTestStaker(t)

	tests := []struct {
		cat    pknet.PoolCategory
		apyBps uint64
		lock   int64
	}{
		{pknet.PoolConnectivity, 1200, 30 * pknet.SecondsPerDay},
		{pknet.PoolLogistics, 1500, 90 * pknet.SecondsPerDay},
		{pknet.PoolAgriculture, 1800, 180 * pknet.SecondsPerDay},
		{pknet.PoolGovernance, 800, 0},
		{pknet.PoolLiquidityMining, 2500, 14 * pknet.SecondsPerDay},
	}
	for _, tt := range tests {
		pool, err := s.GetPool(tt.cat)
		require.NoError(t, err)
		assert.Equal(t, tt.apyBps, pool.APYBps, tt.cat.String())
		assert.Equal(t, uint64(tt.lock), pool.LockPeriod, tt.cat.String())
		assert.Equal(t, uint64(pknet.MinStakeAmount), pool.MinStake)
		assert.Equal(t, uint64(pknet.PoolMaxCapacity), pool.Capacity)
		assert.True(t, pool.Active)
		assert.Zero(t, pool.TotalStaked)
	}
}

func TestAddStake(t *testing.T) {
	s := newTestStaker(t)
	alice := pknet.BytesToAddress([]byte("alice"))

	stake, err := s.AddStake(alice, pknet.PoolConnectivity, 500*pknet.UnitScale, genesisTime)
	require.NoError(t, err)
	assert.Equal(t, 500*pknet.UnitScale, stake.Amount)
	assert.Equal(t, uint64(genesisTime), stake.StartTime)

	pool, err := s.GetPool(pknet.PoolConnectivity)
	require.NoError(t, err)
	assert.Equal(t, 500*pknet.UnitScale, pool.TotalStaked)
	assert.Equal(t, uint32(1), pool.StakerCount)
}

func TestAddStakeValidation(t *testing.T) {
	s := newTestStaker(t)
	alice := pknet.BytesToAddress([]byte("alice"))

	_, err := s.AddStake(alice, pknet.PoolConnectivity, 0, genesisTime)
	require.EqualError(t, err, "invalid stake amount")

	_, err = s.AddStake(alice, pknet.PoolConnectivity, pknet.MinStakeAmount-1, genesisTime)
	require.EqualError(t, err, "amount below minimum stake")

	require.NoError(t, s.SetPoolActive(pknet.PoolConnectivity, false))
	_, err = s.AddStake(alice, pknet.PoolConnectivity, pknet.MinStakeAmount, genesisTime)
	require.EqualError(t, err, "staking pool is inactive")
}

func TestAddStakeCapacity(t *testing.T) {
	s := newTestStaker(t)
	alice := pknet.BytesToAddress([]byte("alice"))
	bob := pknet.BytesToAddress([]byte("bob"))

	_, err := s.AddStake(alice, pknet.PoolGovernance, pknet.PoolMaxCapacity, genesisTime)
	require.NoError(t, err)

	_, err = s.AddStake(bob, pknet.PoolGovernance, pknet.MinStakeAmount, genesisTime)
	require.EqualError(t, err, "pool capacity exceeded")
	assert.Equal(t, operr.KindPrecondition, operr.KindOf(err))
}

func TestTopUpKeepsStartTime(t *testing.T) {
	s := newTestStaker(t)
	alice := pknet.BytesToAddress([]byte("alice"))

	_, err := s.AddStake(alice, pknet.PoolConnectivity, 200*pknet.UnitScale, genesisTime)
	require.NoError(t, err)

	stake, err := s.AddStake(alice, pknet.PoolConnectivity, 300*pknet.UnitScale, genesisTime+1000)
	require.NoError(t, err)
	assert.Equal(t, 500*pknet.UnitScale, stake.Amount)
	// the lock window never restarts
	assert.Equal(t, uint64(genesisTime), stake.StartTime)

	pool, err := s.GetPool(pknet.PoolConnectivity)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), pool.StakerCount)
}

func TestSubStake(t *testing.T) {
	s := newTestStaker(t)
	alice := pknet.BytesToAddress([]byte("alice"))

	_, err := s.AddStake(alice, pknet.PoolConnectivity, 500*pknet.UnitScale, genesisTime)
	require.NoError(t, err)

	// still locked
	_, err = s.SubStake(alice, pknet.PoolConnectivity, 100*pknet.UnitScale, genesisTime+30*pknet.SecondsPerDay-1)
	require.EqualError(t, err, "stake is still locked")

	unlocked := genesisTime + 30*pknet.SecondsPerDay
	_, err = s.SubStake(alice, pknet.PoolConnectivity, 501*pknet.UnitScale, unlocked)
	require.EqualError(t, err, "insufficient staked amount")

	stake, err := s.SubStake(alice, pknet.PoolConnectivity, 100*pknet.UnitScale, unlocked)
	require.NoError(t, err)
	assert.Equal(t, 400*pknet.UnitScale, stake.Amount)

	// full withdrawal retains a drained position
	_, err = s.SubStake(alice, pknet.PoolConnectivity, 400*pknet.UnitScale, unlocked)
	require.NoError(t, err)
	stake, found, err := s.GetStake(alice, pknet.PoolConnectivity)
	require.NoError(t, err)
	require.True(t, found)
	assert.Zero(t, stake.Amount)

	pool, err := s.GetPool(pknet.PoolConnectivity)
	require.NoError(t, err)
	assert.Zero(t, pool.TotalStaked)
	assert.Zero(t, pool.StakerCount)

	_, err = s.SubStake(alice, pknet.PoolConnectivity, pknet.UnitScale, unlocked)
	require.EqualError(t, err, "insufficient staked amount")

	bob := pknet.BytesToAddress([]byte("bob"))
	_, err = s.SubStake(bob, pknet.PoolConnectivity, pknet.UnitScale, unlocked)
	require.EqualError(t, err, "no stake found")
}

func TestSubStakeNoLockPool(t *testing.T) {
	s := newTestStaker(t)
	alice := pknet.BytesToAddress([]byte("alice"))

	_, err := s.AddStake(alice, pknet.PoolGovernance, 500*pknet.UnitScale, genesisTime)
	require.NoError(t, err)

	_, err = s.SubStake(alice, pknet.PoolGovernance, 500*pknet.UnitScale, genesisTime)
	require.NoError(t, err)
}

func TestClaimQuantizesToZero(t *testing.T) {
	s := newTestStaker(t)
	alice := pknet.BytesToAddress([]byte("alice"))

	_, err := s.AddStake(alice, pknet.PoolConnectivity, 500*pknet.UnitScale, genesisTime)
	require.NoError(t, err)

	// at preset rates the per-second rate floors to zero, so nothing
	// ever accrues
	_, err = s.Claim(alice, pknet.PoolConnectivity, genesisTime+30*pknet.SecondsPerDay)
	require.EqualError(t, err, "no rewards to claim")
}

func TestClaim(t *testing.T) {
	s := newTestStaker(t)
	alice := pknet.BytesToAddress([]byte("alice"))

	// a pool whose rate survives the per-second floor
	pool, err := s.GetPool(pknet.PoolConnectivity)
	require.NoError(t, err)
	pool.APYBps = 3_153_600_000
	require.NoError(t, s.savePool(pknet.PoolConnectivity, pool))

	_, err = s.AddStake(alice, pknet.PoolConnectivity, 500*pknet.UnitScale, genesisTime)
	require.NoError(t, err)

	amount, err := s.Claim(alice, pknet.PoolConnectivity, genesisTime+100)
	require.NoError(t, err)
	// 500e9 * 1 per second * 100s / 1e9
	assert.Equal(t, uint64(50_000), amount)

	stake, found, err := s.GetStake(alice, pknet.PoolConnectivity)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint64(genesisTime+100), stake.LastClaim)
	assert.Equal(t, uint64(50_000), stake.RewardsClaimed)

	// immediately claiming again has nothing accrued
	_, err = s.Claim(alice, pknet.PoolConnectivity, genesisTime+100)
	require.EqualError(t, err, "no rewards to claim")
}

func TestInitPoolIdempotent(t *testing.T) {
	s := newTestStaker(t)
	alice := pknet.BytesToAddress([]byte("alice"))

	_, err := s.AddStake(alice, pknet.PoolConnectivity, 500*pknet.UnitScale, genesisTime)
	require.NoError(t, err)

	// re-initialization must not reset accumulated state
	require.NoError(t, s.InitPool(pknet.PoolConnectivity, genesisTime+100))
	pool, err := s.GetPool(pknet.PoolConnectivity)
	require.NoError(t, err)
	assert.Equal(t, 500*pknet.UnitScale, pool.TotalStaked)
	assert.Equal(t, uint64(genesisTime), pool.CreatedAt)
}

func TestUnstakeAccruesPending(t *testing.T) {
	s := newTestStaker(t)
	alice := pknet.BytesToAddress([]byte("alice"))

	pool, err := s.GetPool(pknet.PoolGovernance)
	require.NoError(t, err)
	pool.APYBps = 3_153_600_000
	require.NoError(t, s.savePool(pknet.PoolGovernance, pool))

	_, err = s.AddStake(alice, pknet.PoolGovernance, 500*pknet.UnitScale, genesisTime)
	require.NoError(t, err)

	// the accrual up to the unstake is preserved, not discarded
	stake, err := s.SubStake(alice, pknet.PoolGovernance, 500*pknet.UnitScale, genesisTime+100)
	require.NoError(t, err)
	assert.Zero(t, stake.Amount)
	assert.Equal(t, uint64(50_000), stake.PendingRewards)

	// a drained position cannot claim its pending rewards
	_, err = s.Claim(alice, pknet.PoolGovernance, genesisTime+200)
	require.EqualError(t, err, "no stake found")

	// staking into the pool anew makes them claimable again
	_, err = s.AddStake(alice, pknet.PoolGovernance, 500*pknet.UnitScale, genesisTime+100)
	require.NoError(t, err)
	amount, err := s.Claim(alice, pknet.PoolGovernance, genesisTime+200)
	require.NoError(t, err)
	assert.Equal(t, uint64(100_000), amount)

	pool, err = s.GetPool(pknet.PoolGovernance)
	require.NoError(t, err)
	assert.Equal(t, uint64(100_000), pool.TotalRewardsPaid)
}

func TestClaimNoStake(t *testing.T) {
	s := newTestStaker(t)
	alice := pknet.BytesToAddress([]byte("alice"))

	_, err := s.Claim(alice, pknet.PoolConnectivity, genesisTime)
	require.EqualError(t, err, "no stake found")
}

func TestPoolAuthorityDistinct(t *testing.T) {
	seen := make(map[pknet.Address]bool)
	for _, cat := range pknet.PoolCategories() {
		addr := PoolAuthority(cat)
		assert.False(t, seen[addr])
		seen[addr] = true
	}
}
