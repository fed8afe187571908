// Copyright (c) 2025 The PKNet developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import "github.com/pknet/pknet/pknet"

// Pool is a staking pool record. Timestamps are unix seconds.
type Pool struct {
	Category         uint8
	APYBps           uint64
	LockPeriod       uint64
	MinStake         uint64
	Capacity         uint64
	TotalStaked      uint64
	TotalRewardsPaid uint64
	StakerCount      uint32
	Active           bool
	CreatedAt        uint64
}

// Stake is a per-user position in one pool. StartTime is set on the first
// deposit and kept on top-ups, so the lock window never restarts.
// PendingRewards holds accruals settled by an unstake but not yet paid.
type Stake struct {
	Owner          pknet.Address
	Category       uint8
	Amount         uint64
	StartTime      uint64
	LastClaim      uint64
	PendingRewards uint64
	RewardsClaimed uint64
}

type poolPreset struct {
	apyBps     uint64
	lockPeriod int64
}

// Genesis pool parameters. Every pool shares the minimum stake and
// capacity; APY and lock period vary per category.
var presets = [pknet.PoolCategoryCount]poolPreset{
	pknet.PoolConnectivity:    {apyBps: 1200, lockPeriod: 30 * pknet.SecondsPerDay},
	pknet.PoolLogistics:       {apyBps: 1500, lockPeriod: 90 * pknet.SecondsPerDay},
	pknet.PoolAgriculture:     {apyBps: 1800, lockPeriod: 180 * pknet.SecondsPerDay},
	pknet.PoolGovernance:      {apyBps: 800, lockPeriod: 0},
	pknet.PoolLiquidityMining: {apyBps: 2500, lockPeriod: 14 * pknet.SecondsPerDay},
}

// PoolAuthority returns the derived custody address holding the staked
// tokens of one pool.
func PoolAuthority(cat pknet.PoolCategory) pknet.Address {
	return pknet.DeriveAddress(pknet.SeedPoolAuthority, []byte{byte(cat)})
}
