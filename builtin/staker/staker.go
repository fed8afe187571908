// Copyright (c) 2025 The PKNet developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staker implements the staking pools and per-user stake positions.
// It manages pool and stake records only; token custody, registry totals and
// profile aggregates are composed by the caller so a failed precondition
// leaves nothing half-applied.
package staker

import (
	"github.com/pknet/pknet/builtin/reward"
	"github.com/pknet/pknet/operr"
	"github.com/pknet/pknet/pknet"
	"github.com/pknet/pknet/state"
)

var (
	errInvalidAmount      = operr.Validation("invalid stake amount")
	errPoolInactive       = operr.Precondition("staking pool is inactive")
	errBelowMinimum       = operr.Validation("amount below minimum stake")
	errCapacityExceeded   = operr.Precondition("pool capacity exceeded")
	errInsufficientStaked = operr.Precondition("insufficient staked amount")
	errStillLocked        = operr.Precondition("stake is still locked")
	errNoStake            = operr.Precondition("no stake found")
	errNothingToClaim     = operr.StateConsistency("no rewards to claim")
	errUnknownPool        = operr.Validation("unknown staking pool")
)

// Staker provides access to pool and stake records.
type Staker struct {
	addr  pknet.Address
	state *state.State
}

// New creates a staker instance bound to the given state.
func New(addr pknet.Address, st *state.State) *Staker {
	return &Staker{addr, st}
}

func poolKey(cat pknet.PoolCategory) pknet.Bytes32 {
	return pknet.DeriveKey(pknet.SeedStakingPool, []byte{byte(cat)})
}

func stakeKey(user pknet.Address, cat pknet.PoolCategory) pknet.Bytes32 {
	return pknet.DeriveKey(pknet.SeedUserStake, user.Bytes(), []byte{byte(cat)})
}

// InitPool creates the pool for a category with its genesis parameters.
// All pools are created active at genesis. Re-initializing an existing pool
// leaves its accumulated state unchanged.
func (s *Staker) InitPool(cat pknet.PoolCategory, now int64) error {
	if !cat.Valid() {
		return errUnknownPool
	}
	if ok, err := s.state.Exists(s.addr, poolKey(cat)); err != nil {
		return err
	} else if ok {
		return nil
	}
	preset := presets[cat]
	pool := &Pool{
		Category:   byte(cat),
		APYBps:     preset.apyBps,
		LockPeriod: uint64(preset.lockPeriod),
		MinStake:   pknet.MinStakeAmount,
		Capacity:   pknet.PoolMaxCapacity,
		Active:     true,
		CreatedAt:  uint64(now),
	}
	return s.savePool(cat, pool)
}

// GetPool loads the pool record for a category.
func (s *Staker) GetPool(cat pknet.PoolCategory) (*Pool, error) {
	if !cat.Valid() {
		return nil, errUnknownPool
	}
	key := poolKey(cat)
	ok, err := s.state.Exists(s.addr, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, operr.StateConsistency("staking pool not initialized")
	}
	var pool Pool
	if err := s.state.GetStructuredStorage(s.addr, key, &pool); err != nil {
		return nil, err
	}
	return &pool, nil
}

func (s *Staker) savePool(cat pknet.PoolCategory, pool *Pool) error {
	return s.state.SetStructuredStorage(s.addr, poolKey(cat), pool)
}

// SetPoolActive flips the accepting-deposits flag of one pool.
func (s *Staker) SetPoolActive(cat pknet.PoolCategory, active bool) error {
	pool, err := s.GetPool(cat)
	if err != nil {
		return err
	}
	pool.Active = active
	return s.savePool(cat, pool)
}

// GetStake loads the stake of a user in one pool.
func (s *Staker) GetStake(user pknet.Address, cat pknet.PoolCategory) (*Stake, bool, error) {
	if !cat.Valid() {
		return nil, false, errUnknownPool
	}
	key := stakeKey(user, cat)
	ok, err := s.state.Exists(s.addr, key)
	if err != nil || !ok {
		return nil, false, err
	}
	var stake Stake
	if err := s.state.GetStructuredStorage(s.addr, key, &stake); err != nil {
		return nil, false, err
	}
	return &stake, true, nil
}

func (s *Staker) saveStake(user pknet.Address, cat pknet.PoolCategory, stake *Stake) error {
	return s.state.SetStructuredStorage(s.addr, stakeKey(user, cat), stake)
}

// AddStake deposits amount into the user's position in one pool, creating
// the position on first use. The lock window starts at the first deposit
// and is not restarted by top-ups.
func (s *Staker) AddStake(user pknet.Address, cat pknet.PoolCategory, amount uint64, now int64) (*Stake, error) {
	if amount == 0 {
		return nil, errInvalidAmount
	}
	pool, err := s.GetPool(cat)
	if err != nil {
		return nil, err
	}
	if !pool.Active {
		return nil, errPoolInactive
	}
	if amount < pool.MinStake {
		return nil, errBelowMinimum
	}
	total, err := reward.Add64(pool.TotalStaked, amount)
	if err != nil {
		return nil, err
	}
	if total > pool.Capacity {
		return nil, errCapacityExceeded
	}

	stake, found, err := s.GetStake(user, cat)
	if err != nil {
		return nil, err
	}
	if !found {
		stake = &Stake{
			Owner:     user,
			Category:  byte(cat),
			StartTime: uint64(now),
			LastClaim: uint64(now),
		}
	}
	if !found || stake.Amount == 0 {
		// drained positions are retained; count them again on re-entry
		pool.StakerCount++
	}
	stakeTotal, err := reward.Add64(stake.Amount, amount)
	if err != nil {
		return nil, err
	}
	stake.Amount = stakeTotal
	pool.TotalStaked = total

	if err := s.savePool(cat, pool); err != nil {
		return nil, err
	}
	if err := s.saveStake(user, cat, stake); err != nil {
		return nil, err
	}
	return stake, nil
}

// SubStake withdraws amount from the user's position. The position must be
// past its lock window. The interval since the last claim is accrued into
// PendingRewards before funds move, so the withdrawal never discards earned
// rewards. A fully drained position is retained; its pending rewards become
// claimable again once the user stakes into the pool anew.
func (s *Staker) SubStake(user pknet.Address, cat pknet.PoolCategory, amount uint64, now int64) (*Stake, error) {
	if amount == 0 {
		return nil, errInvalidAmount
	}
	pool, err := s.GetPool(cat)
	if err != nil {
		return nil, err
	}
	stake, found, err := s.GetStake(user, cat)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errNoStake
	}
	if stake.Amount < amount {
		return nil, errInsufficientStaked
	}
	unlockAt := int64(stake.StartTime) + int64(pool.LockPeriod)
	if now < unlockAt {
		return nil, errStillLocked
	}

	accrued, err := reward.StakingAccrual(stake.Amount, pool.APYBps, now-int64(stake.LastClaim))
	if err != nil {
		return nil, err
	}
	pending, err := reward.Add64(stake.PendingRewards, accrued)
	if err != nil {
		return nil, err
	}
	stake.PendingRewards = pending
	stake.LastClaim = uint64(now)

	stake.Amount -= amount
	if pool.TotalStaked < amount {
		return nil, operr.StateConsistency("pool total below stake withdrawal")
	}
	pool.TotalStaked -= amount
	if stake.Amount == 0 && pool.StakerCount > 0 {
		pool.StakerCount--
	}

	if err := s.saveStake(user, cat, stake); err != nil {
		return nil, err
	}
	if err := s.savePool(cat, pool); err != nil {
		return nil, err
	}
	return stake, nil
}

// Claim settles the rewards accrued since the last claim plus anything an
// earlier unstake left pending, and returns the total. The position must
// hold a positive amount; a total that floors to zero cannot claim.
func (s *Staker) Claim(user pknet.Address, cat pknet.PoolCategory, now int64) (uint64, error) {
	pool, err := s.GetPool(cat)
	if err != nil {
		return 0, err
	}
	stake, found, err := s.GetStake(user, cat)
	if err != nil {
		return 0, err
	}
	if !found || stake.Amount == 0 {
		return 0, errNoStake
	}
	accrued, err := reward.StakingAccrual(stake.Amount, pool.APYBps, now-int64(stake.LastClaim))
	if err != nil {
		return 0, err
	}
	amount, err := reward.Add64(stake.PendingRewards, accrued)
	if err != nil {
		return 0, err
	}
	if amount == 0 {
		return 0, errNothingToClaim
	}
	claimed, err := reward.Add64(stake.RewardsClaimed, amount)
	if err != nil {
		return 0, err
	}
	paid, err := reward.Add64(pool.TotalRewardsPaid, amount)
	if err != nil {
		return 0, err
	}
	stake.PendingRewards = 0
	stake.LastClaim = uint64(now)
	stake.RewardsClaimed = claimed
	pool.TotalRewardsPaid = paid

	if err := s.saveStake(user, cat, stake); err != nil {
		return 0, err
	}
	if err := s.savePool(cat, pool); err != nil {
		return 0, err
	}
	return amount, nil
}
