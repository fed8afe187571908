// Copyright (c) 2025 The PKNet developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package profile maintains per-user aggregate records. Profiles are created
// lazily on first activity and only accumulate; they are never deleted.
package profile

import (
	"github.com/pknet/pknet/builtin/reward"
	"github.com/pknet/pknet/operr"
	"github.com/pknet/pknet/pknet"
	"github.com/pknet/pknet/state"
)

var errInsufficientStaked = operr.Precondition("insufficient staked amount")

// Entry is a user profile record. Timestamps are unix seconds.
type Entry struct {
	Owner           pknet.Address
	TotalEarned     uint64
	TotalStaked     uint64
	ReputationScore uint16
	JoinedAt        uint64
	LastActivity    uint64
	AssetCounts     [pknet.AssetCategoryCount]uint8
	GovernanceVotes uint32
}

// Profile provides access to user profile records.
type Profile struct {
	addr  pknet.Address
	state *state.State
}

// New creates a profile store bound to the given state.
func New(addr pknet.Address, st *state.State) *Profile {
	return &Profile{addr, st}
}

func entryKey(user pknet.Address) pknet.Bytes32 {
	return pknet.DeriveKey(pknet.SeedUserProfile, user.Bytes())
}

// Get loads the profile of a user. Users without activity yield a fresh
// zero-activity profile that has not been persisted.
func (p *Profile) Get(user pknet.Address, now int64) (*Entry, error) {
	return p.getOrCreate(user, now)
}

func (p *Profile) getOrCreate(user pknet.Address, now int64) (*Entry, error) {
	key := entryKey(user)
	ok, err := p.state.Exists(p.addr, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Entry{
			Owner:           user,
			ReputationScore: pknet.InitialReputation,
			JoinedAt:        uint64(now),
			LastActivity:    uint64(now),
		}, nil
	}
	var entry Entry
	if err := p.state.GetStructuredStorage(p.addr, key, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (p *Profile) save(entry *Entry) error {
	return p.state.SetStructuredStorage(p.addr, entryKey(entry.Owner), entry)
}

// CreditReward adds earned rewards to the user's lifetime total.
func (p *Profile) CreditReward(user pknet.Address, amount uint64, now int64) error {
	entry, err := p.getOrCreate(user, now)
	if err != nil {
		return err
	}
	total, err := reward.Add64(entry.TotalEarned, amount)
	if err != nil {
		return err
	}
	entry.TotalEarned = total
	entry.LastActivity = uint64(now)
	return p.save(entry)
}

// AddStake grows the user's aggregate staked amount.
func (p *Profile) AddStake(user pknet.Address, amount uint64, now int64) error {
	entry, err := p.getOrCreate(user, now)
	if err != nil {
		return err
	}
	total, err := reward.Add64(entry.TotalStaked, amount)
	if err != nil {
		return err
	}
	entry.TotalStaked = total
	entry.LastActivity = uint64(now)
	return p.save(entry)
}

// SubStake shrinks the user's aggregate staked amount.
func (p *Profile) SubStake(user pknet.Address, amount uint64, now int64) error {
	entry, err := p.getOrCreate(user, now)
	if err != nil {
		return err
	}
	if entry.TotalStaked < amount {
		return errInsufficientStaked
	}
	entry.TotalStaked -= amount
	entry.LastActivity = uint64(now)
	return p.save(entry)
}

// RegisterAsset bumps the user's asset counter for a category.
func (p *Profile) RegisterAsset(user pknet.Address, cat pknet.AssetCategory, now int64) error {
	entry, err := p.getOrCreate(user, now)
	if err != nil {
		return err
	}
	if entry.AssetCounts[cat] == ^uint8(0) {
		return operr.Arithmetic("arithmetic overflow")
	}
	entry.AssetCounts[cat]++
	entry.LastActivity = uint64(now)
	return p.save(entry)
}

// IncrementVotes bumps the user's lifetime governance vote counter.
func (p *Profile) IncrementVotes(user pknet.Address, now int64) error {
	entry, err := p.getOrCreate(user, now)
	if err != nil {
		return err
	}
	entry.GovernanceVotes++
	entry.LastActivity = uint64(now)
	return p.save(entry)
}

// AdjustReputation moves the user's reputation by delta, clamped to
// [0, 100]. Submission quality drives the adjustment.
func (p *Profile) AdjustReputation(user pknet.Address, delta int, now int64) error {
	entry, err := p.getOrCreate(user, now)
	if err != nil {
		return err
	}
	score := int(entry.ReputationScore) + delta
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	entry.ReputationScore = uint16(score)
	entry.LastActivity = uint64(now)
	return p.save(entry)
}
