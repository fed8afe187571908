// Copyright (c) 2025 The PKNet developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package registry implements the singleton network registry record. It keeps
// the network authority, global counters, the per-category reward rates and
// the proposal sequence.
package registry

import (
	"github.com/pknet/pknet/builtin/reward"
	"github.com/pknet/pknet/operr"
	"github.com/pknet/pknet/pknet"
	"github.com/pknet/pknet/state"
)

var (
	entryKey = pknet.DeriveKey(pknet.SeedNetworkRegistry)

	errNotInitialized      = operr.StateConsistency("network registry not initialized")
	errInvalidRewardRate   = operr.Validation("invalid reward rate")
	errInvalidThreshold    = operr.Validation("invalid governance threshold")
	errDistributionTooSoon = operr.Precondition("distribution too frequent")
	errInsufficientStaked  = operr.Precondition("insufficient staked amount")
)

// Entry is the registry record. Token is the address of the token-ledger
// contract the network settles in. Timestamps are unix seconds.
type Entry struct {
	Authority           pknet.Address
	Token               pknet.Address
	TotalStaked         uint64
	AssetCounts         [pknet.AssetCategoryCount]uint32
	RewardRates         [pknet.AssetCategoryCount]uint64
	LastDistribution    uint64
	GovernanceThreshold uint64
	ProposalSeq         uint64
}

// DefaultRewardRates returns the genesis per-category submission reward
// rates in smallest units per metric.
func DefaultRewardRates() [pknet.AssetCategoryCount]uint64 {
	return [pknet.AssetCategoryCount]uint64{
		pknet.AssetConnectivity: pknet.DefaultConnectivityRewardRate,
		pknet.AssetLogistics:    pknet.DefaultLogisticsRewardRate,
		pknet.AssetAgriculture:  pknet.DefaultAgricultureRewardRate,
		pknet.AssetHealthcare:   pknet.DefaultHealthcareRewardRate,
		pknet.AssetTaxation:     pknet.DefaultTaxationRewardRate,
	}
}

// Registry provides access to the registry record.
type Registry struct {
	addr  pknet.Address
	state *state.State
}

// New creates a registry instance bound to the given state.
func New(addr pknet.Address, st *state.State) *Registry {
	return &Registry{addr, st}
}

// Init writes the genesis registry record. The record is only ever written
// once, at genesis time.
func (r *Registry) Init(authority, token pknet.Address, now int64) error {
	entry := &Entry{
		Authority:           authority,
		Token:               token,
		RewardRates:         DefaultRewardRates(),
		LastDistribution:    uint64(now),
		GovernanceThreshold: pknet.GovernanceThreshold,
	}
	return r.save(entry)
}

// Get loads the registry record.
func (r *Registry) Get() (*Entry, error) {
	var entry Entry
	ok, err := r.state.Exists(r.addr, entryKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errNotInitialized
	}
	if err := r.state.GetStructuredStorage(r.addr, entryKey, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *Registry) save(entry *Entry) error {
	return r.state.SetStructuredStorage(r.addr, entryKey, entry)
}

// NextProposalID advances the proposal sequence and returns the new ID.
// IDs start at 1.
func (r *Registry) NextProposalID() (uint64, error) {
	entry, err := r.Get()
	if err != nil {
		return 0, err
	}
	seq, err := reward.Add64(entry.ProposalSeq, 1)
	if err != nil {
		return 0, err
	}
	entry.ProposalSeq = seq
	if err := r.save(entry); err != nil {
		return 0, err
	}
	return seq, nil
}

// AddTotalStaked grows the network-wide staked counter.
func (r *Registry) AddTotalStaked(amount uint64) error {
	entry, err := r.Get()
	if err != nil {
		return err
	}
	total, err := reward.Add64(entry.TotalStaked, amount)
	if err != nil {
		return err
	}
	entry.TotalStaked = total
	return r.save(entry)
}

// SubTotalStaked shrinks the network-wide staked counter.
func (r *Registry) SubTotalStaked(amount uint64) error {
	entry, err := r.Get()
	if err != nil {
		return err
	}
	if entry.TotalStaked < amount {
		return errInsufficientStaked
	}
	entry.TotalStaked -= amount
	return r.save(entry)
}

// BumpAssetCount increments the registered-asset counter for a category.
func (r *Registry) BumpAssetCount(cat pknet.AssetCategory) error {
	entry, err := r.Get()
	if err != nil {
		return err
	}
	entry.AssetCounts[cat]++
	return r.save(entry)
}

// UpdateRewardRates replaces the per-category submission reward rates.
// Zero rates are rejected.
func (r *Registry) UpdateRewardRates(rates [pknet.AssetCategoryCount]uint64) error {
	for _, rate := range rates {
		if rate == 0 {
			return errInvalidRewardRate
		}
	}
	entry, err := r.Get()
	if err != nil {
		return err
	}
	entry.RewardRates = rates
	return r.save(entry)
}

// UpdateGovernanceThreshold replaces the minimum aggregate stake required
// to open a proposal. A zero threshold is rejected.
func (r *Registry) UpdateGovernanceThreshold(threshold uint64) error {
	if threshold == 0 {
		return errInvalidThreshold
	}
	entry, err := r.Get()
	if err != nil {
		return err
	}
	entry.GovernanceThreshold = threshold
	return r.save(entry)
}

// MarkDistribution records an authority reward distribution. Distributions
// are rate-limited to one per distribution interval.
func (r *Registry) MarkDistribution(now int64) error {
	entry, err := r.Get()
	if err != nil {
		return err
	}
	if now-int64(entry.LastDistribution) < pknet.DistributionInterval {
		return errDistributionTooSoon
	}
	entry.LastDistribution = uint64(now)
	return r.save(entry)
}
