// Copyright (c) 2025 The PKNet developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime exposes the public ledger operations. Every operation runs
// under a state checkpoint and commits as a whole; a failed precondition or
// store error leaves the ledger untouched. Operations are serialized, so
// reads inside one operation always see a settled state.
package runtime

import (
	"sync"

	"github.com/pknet/pknet/builtin"
	"github.com/pknet/pknet/builtin/asset"
	"github.com/pknet/pknet/builtin/gov"
	"github.com/pknet/pknet/builtin/staker"
	"github.com/pknet/pknet/eventdb"
	"github.com/pknet/pknet/log"
	"github.com/pknet/pknet/metrics"
	"github.com/pknet/pknet/operr"
	"github.com/pknet/pknet/pknet"
	"github.com/pknet/pknet/state"
)

var (
	logger = log.WithContext("pkg", "runtime")

	metricOpCommitted = metrics.CounterVec("operation_committed_count", []string{"op"})
	metricOpFailed    = metrics.CounterVec("operation_failed_count", []string{"op"})
	metricTotalStaked = metrics.Gauge("total_staked_gauge")

	errUnauthorized    = operr.Authorization("unauthorized")
	errInvalidAmount   = operr.Validation("invalid distribution amount")
	errUnknownCategory = operr.Validation("unknown asset category")
)

// EffectHandler applies the on-ledger effect of an approved proposal.
// It runs inside the executing operation's checkpoint.
type EffectHandler func(st *state.State, proposal *gov.Proposal, now int64) error

// Runtime is the operation layer over one ledger state.
type Runtime struct {
	mu      sync.Mutex
	state   *state.State
	events  *eventdb.EventDB
	effects map[gov.ProposalType]EffectHandler
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithEventDB attaches an operation journal. Journal failures are logged
// and never fail the operation.
func WithEventDB(db *eventdb.EventDB) Option {
	return func(rt *Runtime) { rt.events = db }
}

// New creates a runtime over the given state.
func New(st *state.State, opts ...Option) *Runtime {
	rt := &Runtime{
		state:   st,
		effects: make(map[gov.ProposalType]EffectHandler),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// RegisterEffect installs the effect handler for one proposal type,
// replacing any previous handler. Approved proposals without a handler
// settle with no ledger effect.
func (rt *Runtime) RegisterEffect(ptype gov.ProposalType, handler EffectHandler) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.effects[ptype] = handler
}

// execute runs fn under a checkpoint, commits on success and reverts on
// failure. fn returns the settled amount and a journal detail string.
func (rt *Runtime) execute(name string, user pknet.Address, now int64, fn func() (uint64, string, error)) (uint64, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rev := rt.state.NewCheckpoint()
	// the journal entries are persisted by the commit or rejected; popping
	// them is safe either way since the commit refreshes the record cache
	defer rt.state.RevertTo(rev)

	amount, detail, err := fn()
	if err == nil {
		_, err = rt.state.Stage().Commit()
	}
	if err != nil {
		metricOpFailed.AddWithLabel(1, map[string]string{"op": name})
		logger.Debug("operation rejected", "op", name, "user", user, "err", err)
		return 0, err
	}

	metricOpCommitted.AddWithLabel(1, map[string]string{"op": name})
	logger.Info("operation committed", "op", name, "user", user, "amount", amount)
	if rt.events != nil {
		ev := &eventdb.Event{Time: now, Name: name, User: user, Amount: amount, Detail: detail}
		if err := rt.events.Insert(ev); err != nil {
			logger.Warn("event journal write failed", "op", name, "err", err)
		}
	}
	return amount, nil
}

func (rt *Runtime) refreshStakedGauge() error {
	entry, err := builtin.Registry.Native(rt.state).Get()
	if err != nil {
		return err
	}
	metricTotalStaked.Set(int64(entry.TotalStaked))
	return nil
}

// Stake deposits amount of the user's tokens into the pool of the given
// category. Tokens move to the pool's custody account.
func (rt *Runtime) Stake(user pknet.Address, cat pknet.PoolCategory, amount uint64, now int64) error {
	_, err := rt.execute("stake", user, now, func() (uint64, string, error) {
		if _, err := builtin.Staker.Native(rt.state).AddStake(user, cat, amount, now); err != nil {
			return 0, "", err
		}
		if err := builtin.Token.Native(rt.state).Transfer(user, staker.PoolAuthority(cat), amount); err != nil {
			return 0, "", err
		}
		if err := builtin.Registry.Native(rt.state).AddTotalStaked(amount); err != nil {
			return 0, "", err
		}
		if err := builtin.Profile.Native(rt.state).AddStake(user, amount, now); err != nil {
			return 0, "", err
		}
		if err := rt.refreshStakedGauge(); err != nil {
			return 0, "", err
		}
		return amount, cat.String(), nil
	})
	return err
}

// Unstake withdraws amount from the user's position after its lock window.
// Tokens move back from the pool's custody account.
func (rt *Runtime) Unstake(user pknet.Address, cat pknet.PoolCategory, amount uint64, now int64) error {
	_, err := rt.execute("unstake", user, now, func() (uint64, string, error) {
		if _, err := builtin.Staker.Native(rt.state).SubStake(user, cat, amount, now); err != nil {
			return 0, "", err
		}
		if err := builtin.Token.Native(rt.state).Transfer(staker.PoolAuthority(cat), user, amount); err != nil {
			return 0, "", err
		}
		if err := builtin.Registry.Native(rt.state).SubTotalStaked(amount); err != nil {
			return 0, "", err
		}
		if err := builtin.Profile.Native(rt.state).SubStake(user, amount, now); err != nil {
			return 0, "", err
		}
		if err := rt.refreshStakedGauge(); err != nil {
			return 0, "", err
		}
		return amount, cat.String(), nil
	})
	return err
}

// ClaimRewards settles the user's accrued staking rewards in one pool,
// minting them to the user. It returns the claimed amount.
func (rt *Runtime) ClaimRewards(user pknet.Address, cat pknet.PoolCategory, now int64) (uint64, error) {
	return rt.execute("claim_rewards", user, now, func() (uint64, string, error) {
		amount, err := builtin.Staker.Native(rt.state).Claim(user, cat, now)
		if err != nil {
			return 0, "", err
		}
		if err := builtin.Token.Native(rt.state).Mint(user, amount); err != nil {
			return 0, "", err
		}
		if err := builtin.Profile.Native(rt.state).CreditReward(user, amount, now); err != nil {
			return 0, "", err
		}
		return amount, cat.String(), nil
	})
}

// CreateProposal opens a governance proposal and returns its ID. The
// proposer's aggregate stake must reach the governance threshold.
func (rt *Runtime) CreateProposal(
	proposer pknet.Address,
	title, description string,
	ptype gov.ProposalType,
	now int64,
) (uint64, error) {
	return rt.execute("create_proposal", proposer, now, func() (uint64, string, error) {
		entry, err := builtin.Registry.Native(rt.state).Get()
		if err != nil {
			return 0, "", err
		}
		prof, err := builtin.Profile.Native(rt.state).Get(proposer, now)
		if err != nil {
			return 0, "", err
		}
		id, err := builtin.Registry.Native(rt.state).NextProposalID()
		if err != nil {
			return 0, "", err
		}
		if _, err := builtin.Gov.Native(rt.state).Create(
			id, proposer, title, description, ptype,
			prof.TotalStaked, entry.GovernanceThreshold, now,
		); err != nil {
			return 0, "", err
		}
		return id, title, nil
	})
}

// CastVote records the voter's ballot on a proposal. Voting power is the
// voter's aggregate stake at cast time.
func (rt *Runtime) CastVote(voter pknet.Address, id uint64, choice gov.Choice, now int64) error {
	_, err := rt.execute("cast_vote", voter, now, func() (uint64, string, error) {
		prof, err := builtin.Profile.Native(rt.state).Get(voter, now)
		if err != nil {
			return 0, "", err
		}
		if err := builtin.Gov.Native(rt.state).CastVote(id, voter, choice, prof.TotalStaked, now); err != nil {
			return 0, "", err
		}
		if err := builtin.Profile.Native(rt.state).IncrementVotes(voter, now); err != nil {
			return 0, "", err
		}
		return prof.TotalStaked, choice.String(), nil
	})
	return err
}

// ExecuteProposal closes a proposal after its voting window, applying the
// registered effect when approved. It returns the settled proposal.
func (rt *Runtime) ExecuteProposal(executor pknet.Address, id uint64, now int64) (*gov.Proposal, error) {
	var settled *gov.Proposal
	_, err := rt.execute("execute_proposal", executor, now, func() (uint64, string, error) {
		proposal, err := builtin.Gov.Native(rt.state).Execute(id, now)
		if err != nil {
			return 0, "", err
		}
		if proposal.Approved {
			if handler, ok := rt.effects[gov.ProposalType(proposal.PType)]; ok {
				if err := handler(rt.state, proposal, now); err != nil {
					return 0, "", err
				}
			} else {
				logger.Info("proposal effect dispatched with no handler",
					"id", proposal.ID, "type", gov.ProposalType(proposal.PType))
			}
		}
		settled = proposal
		detail := "rejected"
		if proposal.Approved {
			detail = "approved"
		}
		return id, detail, nil
	})
	if err != nil {
		return nil, err
	}
	return settled, nil
}

// RegisterAsset records a new infrastructure asset for the owner.
func (rt *Runtime) RegisterAsset(
	owner pknet.Address,
	cat pknet.AssetCategory,
	name, location string,
	attributes []string,
	now int64,
) error {
	_, err := rt.execute("register_asset", owner, now, func() (uint64, string, error) {
		if _, err := builtin.Asset.Native(rt.state).Register(owner, cat, name, location, attributes, now); err != nil {
			return 0, "", err
		}
		if err := builtin.Profile.Native(rt.state).RegisterAsset(owner, cat, now); err != nil {
			return 0, "", err
		}
		if err := builtin.Registry.Native(rt.state).BumpAssetCount(cat); err != nil {
			return 0, "", err
		}
		return 0, name, nil
	})
	return err
}

// SubmitUsage records a usage proof for an asset, mints the earned reward
// to the owner and adjusts the owner's reputation by the performance score.
// It returns the minted amount.
func (rt *Runtime) SubmitUsage(
	owner pknet.Address,
	cat pknet.AssetCategory,
	name string,
	metricCount uint64,
	score uint8,
	now int64,
) (uint64, error) {
	return rt.execute("submit_usage", owner, now, func() (uint64, string, error) {
		if !cat.Valid() {
			return 0, "", errUnknownCategory
		}
		entry, err := builtin.Registry.Native(rt.state).Get()
		if err != nil {
			return 0, "", err
		}
		amount, err := builtin.Asset.Native(rt.state).Submit(
			owner, cat, name, metricCount, score, entry.RewardRates[cat], now)
		if err != nil {
			return 0, "", err
		}
		if err := builtin.Token.Native(rt.state).Mint(owner, amount); err != nil {
			return 0, "", err
		}
		prof := builtin.Profile.Native(rt.state)
		if err := prof.CreditReward(owner, amount, now); err != nil {
			return 0, "", err
		}
		if delta := asset.ReputationDelta(score); delta != 0 {
			if err := prof.AdjustReputation(owner, delta, now); err != nil {
				return 0, "", err
			}
		}
		return amount, name, nil
	})
}

// UpdateRewardRates replaces the per-category submission reward rates.
// Only the network authority may call it.
func (rt *Runtime) UpdateRewardRates(signer pknet.Address, rates [pknet.AssetCategoryCount]uint64, now int64) error {
	_, err := rt.execute("update_reward_rates", signer, now, func() (uint64, string, error) {
		reg := builtin.Registry.Native(rt.state)
		entry, err := reg.Get()
		if err != nil {
			return 0, "", err
		}
		if signer != entry.Authority {
			return 0, "", errUnauthorized
		}
		if err := reg.UpdateRewardRates(rates); err != nil {
			return 0, "", err
		}
		return 0, "", nil
	})
	return err
}

// UpdateGovernanceThreshold replaces the proposal-creation stake threshold.
// Only the network authority may call it.
func (rt *Runtime) UpdateGovernanceThreshold(signer pknet.Address, threshold uint64, now int64) error {
	_, err := rt.execute("update_governance_threshold", signer, now, func() (uint64, string, error) {
		reg := builtin.Registry.Native(rt.state)
		entry, err := reg.Get()
		if err != nil {
			return 0, "", err
		}
		if signer != entry.Authority {
			return 0, "", errUnauthorized
		}
		if err := reg.UpdateGovernanceThreshold(threshold); err != nil {
			return 0, "", err
		}
		return threshold, "", nil
	})
	return err
}

// DistributeRewards mints a network reward distribution to the recipient.
// Only the network authority may call it, at most once per distribution
// interval.
func (rt *Runtime) DistributeRewards(signer, recipient pknet.Address, amount uint64, now int64) error {
	_, err := rt.execute("distribute_rewards", signer, now, func() (uint64, string, error) {
		reg := builtin.Registry.Native(rt.state)
		entry, err := reg.Get()
		if err != nil {
			return 0, "", err
		}
		if signer != entry.Authority {
			return 0, "", errUnauthorized
		}
		if amount == 0 {
			return 0, "", errInvalidAmount
		}
		if err := reg.MarkDistribution(now); err != nil {
			return 0, "", err
		}
		if err := builtin.Token.Native(rt.state).Mint(recipient, amount); err != nil {
			return 0, "", err
		}
		if err := builtin.Profile.Native(rt.state).CreditReward(recipient, amount, now); err != nil {
			return 0, "", err
		}
		return amount, recipient.String(), nil
	})
	return err
}
