// Copyright (c) 2025 The PKNet developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package gov implements the proposal and voting state machine. Proposals
// run a fixed voting window; each voter casts at most one ballot whose power
// is snapshotted at cast time. Execution is one-shot and happens only after
// the window closes.
package gov

import (
	"encoding/binary"

	"github.com/pknet/pknet/builtin/reward"
	"github.com/pknet/pknet/operr"
	"github.com/pknet/pknet/pknet"
	"github.com/pknet/pknet/state"
)

var (
	errTitleTooLong      = operr.Validation("title is too long")
	errDescTooLong       = operr.Validation("description is too long")
	errBelowThreshold    = operr.Precondition("insufficient tokens for proposal")
	errUnknownType       = operr.Validation("unknown proposal type")
	errNotFound          = operr.Precondition("proposal not found")
	errVotingNotStarted  = operr.Precondition("voting has not started")
	errVotingEnded       = operr.Precondition("voting period has ended")
	errAlreadyExecuted   = operr.Precondition("proposal already executed")
	errAlreadyVoted      = operr.Precondition("already voted")
	errNoVotingPower     = operr.Precondition("no voting power")
	errVotingStillActive = operr.Precondition("voting is still active")
	errNoVotesCast       = operr.Precondition("no votes cast")
	errUnknownChoice     = operr.Validation("unknown vote choice")
)

// ProposalType enumerates what a proposal intends to change.
type ProposalType uint8

const (
	ParameterChange ProposalType = iota
	TreasurySpend
	ProtocolUpgrade
	RewardRateChange
	NetworkExpansion

	proposalTypeCount = 5
)

// Valid reports whether t is a known proposal type.
func (t ProposalType) Valid() bool {
	return t < proposalTypeCount
}

func (t ProposalType) String() string {
	switch t {
	case ParameterChange:
		return "parameter-change"
	case TreasurySpend:
		return "treasury-spend"
	case ProtocolUpgrade:
		return "protocol-upgrade"
	case RewardRateChange:
		return "reward-rate-change"
	case NetworkExpansion:
		return "network-expansion"
	}
	return "unknown"
}

// Choice is a ballot option.
type Choice uint8

const (
	Yes Choice = iota
	No
	Abstain
)

// Valid reports whether c is a known ballot option.
func (c Choice) Valid() bool {
	return c <= Abstain
}

func (c Choice) String() string {
	switch c {
	case Yes:
		return "yes"
	case No:
		return "no"
	case Abstain:
		return "abstain"
	}
	return "unknown"
}

// Proposal is a governance proposal record. Timestamps are unix seconds.
// YesVotes and NoVotes accumulate snapshotted voting power; TotalVotes
// counts ballots, abstentions included.
type Proposal struct {
	ID           uint64
	Proposer     pknet.Address
	Title        string
	Description  string
	PType        uint8
	CreatedAt    uint64
	VotingEndsAt uint64
	YesVotes     uint64
	NoVotes      uint64
	TotalVotes   uint64
	Executed     bool
	Approved     bool
}

// checkBounds rejects out-of-bound strings both before encoding and after
// decoding, so a corrupted store never yields an over-long record.
func (p *Proposal) checkBounds() error {
	if len(p.Title) > pknet.MaxTitleLen {
		return errTitleTooLong
	}
	if len(p.Description) > pknet.MaxDescriptionLen {
		return errDescTooLong
	}
	return nil
}

// Vote is one cast ballot.
type Vote struct {
	ProposalID uint64
	Voter      pknet.Address
	Choice     uint8
	Power      uint64
	CastAt     uint64
}

// Gov provides access to proposal and vote records.
type Gov struct {
	addr  pknet.Address
	state *state.State
}

// New creates a governance instance bound to the given state.
func New(addr pknet.Address, st *state.State) *Gov {
	return &Gov{addr, st}
}

func idBytes(id uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], id)
	return b[:]
}

func proposalKey(id uint64) pknet.Bytes32 {
	return pknet.DeriveKey(pknet.SeedProposal, idBytes(id))
}

func voteKey(id uint64, voter pknet.Address) pknet.Bytes32 {
	return pknet.DeriveKey(pknet.SeedVote, idBytes(id), voter.Bytes())
}

// Create opens a proposal under the given ID. power is the proposer's
// aggregate stake and must reach the governance threshold.
func (g *Gov) Create(
	id uint64,
	proposer pknet.Address,
	title, description string,
	ptype ProposalType,
	power, threshold uint64,
	now int64,
) (*Proposal, error) {
	if !ptype.Valid() {
		return nil, errUnknownType
	}
	if power < threshold {
		return nil, errBelowThreshold
	}
	proposal := &Proposal{
		ID:           id,
		Proposer:     proposer,
		Title:        title,
		Description:  description,
		PType:        byte(ptype),
		CreatedAt:    uint64(now),
		VotingEndsAt: uint64(now + pknet.VotingPeriod),
	}
	if err := proposal.checkBounds(); err != nil {
		return nil, err
	}
	if err := g.save(proposal); err != nil {
		return nil, err
	}
	return proposal, nil
}

// Get loads a proposal by ID.
func (g *Gov) Get(id uint64) (*Proposal, error) {
	key := proposalKey(id)
	ok, err := g.state.Exists(g.addr, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errNotFound
	}
	var proposal Proposal
	if err := g.state.GetStructuredStorage(g.addr, key, &proposal); err != nil {
		return nil, err
	}
	if err := proposal.checkBounds(); err != nil {
		return nil, operr.StateConsistency(err.Error())
	}
	return &proposal, nil
}

func (g *Gov) save(proposal *Proposal) error {
	return g.state.SetStructuredStorage(g.addr, proposalKey(proposal.ID), proposal)
}

// GetVote loads the ballot of a voter on a proposal, if any.
func (g *Gov) GetVote(id uint64, voter pknet.Address) (*Vote, bool, error) {
	key := voteKey(id, voter)
	ok, err := g.state.Exists(g.addr, key)
	if err != nil || !ok {
		return nil, false, err
	}
	var vote Vote
	if err := g.state.GetStructuredStorage(g.addr, key, &vote); err != nil {
		return nil, false, err
	}
	return &vote, true, nil
}

// CastVote records a ballot. power is the voter's aggregate stake at cast
// time; it is snapshotted into the ballot and the proposal tallies.
func (g *Gov) CastVote(id uint64, voter pknet.Address, choice Choice, power uint64, now int64) error {
	if !choice.Valid() {
		return errUnknownChoice
	}
	proposal, err := g.Get(id)
	if err != nil {
		return err
	}
	if now < int64(proposal.CreatedAt) {
		return errVotingNotStarted
	}
	if now > int64(proposal.VotingEndsAt) {
		return errVotingEnded
	}
	if proposal.Executed {
		return errAlreadyExecuted
	}
	if _, voted, err := g.GetVote(id, voter); err != nil {
		return err
	} else if voted {
		return errAlreadyVoted
	}
	if power == 0 {
		return errNoVotingPower
	}

	// abstentions count as ballots but move neither tally
	switch choice {
	case Yes:
		if proposal.YesVotes, err = reward.Add64(proposal.YesVotes, power); err != nil {
			return err
		}
	case No:
		if proposal.NoVotes, err = reward.Add64(proposal.NoVotes, power); err != nil {
			return err
		}
	}
	proposal.TotalVotes++
	vote := &Vote{
		ProposalID: id,
		Voter:      voter,
		Choice:     byte(choice),
		Power:      power,
		CastAt:     uint64(now),
	}
	if err := g.state.SetStructuredStorage(g.addr, voteKey(id, voter), vote); err != nil {
		return err
	}
	return g.save(proposal)
}

// Execute closes a proposal after its voting window. A proposal passes
// when yes votes hold a strict majority of the yes+no power; abstentions
// never count toward the outcome. Execution is one-shot.
func (g *Gov) Execute(id uint64, now int64) (*Proposal, error) {
	proposal, err := g.Get(id)
	if err != nil {
		return nil, err
	}
	if now <= int64(proposal.VotingEndsAt) {
		return nil, errVotingStillActive
	}
	if proposal.Executed {
		return nil, errAlreadyExecuted
	}
	decisive, err := reward.Add64(proposal.YesVotes, proposal.NoVotes)
	if err != nil {
		return nil, err
	}
	if decisive == 0 {
		return nil, errNoVotesCast
	}
	proposal.Executed = true
	proposal.Approved = proposal.YesVotes > decisive/2
	if err := g.save(proposal); err != nil {
		return nil, err
	}
	return proposal, nil
}
