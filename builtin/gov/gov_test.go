// Copyright (c) 2025 The PKNet developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gov

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pknet/pknet/lvldb"
	"github.com/pknet/pknet/operr"
	"github.com/pknet/pknet/pknet"
	"github.com/pknet/pknet/state"
)

const testTime = int64(1_700_000_000)

var (
	alice = pknet.BytesToAddress([]byte("alice"))
	bob   = pknet.BytesToAddress([]byte("bob"))
	carol = pknet.BytesToAddress([]byte("carol"))
)

func newTestGov(t *testing.T) *Gov {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	return New(pknet.BytesToAddress([]byte("pkn-gov")), state.New(db))
}

func create(t *testing.T, g *Gov, id uint64) *Proposal {
	proposal, err := g.Create(id, alice, "expand coverage", "add relay sites", NetworkExpansion,
		pknet.GovernanceThreshold, pknet.GovernanceThreshold, testTime)
	require.NoError(t, err)
	return proposal
}

func TestCreate(t *testing.T) {
	g := newTestGov(t)

	proposal := create(t, g, 1)
	assert.Equal(t, uint64(1), proposal.ID)
	assert.Equal(t, alice, proposal.Proposer)
	assert.Equal(t, uint64(testTime+pknet.VotingPeriod), proposal.VotingEndsAt)
	assert.False(t, proposal.Executed)

	got, err := g.Get(1)
	require.NoError(t, err)
	assert.Equal(t, proposal, got)
}

func TestCreateBelowThreshold(t *testing.T) {
	g := newTestGov(t)

	_, err := g.Create(1, alice, "t", "d", ParameterChange,
		pknet.GovernanceThreshold-1, pknet.GovernanceThreshold, testTime)
	require.EqualError(t, err, "insufficient tokens for proposal")
	assert.Equal(t, operr.KindPrecondition, operr.KindOf(err))
}

func TestCreateBounds(t *testing.T) {
	g := newTestGov(t)
	power := uint64(pknet.GovernanceThreshold)

	// boundary lengths are accepted and survive the store round trip
	created, err := g.Create(1, alice, strings.Repeat("t", pknet.MaxTitleLen),
		strings.Repeat("d", pknet.MaxDescriptionLen), ParameterChange, power, power, testTime)
	require.NoError(t, err)
	got, err := g.Get(1)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = g.Create(2, alice, strings.Repeat("t", pknet.MaxTitleLen+1), "d",
		ParameterChange, power, power, testTime)
	require.EqualError(t, err, "title is too long")

	_, err = g.Create(3, alice, "t", strings.Repeat("d", pknet.MaxDescriptionLen+1),
		ParameterChange, power, power, testTime)
	require.EqualError(t, err, "description is too long")
}

func TestCastVote(t *testing.T) {
	g := newTestGov(t)
	create(t, g, 1)

	require.NoError(t, g.CastVote(1, bob, Yes, 700, testTime+1))
	require.NoError(t, g.CastVote(1, carol, No, 300, testTime+2))

	proposal, err := g.Get(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(700), proposal.YesVotes)
	assert.Equal(t, uint64(300), proposal.NoVotes)
	assert.Equal(t, uint64(2), proposal.TotalVotes)

	vote, found, err := g.GetVote(1, bob)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint64(700), vote.Power)
	assert.Equal(t, byte(Yes), vote.Choice)
}

func TestCastVoteRules(t *testing.T) {
	g := newTestGov(t)
	create(t, g, 1)

	err := g.CastVote(2, bob, Yes, 100, testTime)
	require.EqualError(t, err, "proposal not found")

	require.NoError(t, g.CastVote(1, bob, Yes, 100, testTime))
	err = g.CastVote(1, bob, No, 100, testTime)
	require.EqualError(t, err, "already voted")

	err = g.CastVote(1, carol, Yes, 0, testTime)
	require.EqualError(t, err, "no voting power")

	err = g.CastVote(1, carol, Yes, 100, testTime-1)
	require.EqualError(t, err, "voting has not started")

	err = g.CastVote(1, carol, Yes, 100, testTime+pknet.VotingPeriod+1)
	require.EqualError(t, err, "voting period has ended")
}

func TestExecuteApproved(t *testing.T) {
	g := newTestGov(t)
	create(t, g, 1)

	require.NoError(t, g.CastVote(1, bob, Yes, 700, testTime))
	require.NoError(t, g.CastVote(1, carol, No, 300, testTime))

	_, err := g.Execute(1, testTime+pknet.VotingPeriod)
	require.EqualError(t, err, "voting is still active")

	proposal, err := g.Execute(1, testTime+pknet.VotingPeriod+1)
	require.NoError(t, err)
	assert.True(t, proposal.Executed)
	assert.True(t, proposal.Approved)

	_, err = g.Execute(1, testTime+pknet.VotingPeriod+2)
	require.EqualError(t, err, "proposal already executed")
}

func TestExecuteTieRejected(t *testing.T) {
	g := newTestGov(t)
	create(t, g, 1)

	require.NoError(t, g.CastVote(1, bob, Yes, 500, testTime))
	require.NoError(t, g.CastVote(1, carol, No, 500, testTime))

	proposal, err := g.Execute(1, testTime+pknet.VotingPeriod+1)
	require.NoError(t, err)
	assert.True(t, proposal.Executed)
	// a tie is not a strict majority
	assert.False(t, proposal.Approved)
}

func TestExecuteAbstainOnly(t *testing.T) {
	g := newTestGov(t)
	create(t, g, 1)

	require.NoError(t, g.CastVote(1, bob, Abstain, 500, testTime))

	// abstentions never count toward the outcome
	_, err := g.Execute(1, testTime+pknet.VotingPeriod+1)
	require.EqualError(t, err, "no votes cast")

	proposal, err := g.Get(1)
	require.NoError(t, err)
	assert.Zero(t, proposal.YesVotes)
	assert.Zero(t, proposal.NoVotes)
	assert.Equal(t, uint64(1), proposal.TotalVotes)
	assert.False(t, proposal.Executed)
}

func TestExecuteNoVotes(t *testing.T) {
	g := newTestGov(t)
	create(t, g, 1)

	_, err := g.Execute(1, testTime+pknet.VotingPeriod+1)
	require.EqualError(t, err, "no votes cast")
}
