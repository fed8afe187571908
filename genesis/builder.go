// Copyright (c) 2025 The PKNet developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis builds the initial ledger state: the registry record, the
// initial token supply on the authority account and all five staking pools,
// created active.
package genesis

import (
	"github.com/pkg/errors"

	"github.com/pknet/pknet/builtin"
	"github.com/pknet/pknet/pknet"
	"github.com/pknet/pknet/state"
)

// Builder helper to build the genesis state.
type Builder struct {
	authority  pknet.Address
	timestamp  int64
	stateProcs []func(st *state.State) error
}

// NewBuilder creates an empty genesis builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Authority sets the network authority account. It receives the initial
// supply and controls the authority-gated operations.
func (b *Builder) Authority(addr pknet.Address) *Builder {
	b.authority = addr
	return b
}

// Timestamp sets the genesis time in unix seconds.
func (b *Builder) Timestamp(ts int64) *Builder {
	b.timestamp = ts
	return b
}

// State appends a state process to run after the standard genesis setup.
func (b *Builder) State(proc func(st *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Build initializes the genesis state in st. The caller stages and commits.
func (b *Builder) Build(st *state.State) error {
	if b.authority.IsZero() {
		return errors.New("genesis authority not set")
	}

	if err := builtin.Registry.Native(st).Init(b.authority, builtin.Token.Address, b.timestamp); err != nil {
		return errors.Wrap(err, "setup registry")
	}
	if err := builtin.Token.Native(st).Mint(b.authority, pknet.InitialSupply); err != nil {
		return errors.Wrap(err, "mint initial supply")
	}
	stk := builtin.Staker.Native(st)
	for _, cat := range pknet.PoolCategories() {
		if err := stk.InitPool(cat, b.timestamp); err != nil {
			return errors.Wrapf(err, "setup pool %v", cat)
		}
	}

	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return errors.Wrap(err, "state process")
		}
	}
	return nil
}
