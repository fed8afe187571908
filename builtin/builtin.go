// Copyright (c) 2025 The PKNet developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package builtin binds the native ledger contracts to their well-known
// addresses. Each contract keeps its records under its own address, keyed
// by seed-derived storage keys.
package builtin

import (
	"github.com/pknet/pknet/builtin/asset"
	"github.com/pknet/pknet/builtin/gov"
	"github.com/pknet/pknet/builtin/profile"
	"github.com/pknet/pknet/builtin/registry"
	"github.com/pknet/pknet/builtin/staker"
	"github.com/pknet/pknet/builtin/token"
	"github.com/pknet/pknet/pknet"
	"github.com/pknet/pknet/state"
)

// The builtin contracts.
var (
	Registry = &registryContract{pknet.BytesToAddress([]byte("pkn-registry"))}
	Token    = &tokenContract{pknet.BytesToAddress([]byte("pkn-token"))}
	Staker   = &stakerContract{pknet.BytesToAddress([]byte("pkn-staker"))}
	Gov      = &govContract{pknet.BytesToAddress([]byte("pkn-gov"))}
	Profile  = &profileContract{pknet.BytesToAddress([]byte("pkn-profile"))}
	Asset    = &assetContract{pknet.BytesToAddress([]byte("pkn-asset"))}
)

type registryContract struct{ Address pknet.Address }

// Native returns the registry bound to the given state.
func (c *registryContract) Native(st *state.State) *registry.Registry {
	return registry.New(c.Address, st)
}

type tokenContract struct{ Address pknet.Address }

// Native returns the token ledger bound to the given state.
func (c *tokenContract) Native(st *state.State) *token.Token {
	return token.New(c.Address, st)
}

type stakerContract struct{ Address pknet.Address }

// Native returns the staker bound to the given state.
func (c *stakerContract) Native(st *state.State) *staker.Staker {
	return staker.New(c.Address, st)
}

type govContract struct{ Address pknet.Address }

// Native returns the governance machine bound to the given state.
func (c *govContract) Native(st *state.State) *gov.Gov {
	return gov.New(c.Address, st)
}

type profileContract struct{ Address pknet.Address }

// Native returns the profile store bound to the given state.
func (c *profileContract) Native(st *state.State) *profile.Profile {
	return profile.New(c.Address, st)
}

type assetContract struct{ Address pknet.Address }

// Native returns the asset store bound to the given state.
func (c *assetContract) Native(st *state.State) *asset.Asset {
	return asset.New(c.Address, st)
}
