// Copyright (c) 2025 The PKNet developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the native PKN token ledger. Balances are plain
// uint64 records in smallest units. The package performs no authorization;
// callers gate mint and transfer at the operation layer.
package token

import (
	"github.com/pknet/pknet/builtin/reward"
	"github.com/pknet/pknet/operr"
	"github.com/pknet/pknet/pknet"
	"github.com/pknet/pknet/state"
)

var (
	totalSupplyKey         = pknet.Blake2b([]byte("total-supply"))
	errInsufficientBalance = operr.Precondition("insufficient token balance")
)

// Token implements the token ledger bound to a contract address and state.
type Token struct {
	addr  pknet.Address
	state *state.State
}

// New creates an instance of the token ledger.
func New(addr pknet.Address, st *state.State) *Token {
	return &Token{addr, st}
}

func balanceKey(holder pknet.Address) pknet.Bytes32 {
	return pknet.DeriveKey(pknet.SeedToken, holder.Bytes())
}

// TotalSupply returns the total minted supply.
func (t *Token) TotalSupply() (uint64, error) {
	var supply uint64
	if err := t.state.GetStructuredStorage(t.addr, totalSupplyKey, &supply); err != nil {
		return 0, err
	}
	return supply, nil
}

// BalanceOf returns the balance of the holder. Unknown holders have zero.
func (t *Token) BalanceOf(holder pknet.Address) (uint64, error) {
	var balance uint64
	if err := t.state.GetStructuredStorage(t.addr, balanceKey(holder), &balance); err != nil {
		return 0, err
	}
	return balance, nil
}

func (t *Token) setBalance(holder pknet.Address, balance uint64) error {
	key := balanceKey(holder)
	if balance == 0 {
		return t.state.SetStructuredStorage(t.addr, key, nil)
	}
	return t.state.SetStructuredStorage(t.addr, key, balance)
}

// Mint creates amount new units on the holder's balance and grows the
// total supply accordingly.
func (t *Token) Mint(holder pknet.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	supply, err := t.TotalSupply()
	if err != nil {
		return err
	}
	supply, err = reward.Add64(supply, amount)
	if err != nil {
		return err
	}
	balance, err := t.BalanceOf(holder)
	if err != nil {
		return err
	}
	balance, err = reward.Add64(balance, amount)
	if err != nil {
		return err
	}
	if err := t.state.SetStructuredStorage(t.addr, totalSupplyKey, supply); err != nil {
		return err
	}
	return t.setBalance(holder, balance)
}

// Transfer moves amount from one holder to another. It fails with a
// precondition error when the sender balance is short.
func (t *Token) Transfer(from, to pknet.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	fromBalance, err := t.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return errInsufficientBalance
	}
	// a self-transfer settles to the same balance
	if from == to {
		return nil
	}
	toBalance, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	toBalance, err = reward.Add64(toBalance, amount)
	if err != nil {
		return err
	}
	if err := t.setBalance(from, fromBalance-amount); err != nil {
		return err
	}
	return t.setBalance(to, toBalance)
}
