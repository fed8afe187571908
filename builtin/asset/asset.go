// Copyright (c) 2025 The PKNet developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package asset implements the physical-asset records and their usage-proof
// submissions. An asset is keyed by owner, category and name; submissions
// are rate-limited per asset and pay out by metric count, category rate and
// a performance multiplier.
package asset

import (
	"github.com/pknet/pknet/builtin/reward"
	"github.com/pknet/pknet/operr"
	"github.com/pknet/pknet/pknet"
	"github.com/pknet/pknet/state"
)

// Performance-score thresholds driving the reward multiplier and the
// owner's reputation adjustment.
const (
	ScoreExcellent = 95
	ScorePoor      = 80
	maxScore       = 100
)

var (
	errUnknownCategory   = operr.Validation("unknown asset category")
	errNameTooLong       = operr.Validation("name is too long")
	errLocationTooLong   = operr.Validation("location is too long")
	errTooManyAttrs      = operr.Validation("too many attributes")
	errAttrTooLong       = operr.Validation("attribute is too long")
	errEmptyName         = operr.Validation("name is empty")
	errAlreadyRegistered = operr.Precondition("asset already registered")
	errNotFound          = operr.Precondition("asset not found")
	errInvalidScore      = operr.Validation("invalid performance score")
	errInvalidMetric     = operr.Validation("invalid metric count")
	errTooFrequent       = operr.Precondition("submission too frequent")
)

// Entry is an asset record. Timestamps are unix seconds.
type Entry struct {
	Owner            pknet.Address
	Category         uint8
	Name             string
	Location         string
	Attributes       []string
	RegisteredAt     uint64
	LastSubmission   uint64
	TotalSubmissions uint64
	TotalEarned      uint64
}

// checkBounds rejects out-of-bound strings both before encoding and after
// decoding.
func (e *Entry) checkBounds() error {
	if len(e.Name) == 0 {
		return errEmptyName
	}
	if len(e.Name) > pknet.MaxNameLen {
		return errNameTooLong
	}
	if len(e.Location) > pknet.MaxLocationLen {
		return errLocationTooLong
	}
	if len(e.Attributes) > pknet.MaxAttrCount {
		return errTooManyAttrs
	}
	for _, attr := range e.Attributes {
		if len(attr) > pknet.MaxAttrLen {
			return errAttrTooLong
		}
	}
	return nil
}

// ReputationDelta maps a performance score to the owner's reputation
// adjustment for one submission.
func ReputationDelta(score uint8) int {
	switch {
	case score >= ScoreExcellent:
		return 1
	case score < ScorePoor:
		return -1
	default:
		return 0
	}
}

// Asset provides access to asset records.
type Asset struct {
	addr  pknet.Address
	state *state.State
}

// New creates an asset store bound to the given state.
func New(addr pknet.Address, st *state.State) *Asset {
	return &Asset{addr, st}
}

func entryKey(owner pknet.Address, cat pknet.AssetCategory, name string) pknet.Bytes32 {
	return pknet.DeriveKey(pknet.SeedAsset, owner.Bytes(), []byte{byte(cat)}, []byte(name))
}

// Register creates an asset record. The (owner, category, name) tuple must
// be unused.
func (a *Asset) Register(
	owner pknet.Address,
	cat pknet.AssetCategory,
	name, location string,
	attributes []string,
	now int64,
) (*Entry, error) {
	if !cat.Valid() {
		return nil, errUnknownCategory
	}
	entry := &Entry{
		Owner:        owner,
		Category:     byte(cat),
		Name:         name,
		Location:     location,
		Attributes:   attributes,
		RegisteredAt: uint64(now),
	}
	if err := entry.checkBounds(); err != nil {
		return nil, err
	}
	key := entryKey(owner, cat, name)
	ok, err := a.state.Exists(a.addr, key)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, errAlreadyRegistered
	}
	if err := a.state.SetStructuredStorage(a.addr, key, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Get loads an asset record.
func (a *Asset) Get(owner pknet.Address, cat pknet.AssetCategory, name string) (*Entry, error) {
	if !cat.Valid() {
		return nil, errUnknownCategory
	}
	key := entryKey(owner, cat, name)
	ok, err := a.state.Exists(a.addr, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errNotFound
	}
	var entry Entry
	if err := a.state.GetStructuredStorage(a.addr, key, &entry); err != nil {
		return nil, err
	}
	if err := entry.checkBounds(); err != nil {
		return nil, operr.StateConsistency(err.Error())
	}
	return &entry, nil
}

// Submit records a usage proof for an asset and returns the earned reward:
//
//	floor(metricCount * categoryRate * multiplier / 100)
//
// Submissions are limited to one per interval per asset; scores above 100
// are rejected.
func (a *Asset) Submit(
	owner pknet.Address,
	cat pknet.AssetCategory,
	name string,
	metricCount uint64,
	score uint8,
	categoryRate uint64,
	now int64,
) (uint64, error) {
	if score > maxScore {
		return 0, errInvalidScore
	}
	if metricCount == 0 {
		return 0, errInvalidMetric
	}
	entry, err := a.Get(owner, cat, name)
	if err != nil {
		return 0, err
	}
	if entry.LastSubmission != 0 && now-int64(entry.LastSubmission) < pknet.SubmissionInterval {
		return 0, errTooFrequent
	}

	multiplier := reward.PerformanceMultiplier(score, ScoreExcellent, ScorePoor)
	amount, err := reward.SubmissionReward(metricCount, categoryRate, multiplier)
	if err != nil {
		return 0, err
	}
	earned, err := reward.Add64(entry.TotalEarned, amount)
	if err != nil {
		return 0, err
	}
	entry.TotalEarned = earned
	entry.TotalSubmissions++
	entry.LastSubmission = uint64(now)
	if err := a.state.SetStructuredStorage(a.addr, entryKey(owner, cat, name), entry); err != nil {
		return 0, err
	}
	return amount, nil
}
