// Copyright (c) 2025 The PKNet developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pknet

// Constants of the PKN token unit and the incentive protocol.
const (
	// TokenDecimals decimal places of the PKN token unit.
	TokenDecimals = 9
	// UnitScale the smallest-unit scale of one whole PKN (10^TokenDecimals).
	UnitScale = uint64(1_000_000_000)

	// InitialSupply tokens minted to the authority at genesis: 1B PKN.
	InitialSupply = uint64(1_000_000_000) * UnitScale

	// MinStakeAmount minimum stake for every pool: 100 PKN.
	MinStakeAmount = 100 * UnitScale
	// PoolMaxCapacity capacity of every pool: 1M PKN.
	PoolMaxCapacity = 1_000_000 * UnitScale

	// GovernanceThreshold minimum aggregate stake to create a proposal: 1000 PKN.
	GovernanceThreshold = 1000 * UnitScale

	// SecondsPerHour seconds in one hour.
	SecondsPerHour = int64(3600)
	// SecondsPerDay seconds in one day.
	SecondsPerDay = int64(86400)
	// VotingPeriod duration of a proposal's voting window.
	VotingPeriod = 7 * SecondsPerDay

	// SubmissionInterval minimum interval between usage-proof submissions per asset.
	SubmissionInterval = SecondsPerHour
	// DistributionInterval minimum interval between network reward distributions.
	DistributionInterval = SecondsPerDay

	// MaxTitleLen upper bound of a proposal title, in bytes.
	MaxTitleLen = 100
	// MaxDescriptionLen upper bound of a proposal description, in bytes.
	MaxDescriptionLen = 500
	// MaxNameLen upper bound of an asset name, in bytes.
	MaxNameLen = 100
	// MaxLocationLen upper bound of an asset location, in bytes.
	MaxLocationLen = 100
	// MaxAttrLen upper bound of a single asset attribute, in bytes.
	MaxAttrLen = 50
	// MaxAttrCount upper bound of asset attributes per record.
	MaxAttrCount = 10

	// InitialReputation reputation score assigned to new profiles and assets.
	InitialReputation = 100
)

// Default per-unit reward rates per asset category, in smallest units.
const (
	DefaultConnectivityRewardRate = 100 * UnitScale // per GB transferred
	DefaultLogisticsRewardRate    = 50 * UnitScale  // per delivery
	DefaultAgricultureRewardRate  = 25 * UnitScale  // per data submission
	DefaultHealthcareRewardRate   = 100 * UnitScale // per record batch
	DefaultTaxationRewardRate     = 150 * UnitScale // per tax record
)
