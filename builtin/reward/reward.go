// Copyright (c) 2025 The PKNet developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reward implements the pure reward-accrual computations shared by
// the staking and submission-crediting paths. All arithmetic is unsigned
// 64-bit with explicit overflow checks; multiplication overflow and negative
// durations abort the calling operation.
package reward

import (
	"math/bits"

	"github.com/pknet/pknet/operr"
	"github.com/pknet/pknet/pknet"
)

// rateDivisor converts an annualized rate in basis points to a per-second
// rate: seconds per year times 100 (bps of a percent).
const rateDivisor = uint64(365 * 24 * 3600 * 100)

var (
	errOverflow         = operr.Arithmetic("arithmetic overflow")
	errNegativeDuration = operr.Arithmetic("negative elapsed duration")
)

// PerSecondRate converts an APY in basis points to a per-second rate.
// The division truncates; rates below 3,153,600,000 bps floor to zero,
// which is the protocol's quantization behavior for small or short
// positions and must not be "fixed" here.
func PerSecondRate(apyBps uint64) uint64 {
	return apyBps / rateDivisor
}

// StakingAccrual computes the staking reward for a principal at the given
// APY over elapsed seconds, in smallest units:
//
//	amount * (apyBps / rateDivisor) * elapsed / 10^decimals
//
// with every step truncating toward zero.
func StakingAccrual(amount, apyBps uint64, elapsed int64) (uint64, error) {
	if elapsed < 0 {
		return 0, errNegativeDuration
	}
	perSecond := PerSecondRate(apyBps)
	product, err := mul64(amount, perSecond)
	if err != nil {
		return 0, err
	}
	product, err = mul64(product, uint64(elapsed))
	if err != nil {
		return 0, err
	}
	return product / pknet.UnitScale, nil
}

// SubmissionReward computes the usage-proof reward:
//
//	floor(metricCount * categoryRate * multiplier / 100)
func SubmissionReward(metricCount, categoryRate, multiplier uint64) (uint64, error) {
	base, err := mul64(metricCount, categoryRate)
	if err != nil {
		return 0, err
	}
	total, err := mul64(base, multiplier)
	if err != nil {
		return 0, err
	}
	return total / 100, nil
}

// PerformanceMultiplier maps a performance score to a percent multiplier:
// 20% bonus at or above the excellent threshold, standard rate at or above
// the poor threshold, 20% penalty below it.
func PerformanceMultiplier(score, excellentThreshold, poorThreshold uint8) uint64 {
	switch {
	case score >= excellentThreshold:
		return 120
	case score >= poorThreshold:
		return 100
	default:
		return 80
	}
}

// mul64 multiplies with overflow detection.
func mul64(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, errOverflow
	}
	return lo, nil
}

// Add64 adds with overflow detection. Exported for the balance-keeping
// builtins that accumulate rewards.
func Add64(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, errOverflow
	}
	return sum, nil
}
