// Copyright (c) 2025 The PKNet developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pknet/pknet/operr"
	"github.com/pknet/pknet/pknet"
)

func TestPerSecondRate(t *testing.T) {
	// every realistic APY floors to zero per second
	assert.Zero(t, PerSecondRate(800))
	assert.Zero(t, PerSecondRate(1200))
	assert.Zero(t, PerSecondRate(2500))
	assert.Zero(t, PerSecondRate(3_153_599_999))

	assert.Equal(t, uint64(1), PerSecondRate(3_153_600_000))
	assert.Equal(t, uint64(2), PerSecondRate(6_307_200_000))
}

func TestStakingAccrual(t *testing.T) {
	// 500 tokens at 12% over 30 days quantizes to zero
	amount := 500 * pknet.UnitScale
	got, err := StakingAccrual(amount, 1200, 30*pknet.SecondsPerDay)
	require.NoError(t, err)
	assert.Zero(t, got)

	// a rate large enough to survive the per-second floor accrues
	got, err = StakingAccrual(pknet.UnitScale, 3_153_600_000, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), got)

	// sub-unit products truncate toward zero
	got, err = StakingAccrual(pknet.UnitScale/2, 3_153_600_000, 1)
	require.NoError(t, err)
	assert.Zero(t, got)

	got, err = StakingAccrual(pknet.UnitScale, 3_153_600_000, 0)
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestStakingAccrualNegativeElapsed(t *testing.T) {
	_, err := StakingAccrual(pknet.UnitScale, 1200, -1)
	require.Error(t, err)
	assert.Equal(t, operr.KindArithmetic, operr.KindOf(err))
}

func TestStakingAccrualOverflow(t *testing.T) {
	_, err := StakingAccrual(math.MaxUint64, 6_307_200_000, 1)
	require.Error(t, err)
	assert.Equal(t, operr.KindArithmetic, operr.KindOf(err))

	_, err = StakingAccrual(math.MaxUint64/2, 3_153_600_000, math.MaxInt64)
	require.Error(t, err)
	assert.Equal(t, operr.KindArithmetic, operr.KindOf(err))
}

func TestSubmissionReward(t *testing.T) {
	rate := 100 * pknet.UnitScale

	got, err := SubmissionReward(10, rate, 100)
	require.NoError(t, err)
	assert.Equal(t, 1000*pknet.UnitScale, got)

	got, err = SubmissionReward(10, rate, 120)
	require.NoError(t, err)
	assert.Equal(t, 1200*pknet.UnitScale, got)

	got, err = SubmissionReward(10, rate, 80)
	require.NoError(t, err)
	assert.Equal(t, 800*pknet.UnitScale, got)

	// truncation of the final division
	got, err = SubmissionReward(1, 1, 80)
	require.NoError(t, err)
	assert.Zero(t, got)

	_, err = SubmissionReward(math.MaxUint64, 2, 100)
	require.Error(t, err)
	assert.Equal(t, operr.KindArithmetic, operr.KindOf(err))
}

func TestPerformanceMultiplier(t *testing.T) {
	assert.Equal(t, uint64(120), PerformanceMultiplier(100, 95, 80))
	assert.Equal(t, uint64(120), PerformanceMultiplier(95, 95, 80))
	assert.Equal(t, uint64(100), PerformanceMultiplier(94, 95, 80))
	assert.Equal(t, uint64(100), PerformanceMultiplier(80, 95, 80))
	assert.Equal(t, uint64(80), PerformanceMultiplier(79, 95, 80))
	assert.Equal(t, uint64(80), PerformanceMultiplier(0, 95, 80))
}

func TestAdd64(t *testing.T) {
	got, err := Add64(1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), got)

	_, err = Add64(math.MaxUint64, 1)
	require.Error(t, err)
	assert.Equal(t, operr.KindArithmetic, operr.KindOf(err))
}
