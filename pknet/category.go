// Copyright (c) 2025 The PKNet developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pknet

// AssetCategory classifies the physical/service infrastructure earning rewards.
type AssetCategory uint8

const (
	AssetConnectivity AssetCategory = iota
	AssetLogistics
	AssetAgriculture
	AssetHealthcare
	AssetTaxation

	AssetCategoryCount = 5
)

// Valid reports whether c is a known asset category.
func (c AssetCategory) Valid() bool {
	return c < AssetCategoryCount
}

func (c AssetCategory) String() string {
	switch c {
	case AssetConnectivity:
		return "connectivity"
	case AssetLogistics:
		return "logistics"
	case AssetAgriculture:
		return "agriculture"
	case AssetHealthcare:
		return "healthcare"
	case AssetTaxation:
		return "taxation"
	}
	return "unknown"
}

// PoolCategory classifies the five staking pools.
type PoolCategory uint8

const (
	PoolConnectivity PoolCategory = iota
	PoolLogistics
	PoolAgriculture
	PoolGovernance
	PoolLiquidityMining

	PoolCategoryCount = 5
)

// Valid reports whether c is a known pool category.
func (c PoolCategory) Valid() bool {
	return c < PoolCategoryCount
}

func (c PoolCategory) String() string {
	switch c {
	case PoolConnectivity:
		return "connectivity"
	case PoolLogistics:
		return "logistics"
	case PoolAgriculture:
		return "agriculture"
	case PoolGovernance:
		return "governance"
	case PoolLiquidityMining:
		return "liquidity-mining"
	}
	return "unknown"
}

// PoolCategories lists all pool categories in id order.
func PoolCategories() [PoolCategoryCount]PoolCategory {
	return [PoolCategoryCount]PoolCategory{
		PoolConnectivity,
		PoolLogistics,
		PoolAgriculture,
		PoolGovernance,
		PoolLiquidityMining,
	}
}

// AssetCategories lists all asset categories in id order.
func AssetCategories() [AssetCategoryCount]AssetCategory {
	return [AssetCategoryCount]AssetCategory{
		AssetConnectivity,
		AssetLogistics,
		AssetAgriculture,
		AssetHealthcare,
		AssetTaxation,
	}
}
