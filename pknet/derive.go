// Copyright (c) 2025 The PKNet developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pknet

import "io"

// Well-known seeds for deterministic account-address derivation. Every record
// address is computable from a seed plus the owning keys, so there is
// at most one record per (seed, keys) tuple.
var (
	SeedNetworkRegistry = []byte("network-registry")
	SeedToken           = []byte("token")
	SeedStakingPool     = []byte("staking-pool")
	SeedPoolAuthority   = []byte("pool-authority")
	SeedUserStake       = []byte("user-stake")
	SeedUserProfile     = []byte("user-profile")
	SeedProposal        = []byte("proposal")
	SeedVote            = []byte("vote")
	SeedAsset           = []byte("asset")
)

// DeriveAddress computes the deterministic address for a seed and key parts.
// The derivation is the trailing 20 bytes of blake2b-256 over the
// concatenation, mirroring contract-address generation.
func DeriveAddress(seed []byte, parts ...[]byte) Address {
	h := Blake2bFn(func(w io.Writer) {
		w.Write(seed)
		for _, p := range parts {
			w.Write(p)
		}
	})
	return BytesToAddress(h[12:])
}

// DeriveKey computes a deterministic 32-byte storage key for a seed and key parts.
func DeriveKey(seed []byte, parts ...[]byte) Bytes32 {
	data := make([][]byte, 0, len(parts)+1)
	data = append(data, seed)
	data = append(data, parts...)
	return Blake2b(data...)
}
