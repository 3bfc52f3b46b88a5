// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"

	"github.com/vechain/arena/arena"
)

func RandAddress() (addr arena.Address) {
	rand.Read(addr[:])
	return
}

// RandAddresses returns n distinct random addresses.
func RandAddresses(n int) []arena.Address {
	seen := make(map[arena.Address]bool, n)
	addrs := make([]arena.Address, 0, n)
	for len(addrs) < n {
		a := RandAddress()
		if seen[a] || a.IsZero() {
			continue
		}
		seen[a] = true
		addrs = append(addrs, a)
	}
	return addrs
}
