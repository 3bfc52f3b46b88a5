// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package arena

import (
	"encoding/hex"

	"github.com/ethereum/go-ethereum/common"
)

// Bytes32 is a blake2b digest. It addresses storage slots and keys the
// credentials counted against entry limits.
type Bytes32 [32]byte

func (b Bytes32) String() string {
	return "0x" + hex.EncodeToString(b[:])
}

// Bytes lets a Bytes32 take part in composite storage keys.
func (b Bytes32) Bytes() []byte {
	return b[:]
}

// BytesToBytes32 right aligns b, dropping the leading bytes past 32.
func BytesToBytes32(b []byte) Bytes32 {
	return Bytes32(common.BytesToHash(b))
}
