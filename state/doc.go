// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state is the revertable key/value view the contest engine runs on.
//
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ stage ] -> [ kv bulk write ]
//	         |
//	   [ lru cache ]
//	         |
//	    [ kv store ]
//
// Every mutation lands in the stacked map first. A failed operation reverts
// to its checkpoint and leaves nothing behind; a successful one is staged and
// flushed to the store in one atomic bulk.
package state
