// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/ledger"
	"github.com/vechain/arena/validator"
)

// DevAccount is a funded account available in solo mode.
type DevAccount struct {
	Address    arena.Address
	PrivateKey *ecdsa.PrivateKey
}

var (
	// devEscrow operates the solo ledger.
	devEscrow = arena.BytesToAddress([]byte("arena/escrow"))
	// devToken is the fungible token every dev account holds.
	devToken = arena.BytesToAddress([]byte("arena/token"))
	// devCollection is the nft collection dev accounts hold ids of.
	devCollection = arena.BytesToAddress([]byte("arena/collection"))
	// devValidator accepts every dev account.
	devValidator = arena.BytesToAddress([]byte("arena/validator"))

	devBalance, _ = new(big.Int).SetString("1000000000000000000000000000", 10)
)

// nfts minted per dev account
const devNFTsPerAccount = 10

var devAccounts = sync.OnceValue(func() []DevAccount {
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
		"88d2d80b12b92feaa0da6d62309463d20408157723f2d7e799b6a74ead9a673b",
		"fbb9e7ba5fe9969a71c6599052237b91adeb1e5fc0c96727b66e56ff5d02f9d0",
		"547fb081e73dc2e22b4aae5c60e2970b008ac4fc3073aebc27d41ace9c4f53e9",
		"c8c53657e41a8d669349fc287f57457bd746cb1fcfc38cf94d235deb2cfca81b",
		"87e0eba9c86c494d98353800571089f316740b0cb84c9a7cdf2fe5c9997c7966",
	}
	accs := make([]DevAccount, 0, len(privKeys))
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{arena.BytesToAddress(addr.Bytes()), pk})
	}
	return accs
})

// devNFTID returns the j-th nft id held by dev account i.
func devNFTID(i, j int) *big.Int {
	return big.NewInt(int64(i*devNFTsPerAccount + j + 1))
}

// seedLedger funds the dev accounts and lets the escrow pull from them.
// A ledger seeded before is left alone.
func seedLedger(l *ledger.Local) error {
	accs := devAccounts()
	bal, err := l.BalanceOf(devToken, accs[0].Address)
	if err != nil {
		return err
	}
	if bal.Sign() > 0 {
		return nil
	}

	for i, a := range accs {
		if err := l.Mint(devToken, a.Address, devBalance); err != nil {
			return err
		}
		if err := l.Approve(devToken, a.Address, l.Operator(), devBalance); err != nil {
			return err
		}
		for j := range devNFTsPerAccount {
			if err := l.SetOwner(devCollection, devNFTID(i, j), a.Address); err != nil {
				return err
			}
		}
		if err := l.SetApprovalForAll(devCollection, a.Address, true); err != nil {
			return err
		}
	}
	return nil
}

func devValidators(reg *validator.Registry) {
	addrs := make([]arena.Address, 0, len(devAccounts()))
	for _, a := range devAccounts() {
		addrs = append(addrs, a.Address)
	}
	reg.Register(devValidator, validator.NewStatic(false, addrs...))
}

func printSoloStartupMessage(dataDir string, urls serviceURLs) {
	tableHead := `
┌────────────────────────────────────────────┬────────────────────────────────────────────────────────────────────┐
│                   Address                  │                             Private Key                            │`
	tableContent := `
├────────────────────────────────────────────┼────────────────────────────────────────────────────────────────────┤
│ %v │ %v │`
	tableEnd := `
└────────────────────────────────────────────┴────────────────────────────────────────────────────────────────────┘`

	info := fmt.Sprintf(`Starting %v
    Data dir    [ %v ]
    API portal  [ %v ]
    Metrics     [ %v ]
    Admin       [ %v ]
    Escrow      [ %v ]
    Token       [ %v ]
    Collection  [ %v ]
    Validator   [ %v ]`,
		"Arena solo "+fullVersion(),
		dataDir,
		urls.api,
		urls.metrics,
		urls.admin,
		devEscrow,
		devToken,
		devCollection,
		devValidator)

	info += tableHead

	for _, a := range devAccounts() {
		info += fmt.Sprintf(tableContent,
			a.Address,
			arena.BytesToBytes32(crypto.FromECDSA(a.PrivateKey)),
		)
	}
	info += tableEnd + "\r\n"

	fmt.Print(info)
}
