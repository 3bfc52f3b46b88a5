// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/httpclient"
)

// Client is a Ledger backed by a remote ledger service.
type Client struct {
	http *httpclient.Client
}

var _ Ledger = (*Client)(nil)

func NewClient(url string) *Client {
	return &Client{http: httpclient.New(url)}
}

// TransferRequest is the body of a fungible transfer.
type TransferRequest struct {
	Token  arena.Address         `json:"token"`
	From   arena.Address         `json:"from"`
	To     arena.Address         `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// NFTTransferRequest is the body of a non-fungible transfer.
type NFTTransferRequest struct {
	Collection arena.Address         `json:"collection"`
	From       arena.Address         `json:"from"`
	To         arena.Address         `json:"to"`
	TokenID    *math.HexOrDecimal256 `json:"tokenId"`
}

// OwnerResponse answers an ownership query.
type OwnerResponse struct {
	Owner arena.Address `json:"owner"`
}

func (c *Client) Transfer(ctx context.Context, token, from, to arena.Address, amount *big.Int) error {
	req := &TransferRequest{token, from, to, (*math.HexOrDecimal256)(amount)}
	if err := c.http.Post(ctx, "/transfers", req, nil); err != nil {
		return errors.Wrap(err, "remote transfer")
	}
	return nil
}

func (c *Client) TransferNFT(ctx context.Context, collection, from, to arena.Address, id *big.Int) error {
	req := &NFTTransferRequest{collection, from, to, (*math.HexOrDecimal256)(id)}
	if err := c.http.Post(ctx, "/nft-transfers", req, nil); err != nil {
		return errors.Wrap(err, "remote nft transfer")
	}
	return nil
}

func (c *Client) OwnerOf(ctx context.Context, collection arena.Address, id *big.Int) (arena.Address, error) {
	var res OwnerResponse
	path := fmt.Sprintf("/collections/%v/tokens/%v/owner", collection, id)
	if err := c.http.Get(ctx, path, &res); err != nil {
		if errors.Is(err, httpclient.ErrNotFound) {
			return arena.Address{}, errors.WithMessagef(ErrNoSuchToken, "%v #%v", collection, id)
		}
		return arena.Address{}, errors.Wrap(err, "remote owner query")
	}
	return res.Owner, nil
}
