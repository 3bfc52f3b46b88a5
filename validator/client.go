// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validator

import (
	"context"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/httpclient"
)

// Client talks to a validator service over HTTP.
type Client struct {
	http *httpclient.Client
}

var (
	_ Validator  = (*Client)(nil)
	_ Configurer = (*Client)(nil)
)

func NewClient(url string) *Client {
	return &Client{http: httpclient.New(url)}
}

type validateRequest struct {
	ContextID uint64        `json:"contextId"`
	Caller    arena.Address `json:"caller"`
	Proof     hexutil.Bytes `json:"proof"`
}

type validateResponse struct {
	Valid bool `json:"valid"`
}

type registrationOnlyResponse struct {
	RegistrationOnly bool `json:"registrationOnly"`
}

type configureRequest struct {
	ContextID  uint64        `json:"contextId"`
	EntryLimit uint32        `json:"entryLimit"`
	Config     hexutil.Bytes `json:"config"`
}

func (c *Client) IsValid(ctx context.Context, contextID uint64, caller arena.Address, proof []byte) (bool, error) {
	var res validateResponse
	if err := c.http.Post(ctx, "/validate", &validateRequest{contextID, caller, proof}, &res); err != nil {
		return false, errors.Wrap(err, "validate entry of context "+strconv.FormatUint(contextID, 10))
	}
	return res.Valid, nil
}

func (c *Client) RegistrationOnly(ctx context.Context) (bool, error) {
	var res registrationOnlyResponse
	if err := c.http.Get(ctx, "/registration-only", &res); err != nil {
		return false, errors.Wrap(err, "query registration-only")
	}
	return res.RegistrationOnly, nil
}

func (c *Client) Configure(ctx context.Context, contextID uint64, entryLimit uint32, config []byte) error {
	if err := c.http.Post(ctx, "/configure", &configureRequest{contextID, entryLimit, config}, nil); err != nil {
		return errors.Wrap(err, "configure validator")
	}
	return nil
}
