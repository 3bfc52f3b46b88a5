// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contexts

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/contest/distribution"
	"github.com/vechain/arena/contest/eligibility"
	"github.com/vechain/arena/contest/leaderboard"
	"github.com/vechain/arena/contest/prize"
	"github.com/vechain/arena/contest/registry"
	"github.com/vechain/arena/contest/schedule"
	"github.com/vechain/arena/contest/settlement"
	"github.com/vechain/arena/contest/token"
)

func bigOf(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return nil
	}
	return (*big.Int)(v)
}

func hexOrDecimal(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		return nil
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}

type Period struct {
	Start uint64 `json:"start"`
	End   uint64 `json:"end"`
}

type Schedule struct {
	Registration       *Period `json:"registration,omitempty"`
	Game               Period  `json:"game"`
	SubmissionDuration uint64  `json:"submissionDuration"`
}

func (s *Schedule) convert() schedule.Schedule {
	sch := schedule.Schedule{
		Game:               schedule.Period(s.Game),
		SubmissionDuration: s.SubmissionDuration,
	}
	if s.Registration != nil {
		reg := schedule.Period(*s.Registration)
		sch.Registration = &reg
	}
	return sch
}

func convertSchedule(s *schedule.Schedule) Schedule {
	out := Schedule{
		Game:               Period(s.Game),
		SubmissionDuration: s.SubmissionDuration,
	}
	if s.Registration != nil {
		reg := Period(*s.Registration)
		out.Registration = &reg
	}
	return out
}

type Curve struct {
	Kind   string   `json:"kind"`
	Weight uint64   `json:"weight,omitempty"`
	Table  []uint16 `json:"table,omitempty"`
}

func (c *Curve) convert() (*distribution.Curve, error) {
	kind, err := distribution.ParseCurveKind(c.Kind)
	if err != nil {
		return nil, err
	}
	return &distribution.Curve{Kind: kind, Weight: c.Weight, Table: c.Table}, nil
}

func convertCurve(c *distribution.Curve) *Curve {
	if c == nil {
		return nil
	}
	return &Curve{Kind: c.Kind.String(), Weight: c.Weight, Table: c.Table}
}

type EntryFee struct {
	Token                 arena.Address         `json:"token"`
	Amount                *math.HexOrDecimal256 `json:"amount"`
	Curve                 Curve                 `json:"curve"`
	CreatorShare          uint16                `json:"creatorShare"`
	GameCreatorShare      uint16                `json:"gameCreatorShare"`
	RefundShare           uint16                `json:"refundShare"`
	DistributionPositions uint32                `json:"distributionPositions"`
}

func (f *EntryFee) convert() (*registry.EntryFee, error) {
	curve, err := f.Curve.convert()
	if err != nil {
		return nil, err
	}
	return &registry.EntryFee{
		Token:                 f.Token,
		Amount:                bigOf(f.Amount),
		Curve:                 *curve,
		CreatorShare:          f.CreatorShare,
		GameCreatorShare:      f.GameCreatorShare,
		RefundShare:           f.RefundShare,
		DistributionPositions: f.DistributionPositions,
	}, nil
}

func convertEntryFee(f *registry.EntryFee) *EntryFee {
	if f == nil {
		return nil
	}
	return &EntryFee{
		Token:                 f.Token,
		Amount:                hexOrDecimal(f.Amount),
		Curve:                 *convertCurve(&f.Curve),
		CreatorShare:          f.CreatorShare,
		GameCreatorShare:      f.GameCreatorShare,
		RefundShare:           f.RefundShare,
		DistributionPositions: f.DistributionPositions,
	}
}

// Requirement flattens the requirement variants. Only the fields of Kind
// are read.
type Requirement struct {
	Kind       string          `json:"kind"`
	EntryLimit uint32          `json:"entryLimit,omitempty"`
	Collection *arena.Address  `json:"collection,omitempty"`
	ContextIDs []uint64        `json:"contextIds,omitempty"`
	Winners    bool            `json:"winners,omitempty"`
	Addresses  []arena.Address `json:"addresses,omitempty"`
	Validator  *arena.Address  `json:"validator,omitempty"`
	Config     hexutil.Bytes   `json:"config,omitempty"`
}

func (r *Requirement) convert() (*eligibility.Requirement, error) {
	kind, err := eligibility.ParseKind(r.Kind)
	if err != nil {
		return nil, err
	}
	rq := &eligibility.Requirement{Kind: kind, EntryLimit: r.EntryLimit}
	switch kind {
	case eligibility.NFTOwnership:
		if r.Collection == nil {
			return nil, fmt.Errorf("collection required")
		}
		rq.NFT = &eligibility.NFTRequirement{Collection: *r.Collection}
	case eligibility.CrossContext:
		mode := eligibility.Participants
		if r.Winners {
			mode = eligibility.Winners
		}
		rq.Cross = &eligibility.CrossRequirement{ContextIDs: r.ContextIDs, Mode: mode}
	case eligibility.Allowlist:
		rq.Allowlist = &eligibility.AllowlistRequirement{Addresses: r.Addresses}
	case eligibility.External:
		if r.Validator == nil {
			return nil, fmt.Errorf("validator required")
		}
		rq.External = &eligibility.ExternalRequirement{Validator: *r.Validator, Config: r.Config}
	}
	return rq, nil
}

func convertRequirement(rq *eligibility.Requirement) *Requirement {
	if rq == nil {
		return nil
	}
	out := &Requirement{Kind: rq.Kind.String(), EntryLimit: rq.EntryLimit}
	switch {
	case rq.NFT != nil:
		out.Collection = &rq.NFT.Collection
	case rq.Cross != nil:
		out.ContextIDs = rq.Cross.ContextIDs
		out.Winners = rq.Cross.Mode == eligibility.Winners
	case rq.Allowlist != nil:
		out.Addresses = rq.Allowlist.Addresses
	case rq.External != nil:
		out.Validator = &rq.External.Validator
		out.Config = rq.External.Config
	}
	return out
}

// Qualification flattens the proof variants like Requirement.
type Qualification struct {
	Kind      string                `json:"kind"`
	NFTID     *math.HexOrDecimal256 `json:"nftId,omitempty"`
	ContextID uint64                `json:"contextId,omitempty"`
	TokenID   uint64                `json:"tokenId,omitempty"`
	Position  uint32                `json:"position,omitempty"`
	Address   *arena.Address        `json:"address,omitempty"`
	Data      hexutil.Bytes         `json:"data,omitempty"`
}

func (q *Qualification) convert() (*eligibility.Qualification, error) {
	if q == nil {
		return nil, nil
	}
	kind, err := eligibility.ParseKind(q.Kind)
	if err != nil {
		return nil, err
	}
	out := &eligibility.Qualification{Kind: kind}
	switch kind {
	case eligibility.NFTOwnership:
		out.NFT = &eligibility.NFTProof{TokenID: bigOf(q.NFTID)}
	case eligibility.CrossContext:
		out.Cross = &eligibility.CrossProof{ContextID: q.ContextID, TokenID: q.TokenID, Position: q.Position}
	case eligibility.Allowlist:
		if q.Address == nil {
			return nil, fmt.Errorf("address required")
		}
		out.Allowlist = &eligibility.AllowlistProof{Address: *q.Address}
	case eligibility.External:
		out.External = &eligibility.ExternalProof{Data: q.Data}
	}
	return out, nil
}

func convertQualification(q *eligibility.Qualification) *Qualification {
	if q == nil {
		return nil
	}
	out := &Qualification{Kind: q.Kind.String()}
	switch {
	case q.NFT != nil:
		out.NFTID = hexOrDecimal(q.NFT.TokenID)
	case q.Cross != nil:
		out.ContextID, out.TokenID, out.Position = q.Cross.ContextID, q.Cross.TokenID, q.Cross.Position
	case q.Allowlist != nil:
		out.Address = &q.Allowlist.Address
	case q.External != nil:
		out.Data = q.External.Data
	}
	return out
}

type Game struct {
	Address        arena.Address         `json:"address"`
	SettingsID     uint64                `json:"settingsId"`
	CreatorTokenID *math.HexOrDecimal256 `json:"creatorTokenId,omitempty"`
	Soulbound      bool                  `json:"soulbound"`
	PlayURL        string                `json:"playUrl,omitempty"`
}

type CreateContext struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Schedule    Schedule     `json:"schedule"`
	Game        Game         `json:"game"`
	EntryFee    *EntryFee    `json:"entryFee,omitempty"`
	Requirement *Requirement `json:"requirement,omitempty"`
}

type Context struct {
	ID             uint64        `json:"id"`
	CreatedAt      uint64        `json:"createdAt"`
	CreatedBy      arena.Address `json:"createdBy"`
	CreatorTokenID uint64        `json:"creatorTokenId"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	Schedule       Schedule      `json:"schedule"`
	Game           Game          `json:"game"`
	EntryFee       *EntryFee     `json:"entryFee,omitempty"`
	Requirement    *Requirement  `json:"requirement,omitempty"`
	Phase          string        `json:"phase"`
	EntryCount     uint32        `json:"entryCount"`
}

func convertContext(c *registry.Context, phase schedule.Phase, entries uint32) *Context {
	return &Context{
		ID:             c.ID,
		CreatedAt:      c.CreatedAt,
		CreatedBy:      c.CreatedBy,
		CreatorTokenID: c.CreatorTokenID,
		Name:           c.Metadata.Name,
		Description:    c.Metadata.Description,
		Schedule:       convertSchedule(&c.Schedule),
		Game: Game{
			Address:        c.Game.Game,
			SettingsID:     c.Game.SettingsID,
			CreatorTokenID: hexOrDecimal(c.Game.CreatorTokenID),
			Soulbound:      c.Game.Soulbound,
			PlayURL:        c.Game.PlayURL,
		},
		EntryFee:    convertEntryFee(c.EntryFee),
		Requirement: convertRequirement(c.Requirement),
		Phase:       phase.String(),
		EntryCount:  entries,
	}
}

type Enter struct {
	Player     *arena.Address `json:"player,omitempty"`
	PlayerName string         `json:"playerName"`
	Proof      *Qualification `json:"proof,omitempty"`
}

type Entered struct {
	TokenID     uint64 `json:"tokenId"`
	EntryNumber uint32 `json:"entryNumber"`
}

type Registration struct {
	TokenID      uint64         `json:"tokenId"`
	ContextID    uint64         `json:"contextId"`
	EntryNumber  uint32         `json:"entryNumber"`
	PlayerName   string         `json:"playerName"`
	Proof        *Qualification `json:"proof,omitempty"`
	Qualifying   *arena.Address `json:"qualifying,omitempty"`
	HasSubmitted bool           `json:"hasSubmitted"`
	IsBanned     bool           `json:"isBanned"`
}

func convertRegistration(r *registry.Registration) *Registration {
	var qualifying *arena.Address
	if !r.Qualifying.IsZero() {
		qualifying = &r.Qualifying
	}
	return &Registration{
		TokenID:      r.EntryTokenID,
		ContextID:    r.ContextID,
		EntryNumber:  r.EntryNumber,
		PlayerName:   r.PlayerName,
		Proof:        convertQualification(r.Proof),
		Qualifying:   qualifying,
		HasSubmitted: r.HasSubmitted,
		IsBanned:     r.IsBanned,
	}
}

type Ban struct {
	Proof *Qualification `json:"proof,omitempty"`
}

type Result struct {
	TokenID  uint64 `json:"tokenId"`
	Position uint32 `json:"position"`
	Score    uint64 `json:"score"`
}

func convertLeaderboard(entries []leaderboard.Entry) []*Result {
	out := make([]*Result, len(entries))
	for i, e := range entries {
		out[i] = &Result{TokenID: e.TokenID, Position: uint32(i + 1), Score: e.Score}
	}
	return out
}

type AddPrize struct {
	Token    arena.Address         `json:"token"`
	Kind     string                `json:"kind"`
	Amount   *math.HexOrDecimal256 `json:"amount,omitempty"`
	NFTID    *math.HexOrDecimal256 `json:"nftId,omitempty"`
	Position uint32                `json:"position,omitempty"`
	Curve    *Curve                `json:"curve,omitempty"`
	Count    uint32                `json:"count,omitempty"`
}

func parsePrizeKind(s string) (prize.Kind, error) {
	for _, k := range []prize.Kind{prize.Fungible, prize.NonFungible} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown prize kind %q", s)
}

type Prize struct {
	ID        uint64                `json:"id"`
	ContextID uint64                `json:"contextId"`
	Token     arena.Address         `json:"token"`
	Sponsor   arena.Address         `json:"sponsor"`
	Kind      string                `json:"kind"`
	Amount    *math.HexOrDecimal256 `json:"amount,omitempty"`
	NFTID     *math.HexOrDecimal256 `json:"nftId,omitempty"`
	Position  uint32                `json:"position,omitempty"`
	Curve     *Curve                `json:"curve,omitempty"`
	Count     uint32                `json:"count,omitempty"`
}

func convertPrize(p *prize.Prize) *Prize {
	return &Prize{
		ID:        p.ID,
		ContextID: p.ContextID,
		Token:     p.Token,
		Sponsor:   p.Sponsor,
		Kind:      p.Kind.String(),
		Amount:    hexOrDecimal(p.Amount),
		NFTID:     hexOrDecimal(p.NFTID),
		Position:  p.Payout.Position,
		Curve:     convertCurve(p.Payout.Curve),
		Count:     p.Payout.Count,
	}
}

type Claim struct {
	Kind     string `json:"kind"`
	TokenID  uint64 `json:"tokenId,omitempty"`
	Position uint32 `json:"position,omitempty"`
	PrizeID  uint64 `json:"prizeId,omitempty"`
}

func (c *Claim) convert() (settlement.Claim, error) {
	kind, err := settlement.ParseKind(c.Kind)
	if err != nil {
		return settlement.Claim{}, err
	}
	return settlement.Claim{Kind: kind, TokenID: c.TokenID, Position: c.Position, PrizeID: c.PrizeID}, nil
}

type Payout struct {
	ContextID uint64                `json:"contextId"`
	Claim     Claim                 `json:"claim"`
	Recipient arena.Address         `json:"recipient"`
	Token     arena.Address         `json:"token"`
	Amount    *math.HexOrDecimal256 `json:"amount,omitempty"`
	NFTID     *math.HexOrDecimal256 `json:"nftId,omitempty"`
	Refunded  bool                  `json:"refunded"`
}

func convertPayout(p *settlement.Payout) *Payout {
	return &Payout{
		ContextID: p.ContextID,
		Claim: Claim{
			Kind:     p.Claim.Kind.String(),
			TokenID:  p.Claim.TokenID,
			Position: p.Claim.Position,
			PrizeID:  p.Claim.PrizeID,
		},
		Recipient: p.Recipient,
		Token:     p.Token,
		Amount:    hexOrDecimal(p.Amount),
		NFTID:     hexOrDecimal(p.NFTID),
		Refunded:  p.Refunded,
	}
}

type ClaimStatus struct {
	Claimed bool `json:"claimed"`
}

type TransferToken struct {
	To arena.Address `json:"to"`
}

type Token struct {
	ID        uint64        `json:"id"`
	Kind      string        `json:"kind"`
	ContextID uint64        `json:"contextId"`
	Owner     arena.Address `json:"owner"`
}

func convertToken(t *token.Token) *Token {
	return &Token{ID: t.ID, Kind: t.Kind.String(), ContextID: t.ContextID, Owner: t.Owner}
}
