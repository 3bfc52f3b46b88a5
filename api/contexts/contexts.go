// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contexts

import (
	"io"
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/arena/api/restutil"
	"github.com/vechain/arena/contest"
	"github.com/vechain/arena/contest/registry"
)

type Contexts struct {
	engine *contest.Engine
}

func New(engine *contest.Engine) *Contexts {
	return &Contexts{engine}
}

func pathUint(req *http.Request, name string) (uint64, error) {
	return restutil.ParseUint(name, mux.Vars(req)[name])
}

func (c *Contexts) handleCreate(w http.ResponseWriter, req *http.Request) error {
	caller, err := restutil.Caller(req)
	if err != nil {
		return err
	}
	var body CreateContext
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	p := &contest.CreateParams{
		Creator:  caller,
		Metadata: registry.Metadata{Name: body.Name, Description: body.Description},
		Schedule: body.Schedule.convert(),
		Game: registry.Descriptor{
			Game:           body.Game.Address,
			SettingsID:     body.Game.SettingsID,
			CreatorTokenID: bigOf(body.Game.CreatorTokenID),
			Soulbound:      body.Game.Soulbound,
			PlayURL:        body.Game.PlayURL,
		},
	}
	if body.EntryFee != nil {
		if p.EntryFee, err = body.EntryFee.convert(); err != nil {
			return restutil.BadRequest(errors.WithMessage(err, "entryFee"))
		}
	}
	if body.Requirement != nil {
		if p.Requirement, err = body.Requirement.convert(); err != nil {
			return restutil.BadRequest(errors.WithMessage(err, "requirement"))
		}
	}

	created, err := c.engine.CreateContext(req.Context(), p)
	if err != nil {
		return err
	}
	return restutil.WriteJSONStatus(w, http.StatusCreated, convertContext(created, created.Schedule.Phase(created.CreatedAt), 0))
}

func (c *Contexts) handleGet(w http.ResponseWriter, req *http.Request) error {
	id, err := pathUint(req, "id")
	if err != nil {
		return err
	}
	ctx, err := c.engine.Context(id)
	if err != nil {
		return err
	}
	entries, err := c.engine.EntryCount(id)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, convertContext(ctx, ctx.Schedule.Phase(c.engine.Now()), entries))
}

func (c *Contexts) handleGetPhase(w http.ResponseWriter, req *http.Request) error {
	id, err := pathUint(req, "id")
	if err != nil {
		return err
	}
	phase, err := c.engine.Phase(id)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{"phase": phase.String()})
}

func (c *Contexts) handleEnter(w http.ResponseWriter, req *http.Request) error {
	id, err := pathUint(req, "id")
	if err != nil {
		return err
	}
	caller, err := restutil.Caller(req)
	if err != nil {
		return err
	}
	var body Enter
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	proof, err := body.Proof.convert()
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "proof"))
	}
	p := &contest.EnterParams{
		ContextID:  id,
		Caller:     caller,
		PlayerName: body.PlayerName,
		Proof:      proof,
	}
	if body.Player != nil {
		p.Player = *body.Player
	}

	tokenID, entryNumber, err := c.engine.EnterContext(req.Context(), p)
	if err != nil {
		return err
	}
	return restutil.WriteJSONStatus(w, http.StatusCreated, &Entered{TokenID: tokenID, EntryNumber: entryNumber})
}

func (c *Contexts) handleGetEntry(w http.ResponseWriter, req *http.Request) error {
	id, err := pathUint(req, "id")
	if err != nil {
		return err
	}
	tokenID, err := pathUint(req, "token")
	if err != nil {
		return err
	}
	reg, err := c.engine.Registration(id, tokenID)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, convertRegistration(reg))
}

func (c *Contexts) handleBan(w http.ResponseWriter, req *http.Request) error {
	id, err := pathUint(req, "id")
	if err != nil {
		return err
	}
	tokenID, err := pathUint(req, "token")
	if err != nil {
		return err
	}
	var body Ban
	// the body is optional
	if err := restutil.ParseJSON(req.Body, &body); err != nil && !errors.Is(err, io.EOF) {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	proof, err := body.Proof.convert()
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "proof"))
	}
	if err := c.engine.BanEntry(req.Context(), id, tokenID, proof); err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{"banned": true})
}

func (c *Contexts) handleSubmit(w http.ResponseWriter, req *http.Request) error {
	id, err := pathUint(req, "id")
	if err != nil {
		return err
	}
	caller, err := restutil.Caller(req)
	if err != nil {
		return err
	}
	var body Result
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	err = c.engine.SubmitResult(req.Context(), &contest.SubmitParams{
		ContextID: id,
		TokenID:   body.TokenID,
		Caller:    caller,
		Position:  body.Position,
		Score:     body.Score,
	})
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &body)
}

func (c *Contexts) handleGetLeaderboard(w http.ResponseWriter, req *http.Request) error {
	id, err := pathUint(req, "id")
	if err != nil {
		return err
	}
	entries, err := c.engine.Leaderboard(id)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, convertLeaderboard(entries))
}

func (c *Contexts) handleAddPrize(w http.ResponseWriter, req *http.Request) error {
	id, err := pathUint(req, "id")
	if err != nil {
		return err
	}
	caller, err := restutil.Caller(req)
	if err != nil {
		return err
	}
	var body AddPrize
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	kind, err := parsePrizeKind(body.Kind)
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "kind"))
	}
	p := &contest.PrizeParams{
		ContextID: id,
		Sponsor:   caller,
		Token:     body.Token,
		Kind:      kind,
		Amount:    bigOf(body.Amount),
		NFTID:     bigOf(body.NFTID),
		Position:  body.Position,
		Count:     body.Count,
	}
	if body.Curve != nil {
		if p.Curve, err = body.Curve.convert(); err != nil {
			return restutil.BadRequest(errors.WithMessage(err, "curve"))
		}
	}

	prizeID, err := c.engine.AddSponsoredPrize(req.Context(), p)
	if err != nil {
		return err
	}
	pz, err := c.engine.Prize(prizeID)
	if err != nil {
		return err
	}
	return restutil.WriteJSONStatus(w, http.StatusCreated, convertPrize(pz))
}

func (c *Contexts) handleGetPrizes(w http.ResponseWriter, req *http.Request) error {
	id, err := pathUint(req, "id")
	if err != nil {
		return err
	}
	if _, err := c.engine.Context(id); err != nil {
		return err
	}
	ps, err := c.engine.Prizes(id)
	if err != nil {
		return err
	}
	out := make([]*Prize, len(ps))
	for i, p := range ps {
		out[i] = convertPrize(p)
	}
	return restutil.WriteJSON(w, out)
}

func (c *Contexts) handleGetPrize(w http.ResponseWriter, req *http.Request) error {
	id, err := pathUint(req, "id")
	if err != nil {
		return err
	}
	p, err := c.engine.Prize(id)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, convertPrize(p))
}

func (c *Contexts) handleClaim(w http.ResponseWriter, req *http.Request) error {
	id, err := pathUint(req, "id")
	if err != nil {
		return err
	}
	var body Claim
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	claim, err := body.convert()
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "kind"))
	}
	payout, err := c.engine.Claim(req.Context(), id, claim)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, convertPayout(payout))
}

func (c *Contexts) handleGetClaim(w http.ResponseWriter, req *http.Request) error {
	id, err := pathUint(req, "id")
	if err != nil {
		return err
	}
	query := req.URL.Query()
	body := Claim{Kind: query.Get("kind")}
	if v := query.Get("tokenId"); v != "" {
		if body.TokenID, err = restutil.ParseUint("tokenId", v); err != nil {
			return err
		}
	}
	if v := query.Get("prizeId"); v != "" {
		if body.PrizeID, err = restutil.ParseUint("prizeId", v); err != nil {
			return err
		}
	}
	if v := query.Get("position"); v != "" {
		pos, err := restutil.ParseUint("position", v)
		if err != nil {
			return err
		}
		if pos > math.MaxUint32 {
			return restutil.BadRequest(errors.New("position: out of range"))
		}
		body.Position = uint32(pos)
	}
	claim, err := body.convert()
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "kind"))
	}
	if _, err := c.engine.Context(id); err != nil {
		return err
	}
	claimed, err := c.engine.IsClaimed(id, claim)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &ClaimStatus{Claimed: claimed})
}

func (c *Contexts) handleTransferToken(w http.ResponseWriter, req *http.Request) error {
	id, err := pathUint(req, "id")
	if err != nil {
		return err
	}
	caller, err := restutil.Caller(req)
	if err != nil {
		return err
	}
	var body TransferToken
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := c.engine.TransferToken(req.Context(), id, caller, body.To); err != nil {
		return err
	}
	t, err := c.engine.Token(id)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, convertToken(t))
}

func (c *Contexts) handleGetToken(w http.ResponseWriter, req *http.Request) error {
	id, err := pathUint(req, "id")
	if err != nil {
		return err
	}
	t, err := c.engine.Token(id)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, convertToken(t))
}

// Mount registers the context, prize and token routes on root.
func (c *Contexts) Mount(root *mux.Router) {
	sub := root.PathPrefix("/contexts").Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /contexts").
		HandlerFunc(restutil.WrapHandlerFunc(c.handleCreate))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /contexts/{id}").
		HandlerFunc(restutil.WrapHandlerFunc(c.handleGet))
	sub.Path("/{id}/phase").
		Methods(http.MethodGet).
		Name("GET /contexts/{id}/phase").
		HandlerFunc(restutil.WrapHandlerFunc(c.handleGetPhase))
	sub.Path("/{id}/entries").
		Methods(http.MethodPost).
		Name("POST /contexts/{id}/entries").
		HandlerFunc(restutil.WrapHandlerFunc(c.handleEnter))
	sub.Path("/{id}/entries/{token}").
		Methods(http.MethodGet).
		Name("GET /contexts/{id}/entries/{token}").
		HandlerFunc(restutil.WrapHandlerFunc(c.handleGetEntry))
	sub.Path("/{id}/entries/{token}/ban").
		Methods(http.MethodPost).
		Name("POST /contexts/{id}/entries/{token}/ban").
		HandlerFunc(restutil.WrapHandlerFunc(c.handleBan))
	sub.Path("/{id}/results").
		Methods(http.MethodPost).
		Name("POST /contexts/{id}/results").
		HandlerFunc(restutil.WrapHandlerFunc(c.handleSubmit))
	sub.Path("/{id}/leaderboard").
		Methods(http.MethodGet).
		Name("GET /contexts/{id}/leaderboard").
		HandlerFunc(restutil.WrapHandlerFunc(c.handleGetLeaderboard))
	sub.Path("/{id}/prizes").
		Methods(http.MethodPost).
		Name("POST /contexts/{id}/prizes").
		HandlerFunc(restutil.WrapHandlerFunc(c.handleAddPrize))
	sub.Path("/{id}/prizes").
		Methods(http.MethodGet).
		Name("GET /contexts/{id}/prizes").
		HandlerFunc(restutil.WrapHandlerFunc(c.handleGetPrizes))
	sub.Path("/{id}/claims").
		Methods(http.MethodPost).
		Name("POST /contexts/{id}/claims").
		HandlerFunc(restutil.WrapHandlerFunc(c.handleClaim))
	sub.Path("/{id}/claims").
		Methods(http.MethodGet).
		Name("GET /contexts/{id}/claims").
		HandlerFunc(restutil.WrapHandlerFunc(c.handleGetClaim))

	root.Path("/prizes/{id}").
		Methods(http.MethodGet).
		Name("GET /prizes/{id}").
		HandlerFunc(restutil.WrapHandlerFunc(c.handleGetPrize))

	tokens := root.PathPrefix("/tokens").Subrouter()
	tokens.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /tokens/{id}").
		HandlerFunc(restutil.WrapHandlerFunc(c.handleGetToken))
	tokens.Path("/{id}/transfer").
		Methods(http.MethodPost).
		Name("POST /tokens/{id}/transfer").
		HandlerFunc(restutil.WrapHandlerFunc(c.handleTransferToken))
}
