// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eligibility

import (
	"context"
	"math/big"
	"slices"

	"github.com/pkg/errors"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/ledger"
	"github.com/vechain/arena/reverts"
	"github.com/vechain/arena/storage"
	"github.com/vechain/arena/validator"
)

var slotUsage = storage.NameToSlot("eligibility-usage")

// Participation is what the resolver needs to know about a token's entry
// into a qualifying context.
type Participation struct {
	Registered   bool
	HasSubmitted bool
	IsBanned     bool
}

// Contexts exposes the state of other contexts to cross context checks.
type Contexts interface {
	Exists(contextID uint64) (bool, error)
	IsFinalized(contextID uint64, now uint64) (bool, error)
	Participation(contextID, tokenID uint64) (Participation, error)
	Occupant(contextID uint64, position uint32) (tokenID uint64, ok bool, err error)
	EntryOwner(tokenID uint64) (arena.Address, error)
}

// Owners reports who holds a non-fungible token.
type Owners interface {
	OwnerOf(ctx context.Context, collection arena.Address, id *big.Int) (arena.Address, error)
}

// Validators finds the external validator bound to an address.
type Validators interface {
	Lookup(addr arena.Address) (validator.Validator, error)
}

// Request is one eligibility check.
type Request struct {
	ContextID   uint64
	Requirement *Requirement
	Proof       *Qualification
	Caller      arena.Address
	Now         uint64
}

// Resolution is the outcome of a successful check.
type Resolution struct {
	// Qualifying is the identity the proof resolved to.
	Qualifying arena.Address
	// Key identifies the credential for entry limit accounting.
	Key arena.Bytes32
}

// Recipient returns who receives the entry token. A caller entering with
// its own credential may route the token to any player; a credential that
// resolves to someone else always routes to that someone.
func (r *Resolution) Recipient(caller, player arena.Address) arena.Address {
	if r.Qualifying == caller {
		if player.IsZero() {
			return caller
		}
		return player
	}
	return r.Qualifying
}

// Resolver evaluates entry requirements and tracks credential usage.
type Resolver struct {
	contexts   Contexts
	owners     Owners
	validators Validators
	usage      *storage.Mapping[storage.Key, uint32]
}

func NewResolver(sctx *storage.Context, contexts Contexts, owners Owners, validators Validators) *Resolver {
	return &Resolver{
		contexts:   contexts,
		owners:     owners,
		validators: validators,
		usage:      storage.NewMapping[storage.Key, uint32](sctx, slotUsage),
	}
}

func qualifyingKey(kind Kind, parts ...[]byte) arena.Bytes32 {
	return arena.Blake2b(append([][]byte{{byte(kind)}}, parts...)...)
}

func notEligible(format string, args ...any) error {
	return reverts.Newf(reverts.EligibilityFailure, format, args...)
}

// Resolve checks the proof against the requirement.
func (r *Resolver) Resolve(ctx context.Context, req *Request) (*Resolution, error) {
	rq := req.Requirement
	if err := req.Proof.validate(rq.Kind); err != nil {
		return nil, err
	}

	switch rq.Kind {
	case NFTOwnership:
		id := req.Proof.NFT.TokenID
		owner, err := r.owners.OwnerOf(ctx, rq.NFT.Collection, id)
		if err != nil {
			if errors.Is(err, ledger.ErrNoSuchToken) {
				return nil, reverts.Wrap(reverts.EligibilityFailure, err, "qualifying nft not found")
			}
			return nil, errors.Wrap(err, "resolve nft owner")
		}
		return &Resolution{
			Qualifying: owner,
			Key:        qualifyingKey(NFTOwnership, rq.NFT.Collection.Bytes(), id.Bytes()),
		}, nil

	case CrossContext:
		return r.resolveCross(rq.Cross, req.Proof.Cross, req.Now)

	case Allowlist:
		addr := req.Proof.Allowlist.Address
		if !slices.Contains(rq.Allowlist.Addresses, addr) {
			return nil, notEligible("%v is not on the allowlist", addr)
		}
		return &Resolution{Qualifying: addr, Key: qualifyingKey(Allowlist, addr.Bytes())}, nil

	case External:
		v, err := r.validators.Lookup(rq.External.Validator)
		if err != nil {
			return nil, err
		}
		ok, err := v.IsValid(ctx, req.ContextID, req.Caller, req.Proof.External.Data)
		if err != nil {
			return nil, errors.Wrap(err, "external validator")
		}
		if !ok {
			return nil, notEligible("validator %v rejected %v", rq.External.Validator, req.Caller)
		}
		return &Resolution{Qualifying: req.Caller, Key: qualifyingKey(External, req.Caller.Bytes())}, nil
	}
	return nil, reverts.Newf(reverts.ConfigurationError, "unknown requirement kind %d", rq.Kind)
}

func (r *Resolver) resolveCross(rq *CrossRequirement, proof *CrossProof, now uint64) (*Resolution, error) {
	if !slices.Contains(rq.ContextIDs, proof.ContextID) {
		return nil, notEligible("context %d does not qualify", proof.ContextID)
	}
	final, err := r.contexts.IsFinalized(proof.ContextID, now)
	if err != nil {
		return nil, err
	}
	if !final {
		return nil, notEligible("qualifying context %d is not finalized", proof.ContextID)
	}
	part, err := r.contexts.Participation(proof.ContextID, proof.TokenID)
	if err != nil {
		return nil, err
	}
	if !part.Registered {
		return nil, notEligible("token %d did not enter context %d", proof.TokenID, proof.ContextID)
	}
	if part.IsBanned {
		return nil, notEligible("token %d is banned from context %d", proof.TokenID, proof.ContextID)
	}
	if rq.Mode == Winners {
		if !part.HasSubmitted {
			return nil, notEligible("token %d has no result in context %d", proof.TokenID, proof.ContextID)
		}
		occupant, ok, err := r.contexts.Occupant(proof.ContextID, proof.Position)
		if err != nil {
			return nil, err
		}
		if !ok || occupant != proof.TokenID {
			return nil, notEligible("token %d does not hold position %d of context %d", proof.TokenID, proof.Position, proof.ContextID)
		}
	}
	owner, err := r.contexts.EntryOwner(proof.TokenID)
	if err != nil {
		return nil, err
	}
	return &Resolution{
		Qualifying: owner,
		Key:        qualifyingKey(CrossContext, arena.Uint64Bytes(proof.ContextID), arena.Uint64Bytes(proof.TokenID)),
	}, nil
}

// StillQualifies re-runs the stored proof of an entry on behalf of the
// entry's current holder. The entry stays valid while the proof resolves to
// that holder or to entrant, the identity it resolved to at entry. Routing
// may have sent the token to a player who never held the credential.
func (r *Resolver) StillQualifies(ctx context.Context, req *Request, entrant arena.Address) (bool, error) {
	res, err := r.Resolve(ctx, req)
	if err != nil {
		if reverts.IsKind(err, reverts.EligibilityFailure) {
			return false, nil
		}
		return false, err
	}
	return res.Qualifying == req.Caller || res.Qualifying == entrant, nil
}

func usageKey(contextID uint64, key arena.Bytes32) storage.Key {
	return storage.Join(storage.Uint64(contextID), key)
}

// Usage returns how many entries a credential has consumed in a context.
func (r *Resolver) Usage(contextID uint64, key arena.Bytes32) (uint32, error) {
	return r.usage.Get(usageKey(contextID, key))
}

// Consume counts one more entry against the credential. Going over a non
// zero limit fails and leaves the counter as it was.
func (r *Resolver) Consume(contextID uint64, key arena.Bytes32, limit uint32) (uint32, error) {
	used, err := r.Usage(contextID, key)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get usage")
	}
	used++
	if limit != 0 && used > limit {
		return 0, notEligible("entry limit of %d reached", limit)
	}
	if err := r.usage.Set(usageKey(contextID, key), used); err != nil {
		return 0, errors.Wrap(err, "failed to set usage")
	}
	return used, nil
}

// CheckConfig validates a requirement for a new context.
func (r *Resolver) CheckConfig(ctx context.Context, rq *Requirement, hasRegistration bool) error {
	if err := rq.Validate(); err != nil {
		return err
	}
	switch rq.Kind {
	case CrossContext:
		for _, id := range rq.Cross.ContextIDs {
			ok, err := r.contexts.Exists(id)
			if err != nil {
				return err
			}
			if !ok {
				return reverts.Newf(reverts.ConfigurationError, "qualifying context %d does not exist", id)
			}
		}
	case External:
		v, err := r.validators.Lookup(rq.External.Validator)
		if err != nil {
			return err
		}
		regOnly, err := v.RegistrationOnly(ctx)
		if err != nil {
			return errors.Wrap(err, "external validator")
		}
		if regOnly && !hasRegistration {
			return reverts.Newf(reverts.ConfigurationError, "validator %v requires a registration period", rq.External.Validator)
		}
	}
	return nil
}

// Configure hands per context settings to validators that take them.
func (r *Resolver) Configure(ctx context.Context, contextID uint64, rq *Requirement) error {
	if rq.Kind != External {
		return nil
	}
	v, err := r.validators.Lookup(rq.External.Validator)
	if err != nil {
		return err
	}
	if c, ok := v.(validator.Configurer); ok {
		if err := c.Configure(ctx, contextID, rq.EntryLimit, rq.External.Config); err != nil {
			return errors.Wrap(err, "configure validator")
		}
	}
	return nil
}
