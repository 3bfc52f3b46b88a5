// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package registry stores contexts and their registrations.
package registry

import (
	"github.com/pkg/errors"

	"github.com/vechain/arena/reverts"
	"github.com/vechain/arena/storage"
)

var (
	slotContexts      = storage.NameToSlot("contexts")
	slotRegistrations = storage.NameToSlot("registrations")
	slotEntryCounts   = storage.NameToSlot("entry-counts")
)

type Registry struct {
	seq           *storage.Sequence
	contexts      *storage.Mapping[storage.Uint64, *Context]
	registrations *storage.Mapping[storage.Uint64, *Registration]
	entryCounts   *storage.Mapping[storage.Uint64, uint32]
}

func New(context *storage.Context, seq *storage.Sequence) *Registry {
	return &Registry{
		seq:           seq,
		contexts:      storage.NewMapping[storage.Uint64, *Context](context, slotContexts),
		registrations: storage.NewMapping[storage.Uint64, *Registration](context, slotRegistrations),
		entryCounts:   storage.NewMapping[storage.Uint64, uint32](context, slotEntryCounts),
	}
}

// NextID allocates the id of a new context.
func (r *Registry) NextID() (uint64, error) {
	return r.seq.Next()
}

// Put stores c under its id.
func (r *Registry) Put(c *Context) error {
	if err := r.contexts.Set(storage.Uint64(c.ID), c); err != nil {
		return errors.Wrap(err, "failed to set context")
	}
	return nil
}

// Get returns the context or a NotFound revert.
func (r *Registry) Get(id uint64) (*Context, error) {
	c, found, err := r.contexts.Lookup(storage.Uint64(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get context")
	}
	if !found {
		return nil, reverts.Newf(reverts.NotFound, "context %d does not exist", id)
	}
	return c, nil
}

func (r *Registry) Exists(id uint64) (bool, error) {
	_, found, err := r.contexts.Lookup(storage.Uint64(id))
	if err != nil {
		return false, errors.Wrap(err, "failed to get context")
	}
	return found, nil
}

// Count returns the number of contexts created so far.
func (r *Registry) Count() (uint64, error) {
	return r.seq.Current()
}

// EntryCount returns how many entries a context took.
func (r *Registry) EntryCount(contextID uint64) (uint32, error) {
	n, err := r.entryCounts.Get(storage.Uint64(contextID))
	if err != nil {
		return 0, errors.Wrap(err, "failed to get entry count")
	}
	return n, nil
}

// Register records a new entry and numbers it.
func (r *Registry) Register(reg *Registration) error {
	n, err := r.EntryCount(reg.ContextID)
	if err != nil {
		return err
	}
	n++
	reg.EntryNumber = n
	if err := r.entryCounts.Set(storage.Uint64(reg.ContextID), n); err != nil {
		return errors.Wrap(err, "failed to set entry count")
	}
	return r.PutRegistration(reg)
}

// PutRegistration overwrites a registration.
func (r *Registry) PutRegistration(reg *Registration) error {
	if err := r.registrations.Set(storage.Uint64(reg.EntryTokenID), reg); err != nil {
		return errors.Wrap(err, "failed to set registration")
	}
	return nil
}

// FindRegistration returns the entry of tokenID into contextID, nil if the
// token did not enter it.
func (r *Registry) FindRegistration(contextID, tokenID uint64) (*Registration, error) {
	reg, found, err := r.registrations.Lookup(storage.Uint64(tokenID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get registration")
	}
	if !found || reg.ContextID != contextID {
		return nil, nil
	}
	return reg, nil
}

// Registration is FindRegistration with a NotFound revert for missing entries.
func (r *Registry) Registration(contextID, tokenID uint64) (*Registration, error) {
	reg, err := r.FindRegistration(contextID, tokenID)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, reverts.Newf(reverts.NotFound, "token %d is not registered in context %d", tokenID, contextID)
	}
	return reg, nil
}
