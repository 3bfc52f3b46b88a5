// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package schedule

import (
	"fmt"
	"math"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/reverts"
)

// Phase is a lifecycle stage of a context.
type Phase uint8

const (
	Scheduled Phase = iota
	Registration
	Staging
	Live
	Submission
	Finalized
)

var phaseNames = [...]string{"scheduled", "registration", "staging", "live", "submission", "finalized"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Period is a half open time range [Start, End) in unix seconds.
type Period struct {
	Start uint64
	End   uint64
}

// Len returns the length of the period.
func (p Period) Len() uint64 {
	if p.End <= p.Start {
		return 0
	}
	return p.End - p.Start
}

// Contains reports whether now falls inside the period.
func (p Period) Contains(now uint64) bool {
	return p.Start <= now && now < p.End
}

// Schedule drives the lifecycle of a context. It is immutable once the
// context exists.
type Schedule struct {
	Registration       *Period `rlp:"nil"`
	Game               Period
	SubmissionDuration uint64
}

// SubmissionEnd returns the time the context becomes final.
func (s *Schedule) SubmissionEnd() uint64 {
	return s.Game.End + s.SubmissionDuration
}

// Phase returns the phase the context is in at now.
func (s *Schedule) Phase(now uint64) Phase {
	switch {
	case now >= s.SubmissionEnd():
		return Finalized
	case now >= s.Game.End:
		return Submission
	case now >= s.Game.Start:
		return Live
	}
	if s.Registration == nil || now < s.Registration.Start {
		return Scheduled
	}
	if now < s.Registration.End {
		return Registration
	}
	return Staging
}

// Validate checks the schedule against the engine parameters.
func (s *Schedule) Validate(params *arena.Params) error {
	if s.Game.End <= s.Game.Start {
		return reverts.New(reverts.ConfigurationError, "game end must be after game start")
	}
	if l := s.Game.Len(); l < params.MinGameLength {
		return reverts.Newf(reverts.ConfigurationError, "game period %ds shorter than minimum %ds", l, params.MinGameLength)
	} else if l > params.MaxGameLength {
		return reverts.Newf(reverts.ConfigurationError, "game period %ds longer than maximum %ds", l, params.MaxGameLength)
	}
	if s.SubmissionDuration < params.MinSubmission || s.SubmissionDuration > params.MaxSubmission {
		return reverts.Newf(reverts.ConfigurationError, "submission duration %ds outside [%d, %d]",
			s.SubmissionDuration, params.MinSubmission, params.MaxSubmission)
	}
	if s.Game.End > math.MaxUint64-s.SubmissionDuration {
		return reverts.Newf(reverts.ConfigurationError, "submission period past game end %d overflows the clock", s.Game.End)
	}
	if r := s.Registration; r != nil {
		if r.End <= r.Start {
			return reverts.New(reverts.ConfigurationError, "registration end must be after registration start")
		}
		if l := r.Len(); l < params.MinRegistrationLength || l > params.MaxRegistrationLength {
			return reverts.Newf(reverts.ConfigurationError, "registration period %ds outside [%d, %d]",
				l, params.MinRegistrationLength, params.MaxRegistrationLength)
		}
		if r.End > s.Game.Start {
			return reverts.New(reverts.ConfigurationError, "registration must end before the game starts")
		}
	}
	return nil
}

// CheckEnter returns nil if entries are accepted at now. Without a
// registration period a context takes entries until the game ends.
func (s *Schedule) CheckEnter(now uint64) error {
	if s.Registration != nil {
		if !s.Registration.Contains(now) {
			return reverts.Newf(reverts.PhaseViolation, "registration is not open (phase %s)", s.Phase(now))
		}
		return nil
	}
	if now >= s.Game.End {
		return reverts.Newf(reverts.PhaseViolation, "context is closed for entries (phase %s)", s.Phase(now))
	}
	return nil
}

// CheckBan returns nil if entries may be banned at now.
func (s *Schedule) CheckBan(now uint64) error {
	if s.Registration == nil {
		return reverts.New(reverts.PhaseViolation, "context has no registration period")
	}
	if p := s.Phase(now); p != Registration && p != Staging {
		return reverts.Newf(reverts.PhaseViolation, "entries can only be banned before the game starts (phase %s)", p)
	}
	return nil
}

// CheckSubmit returns nil if results are accepted at now.
func (s *Schedule) CheckSubmit(now uint64) error {
	if p := s.Phase(now); p != Submission {
		return reverts.Newf(reverts.PhaseViolation, "results are not accepted (phase %s)", p)
	}
	return nil
}

// CheckFinalized returns nil if the context is final at now.
func (s *Schedule) CheckFinalized(now uint64) error {
	if p := s.Phase(now); p != Finalized {
		return reverts.Newf(reverts.PhaseViolation, "context is not finalized (phase %s)", p)
	}
	return nil
}

// CheckAddPrize returns nil if prizes may still be added at now.
func (s *Schedule) CheckAddPrize(now uint64) error {
	if now >= s.Game.End {
		return reverts.Newf(reverts.PhaseViolation, "prizes cannot be added after the game ends (phase %s)", s.Phase(now))
	}
	return nil
}
