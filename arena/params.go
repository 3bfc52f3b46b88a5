// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package arena

import (
	"errors"
	"fmt"
)

// BasisPoints is the basis point denominator, 10000 == 100%.
const BasisPoints uint16 = 10000

// Params holds the engine wide bounds applied when a context is created.
// All durations are in seconds.
type Params struct {
	MinRegistrationLength uint64 `yaml:"min-registration-length"`
	MaxRegistrationLength uint64 `yaml:"max-registration-length"`
	MinGameLength         uint64 `yaml:"min-game-length"`
	MaxGameLength         uint64 `yaml:"max-game-length"`
	MinSubmission         uint64 `yaml:"min-submission"`
	MaxSubmission         uint64 `yaml:"max-submission"`
	// ShareTolerance is how far (in basis points) the configured shares of an
	// entry fee may fall short of 100%.
	ShareTolerance uint16 `yaml:"share-tolerance"`
}

// DefaultParams returns the parameters used unless overridden by config.
func DefaultParams() Params {
	return Params{
		MinRegistrationLength: 15 * 60,
		MaxRegistrationLength: 30 * 24 * 3600,
		MinGameLength:         15 * 60,
		MaxGameLength:         380 * 24 * 3600,
		MinSubmission:         15 * 60,
		MaxSubmission:         14 * 24 * 3600,
		ShareTolerance:        200,
	}
}

// Validate checks the parameters are self consistent.
func (p Params) Validate() error {
	if p.MinRegistrationLength > p.MaxRegistrationLength {
		return fmt.Errorf("min-registration-length %d exceeds max %d", p.MinRegistrationLength, p.MaxRegistrationLength)
	}
	if p.MinGameLength == 0 {
		return errors.New("min-game-length must be positive")
	}
	if p.MinGameLength > p.MaxGameLength {
		return fmt.Errorf("min-game-length %d exceeds max %d", p.MinGameLength, p.MaxGameLength)
	}
	if p.MinSubmission > p.MaxSubmission {
		return fmt.Errorf("min-submission %d exceeds max %d", p.MinSubmission, p.MaxSubmission)
	}
	if p.ShareTolerance >= BasisPoints {
		return fmt.Errorf("share-tolerance %d must be below %d", p.ShareTolerance, BasisPoints)
	}
	return nil
}
