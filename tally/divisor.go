// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"fmt"
	"math"
	"strconv"

	"github.com/danielhkuo/vote-counter/models"
)

// CalculateElectoralDivisor returns the minimum number of votes a candidate
// needs to be electable:
//
//	ceil(validVotes / candidateCount * coefficient)
//
// A position without candidates has divisor 0.
func CalculateElectoralDivisor(position models.Position, ballots []models.Ballot, electoralDivisorVariable float64) int {
	persons := len(position.Persons)
	if persons == 0 {
		return 0
	}

	validVotes := ValidVotes(position, ballots)
	return int(math.Ceil(float64(validVotes) / float64(persons) * electoralDivisorVariable))
}

// DivisorFormula renders the divisor computation with the actual numbers
// filled in, for manual cross-checking
func DivisorFormula(position models.Position, ballots []models.Ballot, electoralDivisorVariable float64) string {
	return fmt.Sprintf("ceil(%d / %d * %s)",
		ValidVotes(position, ballots),
		len(position.Persons),
		strconv.FormatFloat(electoralDivisorVariable, 'f', -1, 64),
	)
}
