// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"math/big"

	"github.com/danielhkuo/vote-counter/models"
)

// Checksum weights every value by its position: sum(values[i] * 2^i).
// The result depends on input order, so callers pass values in the
// canonical order produced by VotesForPositions.
func Checksum(values []int) *big.Int {
	weighted := make([]*big.Int, len(values))
	for i, v := range values {
		weighted[i] = big.NewInt(int64(v))
	}
	return CombineChecksums(weighted)
}

// CombineChecksums applies the Checksum weighting to already computed sums
func CombineChecksums(values []*big.Int) *big.Int {
	sum := new(big.Int)
	term := new(big.Int)
	for i, v := range values {
		term.Lsh(v, uint(i))
		sum.Add(sum, term)
	}
	return sum
}

// VotesForPositions lists vote counts in canonical checksum order: for each
// position in dataset order, its candidates in display order followed by
// the invalid count.
func VotesForPositions(positions []models.Position, ballots []models.Ballot) []int {
	var counts []int
	for _, position := range positions {
		counts = append(counts, candidateVotes(position, ballots)...)
		counts = append(counts, CountVotes(position, models.Invalid(), ballots))
	}
	return counts
}

func PositionChecksum(position models.Position, ballots []models.Ballot) *big.Int {
	return Checksum(VotesForPositions([]models.Position{position}, ballots))
}

// TotalChecksum is the checksum of the whole canonical vote sequence
func TotalChecksum(positions []models.Position, ballots []models.Ballot) *big.Int {
	return Checksum(VotesForPositions(positions, ballots))
}

// TotalChecksumByPositions is the checksum of the per-position checksums
func TotalChecksumByPositions(positions []models.Position, ballots []models.Ballot) *big.Int {
	sums := make([]*big.Int, len(positions))
	for i, position := range positions {
		sums[i] = PositionChecksum(position, ballots)
	}
	return CombineChecksums(sums)
}
