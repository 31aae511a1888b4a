// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"math/big"
	"testing"

	"github.com/danielhkuo/vote-counter/models"
)

func TestChecksum(t *testing.T) {
	tests := []struct {
		name     string
		values   []int
		expected int64
	}{
		{"empty", nil, 0},
		{"single", []int{5}, 5},
		{"weighted", []int{1, 2, 3}, 1 + 2*2 + 3*4},
		{"order matters", []int{3, 2, 1}, 3 + 2*2 + 1*4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Checksum(tt.values)
			if got.Cmp(big.NewInt(tt.expected)) != 0 {
				t.Errorf("Expected %d, got %s", tt.expected, got)
			}
		})
	}
}

func TestChecksum_NoOverflow(t *testing.T) {
	values := make([]int, 70)
	values[69] = 1

	want := new(big.Int).Lsh(big.NewInt(1), 69)
	if got := Checksum(values); got.Cmp(want) != 0 {
		t.Errorf("Expected 2^69, got %s", got)
	}
}

func TestVotesForPositions(t *testing.T) {
	positions := []models.Position{
		{Key: "a", Persons: []models.Person{{Key: "a1"}, {Key: "a2"}}, MaxVotesPerBallot: 2, MaxVacancies: 1},
		{Key: "b", Persons: []models.Person{{Key: "b1"}}, MaxVotesPerBallot: 1, MaxVacancies: 1},
	}
	ballots := []models.Ballot{
		{Index: 0, Vote: []models.Vote{vote("a", "a2"), vote("b", "b1")}},
		{Index: 1, Vote: []models.Vote{vote("a", "invalid"), vote("b", "b1")}},
	}

	got := VotesForPositions(positions, ballots)
	want := []int{0, 1, 2, 2, 0}
	if !equalInts(got, want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}

	// 0 + 1*2 + 2*4 + 2*8 + 0 = 26
	if sum := TotalChecksum(positions, ballots); sum.Int64() != 26 {
		t.Errorf("Expected total checksum 26, got %s", sum)
	}

	// a: 0 + 1*2 + 2*4 = 10, b: 2 + 0 = 2, combined 10 + 2*2 = 14
	if sum := PositionChecksum(positions[0], ballots); sum.Int64() != 10 {
		t.Errorf("Expected position checksum 10, got %s", sum)
	}
	if sum := TotalChecksumByPositions(positions, ballots); sum.Int64() != 14 {
		t.Errorf("Expected checksum by positions 14, got %s", sum)
	}
}

func TestTotalChecksum_Deterministic(t *testing.T) {
	positions := models.DefaultPositions()
	ballots := []models.Ballot{
		{Index: 0, Vote: []models.Vote{vote("diaken", "diaken1"), vote("ouderling", "ouderling3")}},
		{Index: 1, Vote: []models.Vote{vote("ouderling", "ouderling3"), vote("diaken", "invalid")}},
	}
	// Reordering ballots and marks does not change the counts
	reordered := []models.Ballot{
		{Index: 1, Vote: []models.Vote{vote("diaken", "invalid"), vote("ouderling", "ouderling3")}},
		{Index: 0, Vote: []models.Vote{vote("ouderling", "ouderling3"), vote("diaken", "diaken1")}},
	}

	a := TotalChecksum(positions, ballots)
	b := TotalChecksum(positions, reordered)
	if a.Cmp(b) != 0 {
		t.Errorf("Expected equal checksums, got %s and %s", a, b)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
