// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"sort"

	"github.com/danielhkuo/vote-counter/models"
)

// NewBallot returns an empty ballot with the given index
func NewBallot(index int) models.Ballot {
	return models.Ballot{Index: index, Vote: []models.Vote{}}
}

// SetBallotVote checks or unchecks ref for position on a copy of ballot.
//
// Checking the invalid mark drops every other mark for the position.
// Checking a candidate drops an invalid mark for the position. Unchecking
// removes only that mark. Invalid and candidate marks for one position
// therefore never coexist, and checking twice equals checking once.
func SetBallotVote(ballot models.Ballot, position string, ref models.CandidateRef, checked bool) models.Ballot {
	votes := make([]models.Vote, 0, len(ballot.Vote)+1)
	mark := models.Vote{Position: position, Person: ref}

	switch {
	case checked && ref.IsInvalid():
		for _, v := range ballot.Vote {
			if v.Position != position {
				votes = append(votes, v)
			}
		}
		votes = append(votes, mark)
	case checked:
		present := false
		for _, v := range ballot.Vote {
			if v.Position == position && v.Person.IsInvalid() {
				continue
			}
			if v == mark {
				present = true
			}
			votes = append(votes, v)
		}
		if !present {
			votes = append(votes, mark)
		}
	default:
		for _, v := range ballot.Vote {
			if v != mark {
				votes = append(votes, v)
			}
		}
	}

	return models.Ballot{Index: ballot.Index, Vote: votes}
}

// FindBallot returns the ballot with the given index
func FindBallot(ballots []models.Ballot, index int) (models.Ballot, bool) {
	for _, b := range ballots {
		if b.Index == index {
			return b, true
		}
	}
	return models.Ballot{}, false
}

// UpsertBallot replaces the ballot sharing b's index, or adds b. The
// returned slice is ordered by index.
func UpsertBallot(ballots []models.Ballot, b models.Ballot) []models.Ballot {
	out := make([]models.Ballot, 0, len(ballots)+1)
	for _, existing := range ballots {
		if existing.Index != b.Index {
			out = append(out, existing)
		}
	}
	out = append(out, b)
	sortByIndex(out)
	return out
}

// SetVote applies SetBallotVote to the ballot at index, creating the ballot
// when it does not exist yet
func SetVote(ballots []models.Ballot, index int, position string, ref models.CandidateRef, checked bool) ([]models.Ballot, models.Ballot) {
	ballot, ok := FindBallot(ballots, index)
	if !ok {
		ballot = NewBallot(index)
	}
	updated := SetBallotVote(ballot, position, ref, checked)
	return UpsertBallot(ballots, updated), updated
}

// CanCheck reports whether checking ref on ballot stays within the
// position's per-ballot cap. The invalid mark and an already checked
// candidate always fit.
func CanCheck(ballot models.Ballot, position models.Position, ref models.CandidateRef) bool {
	if ref.IsInvalid() || ballot.Has(position.Key, ref) {
		return true
	}
	return validMarks(ballot, position.Key) < position.MaxVotesPerBallot
}

// NextBallot moves to the ballot after current, creating it empty when it
// does not exist
func NextBallot(ballots []models.Ballot, current int) ([]models.Ballot, models.Ballot) {
	next := current + 1
	if b, ok := FindBallot(ballots, next); ok {
		return ballots, b
	}
	b := NewBallot(next)
	return UpsertBallot(ballots, b), b
}

// PreviousIndex is the ballot before current, never below 0
func PreviousIndex(current int) int {
	return max(current-1, 0)
}

// RemoveBallot drops the ballot at index and renumbers the rest 0..n-1 in
// index order. The last remaining ballot cannot be removed.
func RemoveBallot(ballots []models.Ballot, index int) ([]models.Ballot, bool) {
	if len(ballots) <= 1 {
		return ballots, false
	}
	if _, ok := FindBallot(ballots, index); !ok {
		return ballots, false
	}

	out := make([]models.Ballot, 0, len(ballots)-1)
	for _, b := range ballots {
		if b.Index != index {
			out = append(out, b)
		}
	}
	sortByIndex(out)
	for i := range out {
		out[i].Index = i
	}
	return out, true
}

// CurrentAfterRemoval keeps the operator on the same ballot after removed
// was taken out, or on its predecessor when it was the current one
func CurrentAfterRemoval(removed, current, remaining int) int {
	if removed <= current {
		current--
	}
	return max(min(current, remaining-1), 0)
}

// ResetBallots returns the initial ballot list: one empty ballot 0
func ResetBallots() []models.Ballot {
	return []models.Ballot{NewBallot(0)}
}

func sortByIndex(ballots []models.Ballot) {
	sort.SliceStable(ballots, func(i, j int) bool {
		return ballots[i].Index < ballots[j].Index
	})
}
