// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import "github.com/danielhkuo/vote-counter/models"

// CountVotes counts the marks for ref in position across all ballots.
// Each invalid mark counts once per vote slot, because it forfeits every
// slot of the position on that ballot.
func CountVotes(position models.Position, ref models.CandidateRef, ballots []models.Ballot) int {
	checked := 0
	for _, b := range ballots {
		for _, v := range b.Vote {
			if v.Position == position.Key && v.Person == ref {
				checked++
			}
		}
	}

	if ref.IsInvalid() {
		return checked * position.MaxVotesPerBallot
	}
	return checked
}

// ValidVotes counts every non-invalid mark cast for the position
func ValidVotes(position models.Position, ballots []models.Ballot) int {
	valid := 0
	for _, b := range ballots {
		valid += validMarks(b, position.Key)
	}
	return valid
}

// TotalValidVotes counts every non-invalid mark on every ballot
func TotalValidVotes(ballots []models.Ballot) int {
	valid := 0
	for _, b := range ballots {
		for _, v := range b.Vote {
			if !v.Person.IsInvalid() {
				valid++
			}
		}
	}
	return valid
}

// CalculateBlankVotes sums the unused vote slots of the position over all
// ballots. Ballots marked invalid for the position contribute nothing.
// Ballots carrying more marks than the cap make the sum go down rather
// than being rejected here.
func CalculateBlankVotes(position models.Position, ballots []models.Ballot) int {
	blank := 0
	for _, b := range ballots {
		if b.Has(position.Key, models.Invalid()) {
			continue
		}
		blank += position.MaxVotesPerBallot - validMarks(b, position.Key)
	}
	return blank
}

func validMarks(b models.Ballot, positionKey string) int {
	n := 0
	for _, v := range b.Vote {
		if v.Position == positionKey && !v.Person.IsInvalid() {
			n++
		}
	}
	return n
}

// candidateVotes returns the vote count of every candidate, in display order
func candidateVotes(position models.Position, ballots []models.Ballot) []int {
	index := make(map[string]int, len(position.Persons))
	for i, p := range position.Persons {
		if _, seen := index[p.Key]; !seen {
			index[p.Key] = i
		}
	}

	counts := make([]int, len(position.Persons))
	for _, b := range ballots {
		for _, v := range b.Vote {
			if v.Position != position.Key || v.Person.IsInvalid() {
				continue
			}
			if i, ok := index[v.Person.Key()]; ok {
				counts[i]++
			}
		}
	}

	// Duplicate keys share one count
	for i, p := range position.Persons {
		counts[i] = counts[index[p.Key]]
	}
	return counts
}
