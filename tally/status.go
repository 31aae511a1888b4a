// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"sort"

	"github.com/danielhkuo/vote-counter/models"
)

type rankedCandidate struct {
	person models.Person
	votes  int
}

// rank orders candidates by votes descending, keeping display order on ties
func rank(position models.Position, ballots []models.Ballot) []rankedCandidate {
	counts := candidateVotes(position, ballots)
	ranked := make([]rankedCandidate, len(position.Persons))
	for i, p := range position.Persons {
		ranked[i] = rankedCandidate{person: p, votes: counts[i]}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].votes > ranked[j].votes
	})
	return ranked
}

// GetTopCandidates returns the keys of the candidates occupying the
// position's vacancies, most votes first. Everyone tied with the candidate
// on the last seat is included, so the result may hold more keys than
// there are vacancies.
func GetTopCandidates(position models.Position, ballots []models.Ballot) []string {
	ranked := rank(position, ballots)
	if len(ranked) == 0 || position.MaxVacancies < 1 {
		return []string{}
	}

	cutoffIndex := min(position.MaxVacancies-1, len(ranked)-1)
	cutoffVotes := ranked[cutoffIndex].votes

	top := []string{}
	for _, c := range ranked {
		if c.votes >= cutoffVotes {
			top = append(top, c.person.Key)
		}
	}
	return top
}

// GetCandidateStatus classifies one candidate of a position.
//
// Below the electoral divisor a candidate is BELOW_DIVISOR. Otherwise, with
// higher the number of candidates holding strictly more votes and same the
// number holding exactly as many (the candidate included):
//
//	higher+same <= vacancies  ELECTED
//	higher < vacancies        TIED
//	otherwise                 ABOVE_DIVISOR
//
// The invalid mark is always BELOW_DIVISOR.
func GetCandidateStatus(position models.Position, ref models.CandidateRef, ballots []models.Ballot, electoralDivisorVariable float64) models.CandidateStatus {
	if ref.IsInvalid() {
		return models.StatusBelowDivisor
	}

	votes := CountVotes(position, ref, ballots)
	divisor := CalculateElectoralDivisor(position, ballots, electoralDivisorVariable)
	return classify(votes, divisor, candidateVotes(position, ballots), position.MaxVacancies)
}

func classify(votes, divisor int, field []int, vacancies int) models.CandidateStatus {
	if votes < divisor {
		return models.StatusBelowDivisor
	}

	higher, same := 0, 0
	for _, other := range field {
		switch {
		case other > votes:
			higher++
		case other == votes:
			same++
		}
	}

	if higher+same <= vacancies {
		return models.StatusElected
	}
	if higher < vacancies {
		return models.StatusTied
	}
	return models.StatusAboveDivisor
}

// PositionResults returns votes and status for every candidate of the
// position. Candidates keep display order unless the settings ask for
// sorting by vote count.
func PositionResults(position models.Position, ballots []models.Ballot, settings models.Settings) []models.CandidateResult {
	counts := candidateVotes(position, ballots)
	divisor := CalculateElectoralDivisor(position, ballots, settings.ElectoralDivisorVariable)

	results := make([]models.CandidateResult, len(position.Persons))
	for i, p := range position.Persons {
		results[i] = models.CandidateResult{
			Key:    p.Key,
			Name:   p.Name,
			Votes:  counts[i],
			Status: classify(counts[i], divisor, counts, position.MaxVacancies),
		}
	}

	if settings.SortResultsByVoteCount {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Votes > results[j].Votes
		})
	}
	return results
}
