// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import "github.com/danielhkuo/vote-counter/models"

// Labels for the non-candidate slices of a position's distribution
const (
	BlankLabel   = "Blank"
	InvalidLabel = "Invalid"
)

// PositionVoteStats splits the position's vote slots into one entry per
// candidate, then Blank, then Invalid. Every entry carries the total.
func PositionVoteStats(position models.Position, ballots []models.Ballot) []models.VoteStat {
	counts := candidateVotes(position, ballots)
	blank := CalculateBlankVotes(position, ballots)
	invalid := CountVotes(position, models.Invalid(), ballots)

	total := blank + invalid
	for _, c := range counts {
		total += c
	}

	stats := make([]models.VoteStat, 0, len(counts)+2)
	for i, p := range position.Persons {
		stats = append(stats, models.VoteStat{Name: p.Name, Key: p.Key, Value: counts[i], Total: total})
	}
	stats = append(stats,
		models.VoteStat{Name: BlankLabel, Value: blank, Total: total},
		models.VoteStat{Name: InvalidLabel, Value: invalid, Total: total},
	)
	return stats
}

// SummarizePosition computes every tally figure for one position
func SummarizePosition(position models.Position, ballots []models.Ballot, settings models.Settings) models.PositionSummary {
	coef := settings.ElectoralDivisorVariable
	return models.PositionSummary{
		Key:               position.Key,
		Title:             position.Title,
		MaxVotesPerBallot: position.MaxVotesPerBallot,
		MaxVacancies:      position.MaxVacancies,
		ValidVotes:        ValidVotes(position, ballots),
		BlankVotes:        CalculateBlankVotes(position, ballots),
		InvalidVotes:      CountVotes(position, models.Invalid(), ballots),
		ElectoralDivisor:  CalculateElectoralDivisor(position, ballots, coef),
		DivisorFormula:    DivisorFormula(position, ballots, coef),
		TopCandidates:     GetTopCandidates(position, ballots),
		Results:           PositionResults(position, ballots, settings),
		Stats:             PositionVoteStats(position, ballots),
		Checksum:          PositionChecksum(position, ballots),
	}
}

// Summarize tallies the whole dataset from a single ballot snapshot, so
// statuses and checksums always agree with each other
func Summarize(positions []models.Position, ballots []models.Ballot, settings models.Settings) models.ResultSummary {
	summaries := make([]models.PositionSummary, len(positions))
	for i, position := range positions {
		summaries[i] = SummarizePosition(position, ballots, settings)
	}

	return models.ResultSummary{
		BallotCount:              len(ballots),
		TotalAllowedVoters:       settings.TotalAllowedVoters,
		AttendanceRatio:          CalculateAttendanceRatio(len(ballots), settings.TotalAllowedVoters),
		TotalValidVotes:          TotalValidVotes(ballots),
		ElectoralDivisorVariable: settings.ElectoralDivisorVariable,
		Positions:                summaries,
		TotalChecksum:            TotalChecksum(positions, ballots),
		TotalChecksumByPositions: TotalChecksumByPositions(positions, ballots),
	}
}
