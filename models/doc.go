// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the election domain types and the API payloads.

# Domain Types

  - Position: a contested office with candidates, a per-ballot vote cap
    (maxVotesPerBallot) and a seat count (maxVacancies)
  - Person: a candidate for one position
  - Ballot: one voter's marks, identified by a zero-based index
  - Vote: a (position, candidate) mark on a ballot
  - CandidateRef: either a real candidate key or the invalid mark
  - Settings: electoral divisor coefficient, eligible voter count, display sort

# The Invalid Mark

On the wire a vote for the person "invalid" marks the whole position invalid
on that ballot. Internally this is CandidateRef{invalid}, never a candidate
key, so comparisons cannot confuse the two:

	models.ParseCandidateRef("invalid") == models.Invalid() // true
	models.Candidate("invalid") == models.Invalid()         // false

# Result Types

  - CandidateResult: votes and status for one candidate
  - VoteStat: one slice (candidate, Blank or Invalid) of a position's slots
  - PositionSummary: every tally figure for one position
  - ResultSummary: the whole dataset tallied from one ballot snapshot
  - ResultSnapshot: a persisted ResultSummary

# Constants

Candidate status values:

	StatusElected      = "elected"
	StatusTied         = "tied"
	StatusAboveDivisor = "above-divisor"
	StatusBelowDivisor = "below-divisor"
*/
package models
