// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tally implements the vote counting rules.

Every function is a pure computation over the positions, ballots and
settings it is given. Nothing here performs I/O or keeps state; callers load
a snapshot from the store and pass it in.

# Counting

	CountVotes(position, models.Candidate("anna"), ballots)
	CountVotes(position, models.Invalid(), ballots) // invalid marks × maxVotesPerBallot
	CalculateBlankVotes(position, ballots)

For every position the vote slots are conserved:

	sum(candidate votes) + invalid + blank == len(ballots) * maxVotesPerBallot

# Election Status

CalculateElectoralDivisor gives the vote threshold
ceil(validVotes / candidates * coefficient). GetTopCandidates returns the
candidates filling the vacancies, including everyone tied for the last seat.
GetCandidateStatus labels a candidate elected, tied, above-divisor or
below-divisor.

# Auditing

Checksum weights value i by 2^i. VotesForPositions produces the canonical
ordering (candidates then invalid, per position, positions in dataset
order) that every checksum is computed over.

# Ballot Editing

SetBallotVote is the only way marks change. Checking the invalid mark
clears the position; checking a candidate clears the invalid mark.
NextBallot, RemoveBallot and ResetBallots manage the ballot list.
*/
package tally
