// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"math/big"
	"time"
)

// InvalidKey is the reserved person key marking a position invalid on a ballot
const InvalidKey = "invalid"

// Default tunables
const (
	DefaultElectoralDivisorVariable = 0.8
	DefaultMaxVotesPerBallot        = 1
)

// Candidate status constants
const (
	StatusElected      CandidateStatus = "elected"
	StatusTied         CandidateStatus = "tied"
	StatusAboveDivisor CandidateStatus = "above-divisor"
	StatusBelowDivisor CandidateStatus = "below-divisor"
)

type CandidateStatus string

// CandidateRef names what a vote was cast for: a real candidate or the
// invalid mark. A real candidate keyed "invalid" cannot be expressed.
type CandidateRef struct {
	key     string
	invalid bool
}

// Candidate returns a reference to the real candidate with the given key
func Candidate(key string) CandidateRef {
	return CandidateRef{key: key}
}

// Invalid returns the invalid mark
func Invalid() CandidateRef {
	return CandidateRef{invalid: true}
}

// ParseCandidateRef maps a wire person string to a reference.
// "invalid" always decodes to the invalid mark.
func ParseCandidateRef(person string) CandidateRef {
	if person == InvalidKey {
		return Invalid()
	}
	return Candidate(person)
}

func (c CandidateRef) IsInvalid() bool { return c.invalid }

// Key returns the candidate key, or "" for the invalid mark
func (c CandidateRef) Key() string { return c.key }

// String returns the wire form
func (c CandidateRef) String() string {
	if c.invalid {
		return InvalidKey
	}
	return c.key
}

func (c CandidateRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *CandidateRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = ParseCandidateRef(s)
	return nil
}

// Domain types

type Person struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type Position struct {
	Key               string   `json:"key"`
	Title             string   `json:"title"`
	Persons           []Person `json:"persons"`
	MaxVotesPerBallot int      `json:"maxVotesPerBallot"`
	MaxVacancies      int      `json:"maxVacancies"`
}

// HasPerson reports whether key names one of the position's candidates
func (p Position) HasPerson(key string) bool {
	for _, person := range p.Persons {
		if person.Key == key {
			return true
		}
	}
	return false
}

type Vote struct {
	Position string       `json:"position"`
	Person   CandidateRef `json:"person"`
}

type Ballot struct {
	Index int    `json:"index"`
	Vote  []Vote `json:"vote"`
}

// Has reports whether the ballot carries a vote for (position, ref)
func (b Ballot) Has(position string, ref CandidateRef) bool {
	for _, v := range b.Vote {
		if v.Position == position && v.Person == ref {
			return true
		}
	}
	return false
}

type Settings struct {
	ElectoralDivisorVariable float64 `json:"electoralDivisorVariable"`
	TotalAllowedVoters       int     `json:"totalAllowedVoters"`
	SortResultsByVoteCount   bool    `json:"sortResultsByVoteCount"`
}

func DefaultSettings() Settings {
	return Settings{
		ElectoralDivisorVariable: DefaultElectoralDivisorVariable,
	}
}

// DefaultPositions is the dataset a fresh installation starts with
func DefaultPositions() []Position {
	return []Position{
		{
			Key:               "diaken",
			Title:             "Diaken",
			MaxVotesPerBallot: 1,
			MaxVacancies:      1,
			Persons: []Person{
				{Key: "diaken1", Name: "Diaken 1"},
				{Key: "diaken2", Name: "Diaken 2"},
			},
		},
		{
			Key:               "ouderling",
			Title:             "Ouderling",
			MaxVotesPerBallot: 2,
			MaxVacancies:      2,
			Persons: []Person{
				{Key: "ouderling1", Name: "Ouderling 1"},
				{Key: "ouderling2", Name: "Ouderling 2"},
				{Key: "ouderling3", Name: "Ouderling 3"},
				{Key: "ouderling4", Name: "Ouderling 4"},
			},
		},
		{
			Key:               "secretaris",
			Title:             "Secretaris",
			MaxVotesPerBallot: 1,
			MaxVacancies:      1,
			Persons: []Person{
				{Key: "sec1", Name: "Secretaris 1"},
			},
		},
	}
}

// Result types

type CandidateResult struct {
	Key    string          `json:"key"`
	Name   string          `json:"name"`
	Votes  int             `json:"votes"`
	Status CandidateStatus `json:"status"`
}

// VoteStat is one slice of a position's vote distribution
type VoteStat struct {
	Name  string `json:"name"`
	Key   string `json:"key,omitempty"`
	Value int    `json:"value"`
	Total int    `json:"total"`
}

type PositionSummary struct {
	Key               string            `json:"key"`
	Title             string            `json:"title"`
	MaxVotesPerBallot int               `json:"maxVotesPerBallot"`
	MaxVacancies      int               `json:"maxVacancies"`
	ValidVotes        int               `json:"validVotes"`
	BlankVotes        int               `json:"blankVotes"`
	InvalidVotes      int               `json:"invalidVotes"`
	ElectoralDivisor  int               `json:"electoralDivisor"`
	DivisorFormula    string            `json:"divisorFormula"`
	TopCandidates     []string          `json:"topCandidates"`
	Results           []CandidateResult `json:"results"`
	Stats             []VoteStat        `json:"stats"`
	Checksum          *big.Int          `json:"checksum"`
}

type ResultSummary struct {
	BallotCount              int               `json:"ballotCount"`
	TotalAllowedVoters       int               `json:"totalAllowedVoters"`
	AttendanceRatio          string            `json:"attendanceRatio"`
	TotalValidVotes          int               `json:"totalValidVotes"`
	ElectoralDivisorVariable float64           `json:"electoralDivisorVariable"`
	Positions                []PositionSummary `json:"positions"`
	TotalChecksum            *big.Int          `json:"totalChecksum"`
	TotalChecksumByPositions *big.Int          `json:"totalChecksumByPositions"`
}

type ResultSnapshot struct {
	ID         string        `json:"id"`
	ComputedAt time.Time     `json:"computed_at"`
	Summary    ResultSummary `json:"summary"`
	InputsHash string        `json:"inputs_hash"` // fingerprint of positions, ballots and settings
}

// Request types

type SetVoteRequest struct {
	Position string `json:"position"`
	Person   string `json:"person"`
	Checked  bool   `json:"checked"`
}

// Response types

type ReplaceResponse struct {
	Count   int    `json:"count"`
	Message string `json:"message"`
}

type RemoveBallotResponse struct {
	Count   int `json:"count"`
	Current int `json:"current"`
}

type ArchiveResponse struct {
	Objects []string `json:"objects"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
