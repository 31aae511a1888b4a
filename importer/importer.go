// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/vote-counter/models"
)

// Kinds of exported data
const (
	KindPositions = "positions"
	KindBallots   = "ballots"
)

var (
	ErrNotJSON  = errors.New("file is not valid JSON")
	ErrNotArray = errors.New("file content is not an array")
)

// ValidationError reports why an imported file was rejected
type ValidationError struct {
	Kind   string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid %s: %s", e.Kind, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(kind, reason string, err error) *ValidationError {
	return &ValidationError{Kind: kind, Reason: reason, Err: err}
}

// IsPosition reports whether v has the shape of a current-format position
func IsPosition(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	for _, key := range []string{"key", "title", "persons", "maxVotesPerBallot", "maxVacancies"} {
		if _, ok := obj[key]; !ok {
			return false
		}
	}
	return true
}

// IsBallot reports whether v has the shape of a ballot
func IsBallot(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	if _, ok := obj["index"]; !ok {
		return false
	}
	_, ok = obj["vote"].([]any)
	return ok
}

// ParsePositions decodes an uploaded positions file. Files in which every
// element is a current-format position are decoded directly; anything else
// goes through legacy conversion. The result is validated as a whole.
func ParsePositions(data []byte, now time.Time) ([]models.Position, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, invalid(KindPositions, "Failed to parse positions. Please check the file format.", ErrNotJSON)
	}

	elements, ok := raw.([]any)
	if !ok {
		return nil, invalid(KindPositions, "Uploaded file must contain an array of positions", ErrNotArray)
	}

	var positions []models.Position
	if allMatch(elements, IsPosition) {
		if err := json.Unmarshal(data, &positions); err != nil {
			return nil, invalid(KindPositions, "Failed to parse positions. Please check the file format.", err)
		}
		for i := range positions {
			if positions[i].Persons == nil {
				positions[i].Persons = []models.Person{}
			}
		}
	} else {
		positions = ConvertLegacyPositions(elements, now)
	}

	if err := ValidatePositions(positions); err != nil {
		return nil, err
	}
	return positions, nil
}

// ValidatePositions checks the invariants the tally relies on
func ValidatePositions(positions []models.Position) error {
	seen := make(map[string]bool, len(positions))
	for i, p := range positions {
		if p.Key == "" {
			return invalid(KindPositions, fmt.Sprintf("position %d has no key", i), nil)
		}
		if seen[p.Key] {
			return invalid(KindPositions, fmt.Sprintf("duplicate position key %q", p.Key), nil)
		}
		seen[p.Key] = true

		if p.MaxVotesPerBallot < 1 {
			return invalid(KindPositions, fmt.Sprintf("position %q: maxVotesPerBallot must be positive", p.Key), nil)
		}
		if p.MaxVacancies < 1 {
			return invalid(KindPositions, fmt.Sprintf("position %q: maxVacancies must be positive", p.Key), nil)
		}

		persons := make(map[string]bool, len(p.Persons))
		for _, person := range p.Persons {
			switch {
			case person.Key == "":
				return invalid(KindPositions, fmt.Sprintf("position %q has a person without key", p.Key), nil)
			case person.Key == models.InvalidKey:
				return invalid(KindPositions, fmt.Sprintf("position %q: person key %q is reserved", p.Key, models.InvalidKey), nil)
			case persons[person.Key]:
				return invalid(KindPositions, fmt.Sprintf("position %q: duplicate person key %q", p.Key, person.Key), nil)
			}
			persons[person.Key] = true
		}
	}
	return nil
}

// ParseBallots decodes an uploaded ballots file. Either every element is a
// well-formed ballot or the whole file is rejected.
func ParseBallots(data []byte) ([]models.Ballot, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, invalid(KindBallots, "Failed to parse ballots. Please check the file format.", ErrNotJSON)
	}

	elements, ok := raw.([]any)
	if !ok {
		return nil, invalid(KindBallots, "Uploaded file must contain an array of ballots", ErrNotArray)
	}
	if !allMatch(elements, IsBallot) {
		return nil, invalid(KindBallots, "Invalid ballot format. Please check the file structure.", nil)
	}

	for i, e := range elements {
		for j, v := range e.(map[string]any)["vote"].([]any) {
			if !isVote(v) {
				return nil, invalid(KindBallots, fmt.Sprintf("ballot %d: vote %d needs a position and a person", i, j), nil)
			}
		}
	}

	var ballots []models.Ballot
	if err := json.Unmarshal(data, &ballots); err != nil {
		return nil, invalid(KindBallots, "Invalid ballot format. Please check the file structure.", err)
	}

	seen := make(map[int]bool, len(ballots))
	for _, b := range ballots {
		if b.Index < 0 {
			return nil, invalid(KindBallots, fmt.Sprintf("ballot index %d is negative", b.Index), nil)
		}
		if seen[b.Index] {
			return nil, invalid(KindBallots, fmt.Sprintf("duplicate ballot index %d", b.Index), nil)
		}
		seen[b.Index] = true

		if err := checkMarks(b); err != nil {
			return nil, err
		}
	}
	return ballots, nil
}

// isVote reports whether v is a vote record with a non-empty position and
// person
func isVote(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	position, _ := obj["position"].(string)
	person, _ := obj["person"].(string)
	return position != "" && person != ""
}

// checkMarks enforces one mark per (position, person) on a ballot, and that
// an invalid mark is the only mark for its position
func checkMarks(b models.Ballot) error {
	marks := make(map[models.Vote]bool, len(b.Vote))
	perPosition := make(map[string]int)
	invalidAt := make(map[string]bool)

	for _, v := range b.Vote {
		if marks[v] {
			return invalid(KindBallots, fmt.Sprintf("ballot %d: duplicate vote for %q on %q", b.Index, v.Person.String(), v.Position), nil)
		}
		marks[v] = true
		perPosition[v.Position]++
		if v.Person.IsInvalid() {
			invalidAt[v.Position] = true
		}
	}

	for position := range invalidAt {
		if perPosition[position] > 1 {
			return invalid(KindBallots, fmt.Sprintf("ballot %d: %q is marked invalid and has candidate votes", b.Index, position), nil)
		}
	}
	return nil
}

// ExportFileName names a downloaded export, e.g.
// vote-counter-ballots-2025-03-01T19:04:05Z.json
func ExportFileName(kind string, t time.Time) string {
	return fmt.Sprintf("vote-counter-%s-%s.json", kind, t.UTC().Format(time.RFC3339))
}

func allMatch(elements []any, pred func(any) bool) bool {
	for _, e := range elements {
		if !pred(e) {
			return false
		}
	}
	return true
}
