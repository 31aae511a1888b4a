// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package importer

import (
	"fmt"
	"time"

	"github.com/danielhkuo/vote-counter/models"
)

// UnnamedPosition is the title given to positions imported without one
const UnnamedPosition = "Unnamed Position"

// ConvertLegacyPosition upgrades a decoded JSON position object.
//
// maxVotesPerBallot comes from the legacy "max" field when present, else
// from "maxVotesPerBallot", else defaults to 1. maxVacancies falls back to
// the resolved maxVotesPerBallot.
func ConvertLegacyPosition(obj map[string]any, now time.Time) models.Position {
	maxVotes := models.DefaultMaxVotesPerBallot
	if n, ok := number(obj["max"]); ok {
		maxVotes = n
	} else if n, ok := number(obj["maxVotesPerBallot"]); ok {
		maxVotes = n
	}

	maxVacancies := maxVotes
	if n, ok := number(obj["maxVacancies"]); ok {
		maxVacancies = n
	}

	key, ok := obj["key"].(string)
	if !ok {
		key = fmt.Sprintf("position_%d", now.UnixMilli())
	}
	title, ok := obj["title"].(string)
	if !ok {
		title = UnnamedPosition
	}

	return models.Position{
		Key:               key,
		Title:             title,
		Persons:           persons(obj["persons"]),
		MaxVotesPerBallot: maxVotes,
		MaxVacancies:      maxVacancies,
	}
}

// ConvertLegacyPositions upgrades every object in a decoded JSON array.
// Non-object elements are dropped and anything but an array yields an
// empty result. Placeholder keys are one millisecond apart so they stay
// unique within one import.
func ConvertLegacyPositions(input any, now time.Time) []models.Position {
	elements, ok := input.([]any)
	if !ok {
		return []models.Position{}
	}

	positions := make([]models.Position, 0, len(elements))
	for _, e := range elements {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		stamp := now.Add(time.Duration(len(positions)) * time.Millisecond)
		positions = append(positions, ConvertLegacyPosition(obj, stamp))
	}
	return positions
}

func persons(v any) []models.Person {
	out := []models.Person{}
	elements, ok := v.([]any)
	if !ok {
		return out
	}
	for _, e := range elements {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		key, _ := obj["key"].(string)
		name, _ := obj["name"].(string)
		out = append(out, models.Person{Key: key, Name: name})
	}
	return out
}

// number accepts JSON numbers with an integral value
func number(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
