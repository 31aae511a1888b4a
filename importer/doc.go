// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package importer validates positions and ballots at the file import boundary.

Data that passes here is well-formed; the tally package never checks shapes
itself.

# Positions

	positions, err := importer.ParsePositions(data, time.Now())

Files whose elements all carry key, title, persons, maxVotesPerBallot and
maxVacancies are decoded as-is. Other arrays are upgraded element by element
with ConvertLegacyPosition:

	{"key": "p", "title": "P", "persons": [], "max": 2}
	→ maxVotesPerBallot 2, maxVacancies 2

# Ballots

	ballots, err := importer.ParseBallots(data)

Every element needs an index and a vote array. One bad element rejects the
whole file.

# Errors

Rejections are *ValidationError values carrying a reason fit for display:

	var verr *importer.ValidationError
	if errors.As(err, &verr) {
		// show verr.Reason
	}
*/
package importer
