// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth guards destructive operator actions and fingerprints result inputs.

# Operator Key

The operator key uses HMAC-SHA256 to create a deterministic, verifiable key:

	adminKey := auth.GenerateAdminKey(auth.Scope, salt)
	err := auth.ValidateAdminKey(auth.Scope, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same salt always produces the same key, so nothing is stored. The server
logs nothing about the key; the operator computes it once from the salt.

Requests that replace positions, delete ballots, import data or persist a
result snapshot must carry the key in the X-Admin-Key header.

# Input Fingerprints

	hash := auth.HashInputs(positionsJSON, ballotsJSON, settingsJSON)

Returns the hex SHA-256 of the length-prefixed parts. A result snapshot
stores it so two snapshots of the same data can be recognised.
*/
package auth
