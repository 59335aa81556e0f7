// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identifiers and privacy helpers for submissions.

# Session IDs

Every accepted submission gets a random UUID:

	id, err := auth.GenerateSessionID()

Lookups validate the shape of the ID before touching the database:

	if err := auth.ValidateSessionID(id); err != nil {
		// 404
	}

# IP Hashing

Client addresses are stored only as a salted hash:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
