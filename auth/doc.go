// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the access gate and identifier helpers.

This is not a security mechanism: users identify themselves with a
plain id and nothing is signed or verified.

# Allow-list

The allow-list is loaded from configuration at startup:

	gate := auth.NewAllowList(cfg.AllowList)
	if err := gate.Check(userID); errors.Is(err, auth.ErrNotAllowed) {
		// 403
	}

An empty list disables the gate.

# User IDs

NormalizeUserID trims whitespace and rejects empty ids or ids longer
than MaxUserIDLen.

# Response IDs

NewResponseID returns a random UUID (github.com/google/uuid).
*/
package auth
