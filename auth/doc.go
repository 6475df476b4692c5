// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides access codes and admin key checks.

# Access Codes

Participants log in with a short random code made of lowercase letters and
digits:

	code, err := auth.GenerateAccessCode(6)  // e.g. "k3x9ab"

Uniqueness is enforced by the database; callers retry on collision.
Input is canonicalized with NormalizeAccessCode before lookup.

# Admin Key

Administrative routes compare the X-Admin-Key header with the configured key:

	err := auth.ValidateAdminKey(provided, cfg.AdminKey)

The comparison runs in constant time.

# IP Hashing

Failed logins are logged with a salted hash instead of the raw address:

	hash := auth.HashIP(ipAddress, salt)
*/
package auth
