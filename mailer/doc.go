// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package mailer sends access codes to participants. Handlers depend on the
// Mailer interface; SMTPMailer is the production implementation.
package mailer
