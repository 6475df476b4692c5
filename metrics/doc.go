// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics exposes Prometheus collectors for matching runs, roster
// imports and outbound mail. Collectors live in the default registry and are
// served by Handler.
package metrics
