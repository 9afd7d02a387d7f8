// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors for malformed message envelopes. Callers can match
// against them with [errors.Is].
var (
	// ErrEmptyBody is returned when POST /api/messages has no body.
	ErrEmptyBody = errors.New("empty request body")

	// ErrInvalidEnvelope is returned when the body is not a JSON object.
	ErrInvalidEnvelope = errors.New("request body is not a json object")

	// ErrMissingMessage is returned when the envelope has no "message" name.
	ErrMissingMessage = errors.New("missing `message` field")
)
