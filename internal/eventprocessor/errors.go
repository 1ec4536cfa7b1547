// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package eventprocessor

import "errors"

// ErrInvalidConfig is returned when the ingestion configuration is unusable.
var ErrInvalidConfig = errors.New("invalid event processor configuration")

// PermanentError marks a message that will never succeed. The router sends
// it to the poison subject without retrying.
type PermanentError struct {
	Message string
	Cause   error
}

// NewPermanentError wraps cause as a permanent failure.
func NewPermanentError(message string, cause error) *PermanentError {
	return &PermanentError{Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *PermanentError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *PermanentError) Unwrap() error {
	return e.Cause
}

// IsPermanentError reports whether err, or any error it wraps, is permanent.
func IsPermanentError(err error) bool {
	var permErr *PermanentError
	return errors.As(err, &permErr)
}
