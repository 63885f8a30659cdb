// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package backend abstracts the text-generation API behind a small interface
// so the pipeline stages can be tested against a stub.
package backend

import (
	"context"
	"errors"
	"fmt"
)

// Constraints carries per-request generation hints. TargetWords is an
// approximate desired length, never a hard guarantee.
type Constraints struct {
	TargetWords int
}

// Generator is the sole capability the pipeline depends on: one prompt in,
// generated text or a typed failure out.
type Generator interface {
	Generate(ctx context.Context, prompt string, c Constraints) (string, error)
}

// FailureKind classifies a generation failure.
type FailureKind string

const (
	// KindTimeout covers request timeouts and transient server errors.
	KindTimeout FailureKind = "timeout"

	// KindRateLimited covers HTTP 429 responses.
	KindRateLimited FailureKind = "rate_limited"

	// KindAuthError covers HTTP 401/403 responses. Permanent.
	KindAuthError FailureKind = "auth_error"

	// KindMalformedResponse covers empty or unparseable responses. Permanent.
	KindMalformedResponse FailureKind = "malformed_response"
)

// Failure is a typed generation error.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("generation failed (%s)", f.Kind)
	}
	return fmt.Sprintf("generation failed (%s): %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// IsTransient reports whether err is a failure worth retrying: timeouts and
// rate limits. Auth errors and malformed responses are permanent.
func IsTransient(err error) bool {
	var f *Failure
	if !errors.As(err, &f) {
		return false
	}
	return f.Kind == KindTimeout || f.Kind == KindRateLimited
}
