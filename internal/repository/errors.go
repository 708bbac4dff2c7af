// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// string matching. For example, ErrInvalidState indicates that a match
// request transition was attempted from a terminal status, while
// ErrDuplicatePendingForMentee signals that the caller already has an
// open request somewhere in the system.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when the requested entity does not exist, or
// when it exists but belongs to someone else. Conflating the two on
// request lookups keeps the API from leaking which IDs exist to callers
// who are not a party to them. Handlers translate this into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrInvalidState is returned when a status transition is attempted on a
// match request that is no longer pending. Terminal states are final;
// the stored status is never mutated by a losing transition.
var ErrInvalidState = errors.New("request is not in pending status")

// ErrMentorNotFound is returned by match request creation when the target
// user does not exist or is not a mentor.
var ErrMentorNotFound = errors.New("mentor not found")

// ErrDuplicatePendingForMentee is returned when the mentee already has a
// pending request to any mentor. At most one open request may exist per
// mentee system-wide.
var ErrDuplicatePendingForMentee = errors.New("mentee already has a pending request")

// ErrDuplicatePendingForPair is returned when a pending request between
// this exact mentee and mentor already exists.
var ErrDuplicatePendingForPair = errors.New("pending request to this mentor already exists")

// ErrMatchNotAccepted is returned by feedback submission when the match
// request exists but has not been accepted by the mentor.
var ErrMatchNotAccepted = errors.New("match request is not accepted")

// ErrNotAParticipant is returned by feedback submission when the caller
// is neither the mentor nor the mentee of the match.
var ErrNotAParticipant = errors.New("caller is not a participant of this match")

// ErrRevieweeMismatch is returned when the reviewee named in a feedback
// submission is not the other party of the match.
var ErrRevieweeMismatch = errors.New("reviewee is not the other participant of this match")

// ErrAlreadyReviewed is returned when the caller has already submitted
// feedback for this match. Each side rates the other exactly once.
var ErrAlreadyReviewed = errors.New("feedback already submitted for this match")

// isDupKey reports whether err is a MySQL duplicate-key violation
// (error 1062). Unique constraints are the backstop for the pending-request
// and one-feedback-per-reviewer invariants, so the loser of a write race
// surfaces here rather than corrupting the invariant.
func isDupKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
