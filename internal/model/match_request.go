package model

import "time"

// Match request status values.  A request starts as StatusPending and moves
// exactly once to one of the three terminal states: the mentor accepts or
// rejects it, or the owning mentee cancels it.  Terminal states admit no
// further transitions.
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// TerminalStatus reports whether s is a state from which no transition is
// permitted.
func TerminalStatus(s string) bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusCancelled
}

// MatchRequest records a mentee's proposal to be mentored by a specific
// mentor, mirroring the `match_requests` table.
//
// Fields:
//  ID        – primary key identifier.
//  MentorID  – the mentor the request targets.
//  MenteeID  – the mentee who sent the request.
//  Message   – required introduction text written by the mentee.
//  Status    – lifecycle state, see the Status* constants.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last transition timestamp.
//
// Invariants enforced by the repository and the schema: a mentee has at
// most one pending request system-wide, which also bounds pending requests
// per (mentor, mentee) pair to one.  Requests are never deleted; rejection
// and cancellation are terminal states, not removals.
type MatchRequest struct {
	ID        uint64    // match_requests.id
	MentorID  uint64    // match_requests.mentor_id
	MenteeID  uint64    // match_requests.mentee_id
	Message   string    // match_requests.message
	Status    string    // match_requests.status
	CreatedAt time.Time // match_requests.created_at
	UpdatedAt time.Time // match_requests.updated_at
}

// OtherParty returns the match participant opposite to userID, or 0 when
// userID is not a participant at all.
func (m *MatchRequest) OtherParty(userID uint64) uint64 {
	switch userID {
	case m.MentorID:
		return m.MenteeID
	case m.MenteeID:
		return m.MentorID
	}
	return 0
}
