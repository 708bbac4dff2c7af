// Package queue defines message payloads exchanged over the message
// broker and the background consumer that drains them.
package queue

// MatchAcceptedEvent is published when a mentor accepts a match
// request. It carries enough for downstream consumers to log or feed
// analytics without querying the primary database.
type MatchAcceptedEvent struct {
	MatchRequestID uint64 `json:"match_request_id"`
	MentorID       uint64 `json:"mentor_id"`
	MenteeID       uint64 `json:"mentee_id"`
	AcceptedAt     string `json:"accepted_at"`
}

// MatchQueueName is the durable queue both the publisher and the
// consumer declare.
const MatchQueueName = "match.accepted"
