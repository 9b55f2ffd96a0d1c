// Package queue defines message payloads exchanged over the message broker.
package queue

// TradeEvent is published whenever a trade request changes state, the
// initial creation included. It carries enough denormalized detail for
// downstream consumers to log or notify without querying the primary
// database.
type TradeEvent struct {
	RequestID     uint64 `json:"request_id"`
	SkillID       uint64 `json:"skill_id"`
	SkillTitle    string `json:"skill_title"`
	OwnerID       uint64 `json:"owner_id"`
	RequesterID   uint64 `json:"requester_id"`
	RequesterName string `json:"requester_name"`
	Status        string `json:"status"`
	OccurredAt    string `json:"occurred_at"`
}
