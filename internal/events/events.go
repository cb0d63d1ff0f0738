// Package events publishes and consumes ledger-change events over Redis
// Streams. Every event names the group it touches, so consumers can
// re-trigger a balance recomputation for exactly that group. With several
// server instances sharing one database, the stream is what propagates one
// instance's writes into the others' snapshots.
package events

import "time"

// Event types.
const (
	ExpenseCreated = "expense.created"
	ExpenseUpdated = "expense.updated"
	ExpenseDeleted = "expense.deleted"
	PaymentCreated = "payment.created"
	PaymentDeleted = "payment.deleted"
)

// LedgerStream is the Redis stream carrying all expense/payment events.
const LedgerStream = "splitmate.ledger"

// Event is the wire structure for one ledger change.
type Event struct {
	Type      string    `json:"type"`
	GroupID   string    `json:"groupId"`
	EntityID  string    `json:"entityId"`
	ActorID   string    `json:"actorId"`
	Timestamp time.Time `json:"timestamp"`
}
