package events

import "context"

// Event topics published after durable state changes.
const (
	TopicEntriesApproved = "entries.approved"
	TopicEntriesRejected = "entries.rejected"
	TopicReceiptCreated  = "receipt.created"
)

// EntriesEvent announces a batch status transition.
type EntriesEvent struct {
	Kind     string  `json:"kind"`
	EntryIDs []int32 `json:"entry_ids"`
	ParishID int32   `json:"parish_id"`
	ActorID  int32   `json:"actor_id"`
}

// ReceiptEvent announces a consolidated receipt.
type ReceiptEvent struct {
	ReceiptID int32   `json:"receipt_id"`
	Code      string  `json:"code"`
	ParishID  int32   `json:"parish_id"`
	Amount    string  `json:"amount"`
	EntryIDs  []int32 `json:"entry_ids"`
}

// Publisher emits domain events to downstream consumers (report tooling,
// notification services). Publishing is best-effort; callers log failures
// and never fail the business operation on them.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Nop is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(ctx context.Context, topic string, event any) error { return nil }

func (Nop) Close() error { return nil }
