package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Message types carried on the transaction event queue.
const (
	TypeTransactionSync   = "transaction.sync"
	TypeTransactionDelete = "transaction.delete"
)

// Envelope wraps every queue message so consumers can dispatch on Type
// before decoding the payload.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// TransactionSyncMessage asks the worker to mirror a transaction. It
// carries only the id; the worker fetches the full row from the database.
type TransactionSyncMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// TransactionDeleteMessage asks the worker to remove a mirrored row. The
// row fields travel with the message because the local row is already
// gone by the time the worker runs.
type TransactionDeleteMessage struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"`
	Kind        string    `json:"kind"`
	Category    string    `json:"category"`
	AmountCents int64     `json:"amount_cents"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewTransactionSyncMessage creates a sync message for the given id.
func NewTransactionSyncMessage(id int64) *TransactionSyncMessage {
	return &TransactionSyncMessage{ID: id, Timestamp: time.Now()}
}

func encodeEnvelope(msgType string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return json.Marshal(Envelope{Type: msgType, Payload: body})
}

func decodeEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("envelope missing type")
	}
	return &env, nil
}
