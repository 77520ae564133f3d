package model

import (
	"encoding/json"
	"time"
)

// AnalyticsRecord is one externally-reported engagement payload. Records are
// append-only: created on inbound webhook POST, read back in bulk, never
// mutated or deleted.
type AnalyticsRecord struct {
	ReceivedAt time.Time       `json:"received_at"`
	Payload    json.RawMessage `json:"payload"`
}
