package entities

import "time"

// QuotaCounter is the request count of one credential within one window bucket
type QuotaCounter struct {
	KeyID   string    `json:"keyId"`
	Bucket  string    `json:"bucket"`
	Count   int64     `json:"count"`
	Limit   int64     `json:"limit,omitempty"`
	ResetAt time.Time `json:"resetAt,omitempty"`
}

// QuotaDecision is the outcome of a quota check
type QuotaDecision struct {
	Allowed           bool
	Count             int64
	Limit             int64
	Remaining         int64
	RetryAfterSeconds int
	ResetAt           time.Time
}
