package audit

import "time"

// RecordID identifier type
type RecordID string

// Record describes how one analysis request ended. It never carries the idea
// text or the generated analysis.
type Record struct {
	ID           RecordID  `json:"id"`
	Mode         string    `json:"mode"`
	Outcome      string    `json:"outcome"`
	ErrorMessage string    `json:"error_message,omitempty"`
	IdeaLength   int       `json:"idea_length"`
	LatencyMS    int64     `json:"latency_ms"`
	CreatedAt    time.Time `json:"created_at"`
}
