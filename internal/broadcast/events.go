package broadcast

import "time"

const (
	EventSyncCategory  = "hub_sync.category"
	EventSyncCompleted = "hub_sync.completed"
)

// SyncEvent reports progress of a Hub sync run.
type SyncEvent struct {
	Type     string    `json:"type"`
	RunID    string    `json:"run_id"`
	Category string    `json:"category,omitempty"`
	Synced   int       `json:"synced"`
	Errors   []string  `json:"errors,omitempty"`
	Success  bool      `json:"success"`
	At       time.Time `json:"at"`
}
