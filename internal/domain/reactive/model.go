// Package reactive implements the medication ("reactive") record lifecycle:
// CRUD over the persisted record list, the append-only dose history, and
// dose recording with supply bookkeeping.
package reactive

// Storage keys for the two persisted collections. Each key holds one whole
// JSON array; the field names below are the persisted contract and must not
// change.
const (
	ReactivesKey   = "@reactives"
	DoseHistoryKey = "@dose_history"
)

// Reactive is a tracked medication with its dosing and supply configuration.
type Reactive struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Quantity        string   `json:"quantity"`
	Times           []string `json:"times"` // "HH:MM", ordered
	StartDate       string   `json:"startDate"`
	Duration        string   `json:"duration"` // e.g. "30 days", "ongoing"
	Color           string   `json:"color"`
	ReminderEnabled bool     `json:"reminderEnabled"`
	CurrentSupply   int      `json:"currentSupply"` // never below 0
	TotalSupply     int      `json:"totalSupply"`
	RefillAt        int      `json:"refillAt"`
	RefillReminder  bool     `json:"refillReminder"`
	LastRefillDate  string   `json:"lastRefillDate,omitempty"`
}

// DoseHistory is an immutable log entry for a single taken/skipped dose.
// The reactive id is a soft reference: entries outlive the deletion of the
// record they point at.
type DoseHistory struct {
	ID         string `json:"id"`
	ReactiveID string `json:"reactiveId"`
	Timestamp  string `json:"timestamp"` // RFC 3339
	Taken      bool   `json:"taken"`
}
