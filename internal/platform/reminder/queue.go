// Package reminder keeps the scheduled-notification queue in sync with the
// reactive records: repeating daily dose reminders per configured time and
// immediate refill reminders when supply crosses the threshold.
package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Trigger is a repeating daily fire time.
type Trigger struct {
	Hour    int  `json:"hour"`
	Minute  int  `json:"minute"`
	Repeats bool `json:"repeats"`
}

// Payload keys carried by every reminder notification. Cancellation matches
// on the reactive id alone, so a record's dose and refill notifications are
// always canceled together.
const (
	DataReactiveID = "reactiveId"
	DataType       = "type"
	TypeRefill     = "refill"
)

// Notification is one entry in the platform notification queue.
type Notification struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
	Trigger   *Trigger          `json:"trigger,omitempty"` // nil: deliver immediately
	NextFire  time.Time         `json:"next_fire,omitempty"`
	Status    string            `json:"status"` // scheduled, delivered, canceled
	CreatedAt time.Time         `json:"created_at"`
}

// ReactiveID returns the payload's reactive id, or "" when absent.
func (n *Notification) ReactiveID() string {
	return n.Data[DataReactiveID]
}

// Queue abstracts the platform notification queue.
type Queue interface {
	// Schedule registers a triggered notification and returns its identifier.
	Schedule(ctx context.Context, n *Notification) (string, error)
	// Enqueue delivers a notification immediately (no trigger).
	Enqueue(ctx context.Context, n *Notification) error
	// Cancel removes a scheduled notification by identifier.
	Cancel(ctx context.Context, id string) error
	// ListScheduled enumerates every currently scheduled notification.
	ListScheduled(ctx context.Context) ([]*Notification, error)
}

// MemoryQueue is the in-process Queue. Delivered notifications are retained
// so callers can inspect what fired.
type MemoryQueue struct {
	mu        sync.RWMutex
	scheduled map[string]*Notification
	delivered []*Notification
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{scheduled: make(map[string]*Notification)}
}

func (q *MemoryQueue) Schedule(_ context.Context, n *Notification) (string, error) {
	if n.Trigger == nil {
		return "", fmt.Errorf("schedule requires a trigger")
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.Status = "scheduled"
	n.CreatedAt = time.Now()

	q.mu.Lock()
	q.scheduled[n.ID] = n
	q.mu.Unlock()
	return n.ID, nil
}

func (q *MemoryQueue) Enqueue(_ context.Context, n *Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.Status = "delivered"
	n.CreatedAt = time.Now()

	q.mu.Lock()
	q.delivered = append(q.delivered, n)
	q.mu.Unlock()
	return nil
}

func (q *MemoryQueue) Cancel(_ context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.scheduled[id]; !ok {
		return fmt.Errorf("notification %q not found", id)
	}
	delete(q.scheduled, id)
	return nil
}

func (q *MemoryQueue) ListScheduled(_ context.Context) ([]*Notification, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	out := make([]*Notification, 0, len(q.scheduled))
	for _, n := range q.scheduled {
		out = append(out, n)
	}
	return out, nil
}

// Delivered returns a copy of the immediately delivered notifications.
func (q *MemoryQueue) Delivered() []*Notification {
	q.mu.RLock()
	defer q.mu.RUnlock()
	out := make([]*Notification, len(q.delivered))
	copy(out, q.delivered)
	return out
}
