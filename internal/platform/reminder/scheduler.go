package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Alelanderos/Thalos-app/internal/domain/reactive"
)

// Scheduler derives notification schedules from reactive records. It is
// purely reactive: callers invoke Resync after every create/update/delete;
// nothing runs on a timer.
//
// Queue failures are logged and swallowed. A reminder that fails to schedule
// must never block or fail the data mutation that triggered it.
type Scheduler struct {
	queue Queue
	log   zerolog.Logger
	now   func() time.Time
}

// NewScheduler wires the scheduler to a notification queue. The host
// application constructs exactly one at startup; there is no package-level
// configuration.
func NewScheduler(queue Queue, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		queue: queue,
		log:   log.With().Str("component", "reminder_scheduler").Logger(),
		now:   time.Now,
	}
}

// ScheduleDoseReminders registers one repeating daily notification per
// configured "HH:MM" time. No-op when reminders are disabled. Malformed
// time entries are skipped.
func (s *Scheduler) ScheduleDoseReminders(ctx context.Context, r reactive.Reactive) {
	if !r.ReminderEnabled {
		return
	}

	for _, t := range r.Times {
		hour, minute, err := parseTimeOfDay(t)
		if err != nil {
			s.log.Error().Err(err).Str("reactive_id", r.ID).Str("time", t).Msg("skip dose reminder")
			continue
		}

		n := &Notification{
			Title: "Reactive Reminder",
			Body:  fmt.Sprintf("Time to take %s (%s)", r.Name, r.Quantity),
			Data:  map[string]string{DataReactiveID: r.ID},
			Trigger: &Trigger{
				Hour:    hour,
				Minute:  minute,
				Repeats: true,
			},
			NextFire: s.nextOccurrence(hour, minute),
		}
		if _, err := s.queue.Schedule(ctx, n); err != nil {
			s.log.Error().Err(err).Str("reactive_id", r.ID).Str("time", t).Msg("schedule dose reminder")
		}
	}
}

// ScheduleRefillReminder delivers an immediate notification when the current
// supply is at or below the refill threshold. No-op when the refill reminder
// is disabled.
func (s *Scheduler) ScheduleRefillReminder(ctx context.Context, r reactive.Reactive) {
	if !r.RefillReminder {
		return
	}
	if r.CurrentSupply > r.RefillAt {
		return
	}

	n := &Notification{
		Title: "Refill Reminder",
		Body:  fmt.Sprintf("Your %s supply is running low. Current supply: %d", r.Name, r.CurrentSupply),
		Data: map[string]string{
			DataReactiveID: r.ID,
			DataType:       TypeRefill,
		},
	}
	if err := s.queue.Enqueue(ctx, n); err != nil {
		s.log.Error().Err(err).Str("reactive_id", r.ID).Msg("enqueue refill reminder")
	}
}

// CancelReminders cancels every scheduled notification whose payload carries
// the given reactive id.
func (s *Scheduler) CancelReminders(ctx context.Context, reactiveID string) {
	scheduled, err := s.queue.ListScheduled(ctx)
	if err != nil {
		s.log.Error().Err(err).Str("reactive_id", reactiveID).Msg("list scheduled notifications")
		return
	}
	for _, n := range scheduled {
		if n.ReactiveID() != reactiveID {
			continue
		}
		if err := s.queue.Cancel(ctx, n.ID); err != nil {
			s.log.Error().Err(err).Str("notification_id", n.ID).Msg("cancel reminder")
		}
	}
}

// Resync cancels all reminders for the record's id and reschedules from its
// current state.
func (s *Scheduler) Resync(ctx context.Context, r reactive.Reactive) {
	s.CancelReminders(ctx, r.ID)
	s.ScheduleDoseReminders(ctx, r)
	s.ScheduleRefillReminder(ctx, r)
}

// nextOccurrence returns today's instant of hour:minute, or tomorrow's when
// that moment has already passed.
func (s *Scheduler) nextOccurrence(hour, minute int) time.Time {
	now := s.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func parseTimeOfDay(v string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, 0, fmt.Errorf("parse time of day %q: %w", v, err)
	}
	return t.Hour(), t.Minute(), nil
}
