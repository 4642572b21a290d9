package reactive

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ReminderScheduler is the slice of the reminder platform the service needs.
// Scheduling failures never propagate: both methods are fire-and-forget from
// the caller's point of view.
type ReminderScheduler interface {
	Resync(ctx context.Context, r Reactive)
	CancelReminders(ctx context.Context, reactiveID string)
}

// Service owns the reactive record lifecycle. Every create/update/delete
// resyncs the notification queue so it matches the record's current state.
type Service struct {
	repo  Repository
	sched ReminderScheduler
	log   zerolog.Logger
	now   func() time.Time
}

func NewService(repo Repository, sched ReminderScheduler, log zerolog.Logger) *Service {
	return &Service{
		repo:  repo,
		sched: sched,
		log:   log.With().Str("component", "reactive_service").Logger(),
		now:   time.Now,
	}
}

func (s *Service) List(ctx context.Context) []Reactive {
	return s.repo.ListReactives(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Reactive, error) {
	for _, r := range s.repo.ListReactives(ctx) {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

// Create assigns an id when absent, persists the record, and schedules its
// reminders.
func (s *Service) Create(ctx context.Context, r *Reactive) error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if err := s.repo.AddReactive(ctx, *r); err != nil {
		s.log.Error().Err(err).Str("reactive_id", r.ID).Msg("add reactive")
		return err
	}
	s.sched.Resync(ctx, *r)
	return nil
}

func (s *Service) Update(ctx context.Context, r Reactive) error {
	if err := s.repo.UpdateReactive(ctx, r); err != nil {
		s.log.Error().Err(err).Str("reactive_id", r.ID).Msg("update reactive")
		return err
	}
	s.sched.Resync(ctx, r)
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteReactive(ctx, id); err != nil {
		s.log.Error().Err(err).Str("reactive_id", id).Msg("delete reactive")
		return err
	}
	s.sched.CancelReminders(ctx, id)
	return nil
}

// RecordDose appends a dose-history entry and, for a taken dose, decrements
// the reactive's supply by one. Supply never goes below zero; a dose against
// an exhausted supply is still recorded. The history append is not rolled
// back when the supply update fails.
func (s *Service) RecordDose(ctx context.Context, reactiveID string, taken bool, timestamp string) (DoseHistory, error) {
	if timestamp == "" {
		timestamp = s.now().Format(time.RFC3339)
	}
	dose := DoseHistory{
		ID:         uuid.New().String(),
		ReactiveID: reactiveID,
		Timestamp:  timestamp,
		Taken:      taken,
	}
	if err := s.repo.AppendDose(ctx, dose); err != nil {
		s.log.Error().Err(err).Str("reactive_id", reactiveID).Msg("append dose")
		return DoseHistory{}, err
	}

	if taken {
		for _, r := range s.repo.ListReactives(ctx) {
			if r.ID == reactiveID {
				if r.CurrentSupply > 0 {
					r.CurrentSupply--
					if err := s.Update(ctx, r); err != nil {
						return DoseHistory{}, err
					}
				}
				break
			}
		}
	}
	return dose, nil
}

func (s *Service) DoseHistory(ctx context.Context) []DoseHistory {
	return s.repo.ListDoseHistory(ctx)
}

// TodaysDoses filters the history to entries whose timestamp falls on the
// current calendar day in local time. Entries with unparseable timestamps
// are excluded.
func (s *Service) TodaysDoses(ctx context.Context) []DoseHistory {
	today := s.now().Local()
	ty, tm, td := today.Date()

	out := []DoseHistory{}
	for _, d := range s.repo.ListDoseHistory(ctx) {
		ts, err := time.Parse(time.RFC3339, d.Timestamp)
		if err != nil {
			continue
		}
		y, m, day := ts.Local().Date()
		if y == ty && m == tm && day == td {
			out = append(out, d)
		}
	}
	return out
}

func (s *Service) DosesForReactive(ctx context.Context, reactiveID string) []DoseHistory {
	out := []DoseHistory{}
	for _, d := range s.repo.ListDoseHistory(ctx) {
		if d.ReactiveID == reactiveID {
			out = append(out, d)
		}
	}
	return out
}

// Refill restores the supply to its configured total, stamps the refill
// date, and resyncs reminders (a pending refill notification is dropped
// because the threshold no longer holds).
func (s *Service) Refill(ctx context.Context, id string) (*Reactive, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.CurrentSupply = r.TotalSupply
	r.LastRefillDate = s.now().Format(time.RFC3339)
	if err := s.Update(ctx, *r); err != nil {
		return nil, err
	}
	return r, nil
}

// ClearAllData removes both persisted collections. Scheduled notifications
// are left untouched, matching the original behavior.
func (s *Service) ClearAllData(ctx context.Context) error {
	if err := s.repo.ClearAll(ctx); err != nil {
		s.log.Error().Err(err).Msg("clear all data")
		return err
	}
	return nil
}
