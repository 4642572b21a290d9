package reactive

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Alelanderos/Thalos-app/internal/store"
)

// -- Mock scheduler --

type mockScheduler struct {
	resynced []string
	canceled []string
}

func (m *mockScheduler) Resync(_ context.Context, r Reactive) {
	m.resynced = append(m.resynced, r.ID)
}

func (m *mockScheduler) CancelReminders(_ context.Context, reactiveID string) {
	m.canceled = append(m.canceled, reactiveID)
}

func newTestService() (*Service, *mockScheduler, *store.Memory) {
	mem := store.NewMemory()
	repo := NewStoreRepository(mem, store.NewKeyLocker(), zerolog.Nop())
	sched := &mockScheduler{}
	svc := NewService(repo, sched, zerolog.Nop())
	return svc, sched, mem
}

func TestCreateAssignsID(t *testing.T) {
	svc, sched, _ := newTestService()
	ctx := context.Background()

	r := Reactive{Name: "Ibuprofen"}
	if err := svc.Create(ctx, &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ID == "" {
		t.Error("expected generated id")
	}
	if len(sched.resynced) != 1 || sched.resynced[0] != r.ID {
		t.Errorf("expected resync for %s, got %v", r.ID, sched.resynced)
	}
}

func TestCreateKeepsProvidedID(t *testing.T) {
	svc, _, _ := newTestService()

	r := Reactive{ID: "r1", Name: "Ibuprofen"}
	if err := svc.Create(context.Background(), &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ID != "r1" {
		t.Errorf("expected id r1, got %s", r.ID)
	}
}

func TestCreateNameRequired(t *testing.T) {
	svc, sched, _ := newTestService()

	err := svc.Create(context.Background(), &Reactive{})
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
	if len(sched.resynced) != 0 {
		t.Error("expected no resync on rejected create")
	}
}

func TestCreateWriteFailureSkipsResync(t *testing.T) {
	svc, sched, mem := newTestService()
	mem.FailWrites = errors.New("store down")

	if err := svc.Create(context.Background(), &Reactive{Name: "Ibuprofen"}); err == nil {
		t.Error("expected write failure to propagate")
	}
	if len(sched.resynced) != 0 {
		t.Error("expected no resync on failed create")
	}
}

func TestUpdateResyncs(t *testing.T) {
	svc, sched, _ := newTestService()
	ctx := context.Background()

	r := Reactive{ID: "r1", Name: "Ibuprofen"}
	svc.Create(ctx, &r)
	r.Name = "Ibuprofen 400"
	if err := svc.Update(ctx, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sched.resynced) != 2 {
		t.Errorf("expected 2 resyncs, got %d", len(sched.resynced))
	}

	got, err := svc.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Ibuprofen 400" {
		t.Errorf("expected updated name, got %s", got.Name)
	}
}

func TestDeleteCancelsReminders(t *testing.T) {
	svc, sched, _ := newTestService()
	ctx := context.Background()

	r := Reactive{ID: "r1", Name: "Ibuprofen"}
	svc.Create(ctx, &r)
	if err := svc.Delete(ctx, "r1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sched.canceled) != 1 || sched.canceled[0] != "r1" {
		t.Errorf("expected cancel for r1, got %v", sched.canceled)
	}
	if _, err := svc.Get(ctx, "r1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRecordDoseTakenDecrementsSupply(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	r := Reactive{ID: "r1", Name: "Ibuprofen", CurrentSupply: 10}
	svc.Create(ctx, &r)

	dose, err := svc.RecordDose(ctx, "r1", true, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dose.ID == "" || !dose.Taken || dose.ReactiveID != "r1" {
		t.Errorf("unexpected dose entry: %+v", dose)
	}
	if dose.Timestamp == "" {
		t.Error("expected timestamp defaulted")
	}

	got, _ := svc.Get(ctx, "r1")
	if got.CurrentSupply != 9 {
		t.Errorf("expected supply 9, got %d", got.CurrentSupply)
	}
}

func TestRecordDoseSkippedLeavesSupply(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	r := Reactive{ID: "r1", Name: "Ibuprofen", CurrentSupply: 10}
	svc.Create(ctx, &r)

	if _, err := svc.RecordDose(ctx, "r1", false, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := svc.Get(ctx, "r1")
	if got.CurrentSupply != 10 {
		t.Errorf("expected supply unchanged at 10, got %d", got.CurrentSupply)
	}

	history := svc.DoseHistory(ctx)
	if len(history) != 1 || history[0].Taken {
		t.Errorf("expected one skipped entry, got %+v", history)
	}
}

func TestRecordDoseSupplyNeverNegative(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	r := Reactive{ID: "r1", Name: "Ibuprofen", CurrentSupply: 0}
	svc.Create(ctx, &r)

	if _, err := svc.RecordDose(ctx, "r1", true, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := svc.Get(ctx, "r1")
	if got.CurrentSupply != 0 {
		t.Errorf("expected supply clamped at 0, got %d", got.CurrentSupply)
	}
	if len(svc.DoseHistory(ctx)) != 1 {
		t.Error("expected dose still recorded at zero supply")
	}
}

func TestRecordDoseUnknownReactive(t *testing.T) {
	svc, _, _ := newTestService()

	// History entries are soft references: recording against an unknown id
	// still appends.
	dose, err := svc.RecordDose(context.Background(), "ghost", true, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dose.ReactiveID != "ghost" {
		t.Errorf("expected reactive id ghost, got %s", dose.ReactiveID)
	}
}

func TestRecordDoseExplicitTimestamp(t *testing.T) {
	svc, _, _ := newTestService()

	dose, err := svc.RecordDose(context.Background(), "r1", false, "2026-08-27T08:00:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dose.Timestamp != "2026-08-27T08:00:00Z" {
		t.Errorf("expected timestamp kept, got %s", dose.Timestamp)
	}
}

func TestTodaysDoses(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	fixed := time.Date(2026, 8, 28, 15, 0, 0, 0, time.Local)
	svc.now = func() time.Time { return fixed }

	svc.RecordDose(ctx, "r1", true, fixed.Add(-2*time.Hour).Format(time.RFC3339))
	svc.RecordDose(ctx, "r1", true, fixed.Add(-24*time.Hour).Format(time.RFC3339))
	svc.RecordDose(ctx, "r1", false, fixed.Add(1*time.Hour).Format(time.RFC3339))
	svc.RecordDose(ctx, "r1", true, "not a timestamp")

	today := svc.TodaysDoses(ctx)
	if len(today) != 2 {
		t.Fatalf("expected 2 entries for today, got %d", len(today))
	}
	for _, d := range today {
		ts, _ := time.Parse(time.RFC3339, d.Timestamp)
		if ts.Local().Day() != 28 {
			t.Errorf("entry outside today: %s", d.Timestamp)
		}
	}
}

func TestDosesForReactive(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	svc.RecordDose(ctx, "r1", true, "2026-08-27T08:00:00Z")
	svc.RecordDose(ctx, "r2", true, "2026-08-27T09:00:00Z")
	svc.RecordDose(ctx, "r1", false, "2026-08-27T20:00:00Z")

	doses := svc.DosesForReactive(ctx, "r1")
	if len(doses) != 2 {
		t.Errorf("expected 2 doses for r1, got %d", len(doses))
	}
}

func TestRefill(t *testing.T) {
	svc, sched, _ := newTestService()
	ctx := context.Background()

	fixed := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	r := Reactive{ID: "r1", Name: "Ibuprofen", CurrentSupply: 2, TotalSupply: 30}
	svc.Create(ctx, &r)

	got, err := svc.Refill(ctx, "r1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CurrentSupply != 30 {
		t.Errorf("expected supply restored to 30, got %d", got.CurrentSupply)
	}
	if got.LastRefillDate != fixed.Format(time.RFC3339) {
		t.Errorf("expected refill date stamped, got %s", got.LastRefillDate)
	}
	if len(sched.resynced) != 2 {
		t.Errorf("expected resync after refill, got %v", sched.resynced)
	}
}

func TestRefillUnknownReactive(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Refill(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClearAllData(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	r := Reactive{ID: "r1", Name: "Ibuprofen"}
	svc.Create(ctx, &r)
	svc.RecordDose(ctx, "r1", true, "")

	if err := svc.ClearAllData(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(svc.List(ctx)) != 0 {
		t.Error("expected reactives cleared")
	}
	if len(svc.DoseHistory(ctx)) != 0 {
		t.Error("expected dose history cleared")
	}
}
