package store

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryGetMissing(t *testing.T) {
	m := NewMemory()

	_, ok, err := m.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected ok=false for missing key")
	}
}

func TestMemorySetGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, ok, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || v != "v2" {
		t.Errorf("expected v2, got %q (ok=%v)", v, ok)
	}
}

func TestMemoryRemoveMany(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.Set(ctx, "a", "1")
	m.Set(ctx, "b", "2")

	if err := m.RemoveMany(ctx, "a", "b", "missing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := m.Get(ctx, "a"); ok {
		t.Error("expected a removed")
	}
	if _, ok, _ := m.Get(ctx, "b"); ok {
		t.Error("expected b removed")
	}
}

func TestMemoryFaultInjection(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	boom := errors.New("boom")

	m.FailReads = boom
	if _, _, err := m.Get(ctx, "k"); !errors.Is(err, boom) {
		t.Errorf("expected read failure, got %v", err)
	}
	m.FailReads = nil

	m.FailWrites = boom
	if err := m.Set(ctx, "k", "v"); !errors.Is(err, boom) {
		t.Errorf("expected write failure, got %v", err)
	}
	if err := m.RemoveMany(ctx, "k"); !errors.Is(err, boom) {
		t.Errorf("expected remove failure, got %v", err)
	}
}
