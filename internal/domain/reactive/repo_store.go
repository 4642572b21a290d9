package reactive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Alelanderos/Thalos-app/internal/store"
)

// storeRepo keeps both collections as whole JSON arrays in the key-value
// store, rewriting the full array on every mutation.
type storeRepo struct {
	kv     store.Store
	locker store.Locker
	log    zerolog.Logger
}

// NewStoreRepository builds a Repository on top of an opaque key-value store.
// The locker serializes read-modify-write cycles per collection; pass
// store.NoopLocker{} to keep the original unserialized behavior.
func NewStoreRepository(kv store.Store, locker store.Locker, log zerolog.Logger) Repository {
	return &storeRepo{
		kv:     kv,
		locker: locker,
		log:    log.With().Str("component", "reactive_repo").Logger(),
	}
}

// readReactives is fail-soft: any read or decode error is logged and an
// empty list returned, so callers cannot distinguish "empty" from "failed".
func (r *storeRepo) readReactives(ctx context.Context) []Reactive {
	raw, ok, err := r.kv.Get(ctx, ReactivesKey)
	if err != nil {
		r.log.Error().Err(err).Msg("read reactives")
		return []Reactive{}
	}
	if !ok {
		return []Reactive{}
	}
	var list []Reactive
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		r.log.Error().Err(err).Msg("decode reactives")
		return []Reactive{}
	}
	return list
}

func (r *storeRepo) writeReactives(ctx context.Context, list []Reactive) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode reactives: %w", err)
	}
	if err := r.kv.Set(ctx, ReactivesKey, string(raw)); err != nil {
		return fmt.Errorf("write reactives: %w", err)
	}
	return nil
}

func (r *storeRepo) ListReactives(ctx context.Context) []Reactive {
	return r.readReactives(ctx)
}

func (r *storeRepo) AddReactive(ctx context.Context, rec Reactive) error {
	r.locker.Lock(ReactivesKey)
	defer r.locker.Unlock(ReactivesKey)

	list := r.readReactives(ctx)
	list = append(list, rec)
	return r.writeReactives(ctx, list)
}

func (r *storeRepo) UpdateReactive(ctx context.Context, rec Reactive) error {
	r.locker.Lock(ReactivesKey)
	defer r.locker.Unlock(ReactivesKey)

	list := r.readReactives(ctx)
	for i := range list {
		if list[i].ID == rec.ID {
			list[i] = rec
			return r.writeReactives(ctx, list)
		}
	}
	// No match: silent no-op.
	return nil
}

func (r *storeRepo) DeleteReactive(ctx context.Context, id string) error {
	r.locker.Lock(ReactivesKey)
	defer r.locker.Unlock(ReactivesKey)

	list := r.readReactives(ctx)
	kept := list[:0]
	for _, rec := range list {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	return r.writeReactives(ctx, kept)
}

func (r *storeRepo) readDoseHistory(ctx context.Context) []DoseHistory {
	raw, ok, err := r.kv.Get(ctx, DoseHistoryKey)
	if err != nil {
		r.log.Error().Err(err).Msg("read dose history")
		return []DoseHistory{}
	}
	if !ok {
		return []DoseHistory{}
	}
	var list []DoseHistory
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		r.log.Error().Err(err).Msg("decode dose history")
		return []DoseHistory{}
	}
	return list
}

func (r *storeRepo) ListDoseHistory(ctx context.Context) []DoseHistory {
	return r.readDoseHistory(ctx)
}

func (r *storeRepo) AppendDose(ctx context.Context, d DoseHistory) error {
	r.locker.Lock(DoseHistoryKey)
	defer r.locker.Unlock(DoseHistoryKey)

	list := r.readDoseHistory(ctx)
	list = append(list, d)
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode dose history: %w", err)
	}
	if err := r.kv.Set(ctx, DoseHistoryKey, string(raw)); err != nil {
		return fmt.Errorf("write dose history: %w", err)
	}
	return nil
}

func (r *storeRepo) ClearAll(ctx context.Context) error {
	if err := r.kv.RemoveMany(ctx, ReactivesKey, DoseHistoryKey); err != nil {
		return fmt.Errorf("clear data: %w", err)
	}
	return nil
}
