package reactive

import "context"

// Repository persists the reactive list and the dose history.
//
// Error contract, relied on by handlers: list reads never fail (a broken or
// missing collection yields an empty slice), writes always propagate the
// store error to the caller.
type Repository interface {
	ListReactives(ctx context.Context) []Reactive
	AddReactive(ctx context.Context, r Reactive) error
	// UpdateReactive replaces the first record whose id matches. A missing
	// id is a silent no-op.
	UpdateReactive(ctx context.Context, r Reactive) error
	// DeleteReactive removes every record with the given id.
	DeleteReactive(ctx context.Context, id string) error

	ListDoseHistory(ctx context.Context) []DoseHistory
	AppendDose(ctx context.Context, d DoseHistory) error

	// ClearAll removes both collections, one independent delete per key.
	ClearAll(ctx context.Context) error
}
