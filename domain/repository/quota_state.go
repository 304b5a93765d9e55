package repository

import "context"

// IQuotaState holds credential rotation bookkeeping: the cursor and the set of
// credential indices believed exhausted.
type IQuotaState interface {
	Load(ctx context.Context) (cursor int, exhausted []int, err error)
	SetCursor(ctx context.Context, cursor int) error
	// MarkExhausted adds index to the exhausted set and moves the cursor to next.
	MarkExhausted(ctx context.Context, index, next int) error
	Reset(ctx context.Context) error
}
