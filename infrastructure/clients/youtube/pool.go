package youtube

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"viewtrap/domain/dto"
	"viewtrap/domain/repository"
	"viewtrap/infrastructure/logger"
	"viewtrap/infrastructure/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrNoCredentials is returned when the pool has no credential to use.
	ErrNoCredentials = errors.New("no youtube api credentials configured")
	// ErrCoolingDown is returned while every credential is exhausted and the
	// reset cooldown has not elapsed.
	ErrCoolingDown = errors.New("all youtube api credentials exhausted, waiting for reset cooldown")
)

// ClientFactory builds a client bound to one credential.
type ClientFactory[C any] func(ctx context.Context, credential string) (C, error)

// PoolOptions configures a Pool. Zero values select the process-local state,
// ClassifyError and an immediate bulk reset.
type PoolOptions struct {
	State         repository.IQuotaState
	Classifier    ErrorClassifier
	ResetCooldown time.Duration
	Now           func() time.Time
	Shared        bool
}

// Pool rotates through API credentials, skipping the ones whose quota is
// exhausted. When every credential is exhausted they are all made available
// again and selection restarts at index 0.
type Pool[C any] struct {
	mu             sync.Mutex
	credentials    []string
	clients        map[int]C
	factory        ClientFactory[C]
	state          repository.IQuotaState
	classify       ErrorClassifier
	resetCooldown  time.Duration
	allExhaustedAt time.Time
	now            func() time.Time
	shared         bool
	tracer         trace.Tracer
}

// NewPool creates a pool over credentials.
func NewPool[C any](credentials []string, factory ClientFactory[C], opts PoolOptions) *Pool[C] {
	if opts.State == nil {
		opts.State = NewMemoryQuotaState()
	}
	if opts.Classifier == nil {
		opts.Classifier = ClassifyError
	}
	if opts.Now == nil {
		opts.Now = utils.GetCurrentTime
	}
	return &Pool[C]{
		credentials:   append([]string(nil), credentials...),
		clients:       make(map[int]C),
		factory:       factory,
		state:         opts.State,
		classify:      opts.Classifier,
		resetCooldown: opts.ResetCooldown,
		now:           opts.Now,
		shared:        opts.Shared,
		tracer:        otel.Tracer("viewtrap/youtube"),
	}
}

// Size returns the number of credentials.
func (p *Pool[C]) Size() int { return len(p.credentials) }

// Current selects the first available credential starting at the cursor and
// returns its index and client.
func (p *Pool[C]) Current(ctx context.Context) (int, C, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var zero C
	index, err := p.selectIndex(ctx)
	if err != nil {
		return -1, zero, err
	}
	client, err := p.client(ctx, index)
	if err != nil {
		return index, zero, err
	}
	return index, client, nil
}

// selectIndex must be called with p.mu held.
func (p *Pool[C]) selectIndex(ctx context.Context) (int, error) {
	n := len(p.credentials)
	if n == 0 {
		return -1, ErrNoCredentials
	}
	cursor, exhausted := p.load(ctx)

	if len(exhausted) >= n {
		if p.resetCooldown > 0 {
			now := p.now()
			if p.allExhaustedAt.IsZero() {
				p.allExhaustedAt = now
			}
			if now.Sub(p.allExhaustedAt) < p.resetCooldown {
				return -1, ErrCoolingDown
			}
		}
		if err := p.state.Reset(ctx); err != nil {
			logger.FromContext(ctx).WithField("error", err).Warn("Quota state reset failed")
		}
		p.allExhaustedAt = time.Time{}
		cursor, exhausted = 0, map[int]bool{}
		logger.FromContext(ctx).WithField("totalKeys", n).Warn("All YouTube API keys exhausted, resetting rotation")
	}

	for i := 0; i < n; i++ {
		index := (cursor + i) % n
		if exhausted[index] {
			continue
		}
		if index != cursor {
			if err := p.state.SetCursor(ctx, index); err != nil {
				logger.FromContext(ctx).WithField("error", err).Warn("Quota state cursor update failed")
			}
		}
		return index, nil
	}
	return -1, ErrNoCredentials
}

// load reads the quota state, counting only indices that exist in this pool.
// A failing state backend reads as a fresh rotation.
func (p *Pool[C]) load(ctx context.Context) (int, map[int]bool) {
	n := len(p.credentials)
	cursor, list, err := p.state.Load(ctx)
	if err != nil {
		logger.FromContext(ctx).WithField("error", err).Warn("Quota state unavailable, assuming all keys available")
		return 0, map[int]bool{}
	}
	exhausted := make(map[int]bool, len(list))
	for _, i := range list {
		if i >= 0 && i < n {
			exhausted[i] = true
		}
	}
	if cursor < 0 || cursor >= n {
		cursor = 0
	}
	return cursor, exhausted
}

// client must be called with p.mu held.
func (p *Pool[C]) client(ctx context.Context, index int) (C, error) {
	if c, ok := p.clients[index]; ok {
		return c, nil
	}
	c, err := p.factory(context.WithoutCancel(ctx), p.credentials[index])
	if err != nil {
		var zero C
		return zero, fmt.Errorf("create client for key %d: %w", index, err)
	}
	p.clients[index] = c
	return c, nil
}

// MarkExhausted records that the credential at index ran out of quota and
// moves the cursor past it.
func (p *Pool[C]) MarkExhausted(ctx context.Context, index int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.credentials)
	if index < 0 || index >= n {
		return
	}
	next := (index + 1) % n
	if err := p.state.MarkExhausted(ctx, index, next); err != nil {
		logger.FromContext(ctx).WithField("error", err).Warn("Quota state update failed")
	}
	if _, exhausted := p.load(ctx); len(exhausted) >= n && p.allExhaustedAt.IsZero() {
		p.allExhaustedAt = p.now()
	}
	logger.FromContext(ctx).WithFields(map[string]interface{}{
		"keyIndex":  index,
		"nextIndex": next,
		"totalKeys": n,
	}).Warn("YouTube API key quota exhausted, rotating")
}

// Status reports the rotation state without exposing credentials.
func (p *Pool[C]) Status(ctx context.Context) dto.KeyPoolStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	status := dto.KeyPoolStatus{TotalKeys: len(p.credentials), ExhaustedKeys: []int{}, Shared: p.shared}
	if status.TotalKeys == 0 {
		return status
	}
	cursor, exhausted := p.load(ctx)
	status.CurrentIndex = cursor
	for i := 0; i < status.TotalKeys; i++ {
		if exhausted[i] {
			status.ExhaustedKeys = append(status.ExhaustedKeys, i)
		}
	}
	return status
}

// ExecuteWithRetry runs op with the current credential's client. A quota
// error exhausts that credential and the next one is tried, up to one attempt
// per credential. Any other error is returned at once. When every attempt
// fails the last error is returned.
func ExecuteWithRetry[C, T any](ctx context.Context, p *Pool[C], op func(context.Context, C) (T, error)) (T, error) {
	var zero T
	if p.Size() == 0 {
		return zero, ErrNoCredentials
	}

	var lastErr error
	for attempt := 1; attempt <= p.Size(); attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		index, client, err := p.Current(ctx)
		if err != nil {
			if lastErr != nil {
				return zero, fmt.Errorf("%w (last error: %v)", err, lastErr)
			}
			return zero, err
		}

		attemptCtx, span := p.tracer.Start(ctx, "youtube.attempt", trace.WithAttributes(
			attribute.Int("key.index", index),
			attribute.Int("attempt", attempt),
		))
		result, err := op(attemptCtx, client)
		if err == nil {
			span.End()
			return result, nil
		}

		class := p.classify(err)
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.class", class.String()))
		span.SetStatus(codes.Error, class.String())
		span.End()

		lastErr = err
		if class != ErrorClassQuota {
			logger.FromContext(ctx).WithFields(map[string]interface{}{
				"keyIndex":   index,
				"attempt":    attempt,
				"errorClass": class.String(),
				"error":      err,
			}).Warn("YouTube API call failed without quota signal, not rotating")
			return zero, err
		}
		p.MarkExhausted(ctx, index)
	}
	return zero, lastErr
}
