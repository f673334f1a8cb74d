package resilience

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrBulkheadFull means no slot was free and the bulkhead does not
	// wait.
	ErrBulkheadFull = errors.New("bulkhead is full")
	// ErrBulkheadTimeout means no slot freed up within MaxWait.
	ErrBulkheadTimeout = errors.New("bulkhead wait timeout")
)

// BulkheadConfig sizes the concurrency limit for one downstream target.
type BulkheadConfig struct {
	// Name identifies the bulkhead in errors and logs.
	Name string
	// MaxConcurrent caps simultaneous calls. Defaults to 10.
	MaxConcurrent int
	// MaxWait bounds how long a call waits for a slot. Zero rejects
	// immediately.
	MaxWait time.Duration
}

// Bulkhead caps concurrent calls to one downstream target so a slow
// backend cannot absorb every stream slot. The completion client gives
// each provider its own bulkhead.
type Bulkhead struct {
	cfg BulkheadConfig
	sem chan struct{}
}

// NewBulkhead builds a bulkhead from cfg.
func NewBulkhead(cfg BulkheadConfig) *Bulkhead {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 10
	}
	return &Bulkhead{cfg: cfg, sem: make(chan struct{}, cfg.MaxConcurrent)}
}

// Execute runs fn inside a slot. It fails with ErrBulkheadFull or
// ErrBulkheadTimeout when saturated, or the context error if ctx ends
// while waiting.
func (b *Bulkhead) Execute(ctx context.Context, fn func() error) error {
	if err := b.acquire(ctx); err != nil {
		return err
	}
	defer func() { <-b.sem }()
	return fn()
}

func (b *Bulkhead) acquire(ctx context.Context) error {
	select {
	case b.sem <- struct{}{}:
		return nil
	default:
	}

	if b.cfg.MaxWait <= 0 {
		return ErrBulkheadFull
	}

	timer := time.NewTimer(b.cfg.MaxWait)
	defer timer.Stop()

	select {
	case b.sem <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrBulkheadTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}
