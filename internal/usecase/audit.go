package usecase

import (
	"context"
	"time"

	domain "github.com/rma010101/ecommerce-fullstack/internal/entity"
)

// Audit exposes the recorded request log to the admin API. Recording
// itself happens in the HTTP middleware.
type Audit struct {
	store AuditStore
}

func NewAudit(store AuditStore) *Audit {
	return &Audit{store: store}
}

func (a *Audit) Record(ctx context.Context, q *domain.QueryLog) error {
	return a.store.Insert(ctx, q)
}

func (a *Audit) All(ctx context.Context) ([]domain.QueryLog, error) {
	return a.store.FindAll(ctx)
}

func (a *Audit) ByClientIP(ctx context.Context, ip string) ([]domain.QueryLog, error) {
	return a.store.FindByClientIP(ctx, ip)
}

func (a *Audit) ByMethod(ctx context.Context, method string) ([]domain.QueryLog, error) {
	return a.store.FindByMethod(ctx, method)
}

func (a *Audit) ByStatus(ctx context.Context, status int) ([]domain.QueryLog, error) {
	return a.store.FindByStatus(ctx, status)
}

func (a *Audit) Failed(ctx context.Context) ([]domain.QueryLog, error) {
	return a.store.FindFailed(ctx)
}

func (a *Audit) Slow(ctx context.Context, thresholdMs int64) ([]domain.QueryLog, error) {
	if thresholdMs <= 0 {
		thresholdMs = 1000
	}
	return a.store.FindSlow(ctx, thresholdMs)
}

func (a *Audit) Between(ctx context.Context, from, to time.Time) ([]domain.QueryLog, error) {
	return a.store.FindBetween(ctx, from, to)
}

func (a *Audit) SearchURI(ctx context.Context, pattern string) ([]domain.QueryLog, error) {
	return a.store.SearchURI(ctx, pattern)
}

func (a *Audit) Purge(ctx context.Context) error {
	return a.store.DeleteAll(ctx)
}

func (a *Audit) Stats(ctx context.Context) (AuditStats, error) {
	return a.store.Stats(ctx)
}
