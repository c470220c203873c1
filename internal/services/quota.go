package services

import (
	"context"
	"fmt"
)

// DefaultQuotaBytes is the per-owner storage cap applied when the
// configuration does not set one: 500 MiB.
const DefaultQuotaBytes int64 = 500 << 20

// UsageStore reports cumulative media bytes per album owner
type UsageStore interface {
	OwnerUsageBytes(ctx context.Context, ownerID int64) (int64, error)
}

// QuotaTracker admits or rejects uploads against a fixed per-owner cap.
// Quota is charged to the album owner, so admins uploading into a user's
// album count against that user.
//
// The check is read-then-admit without a transaction: concurrent uploads
// for the same owner can race past it and land slightly over the cap.
type QuotaTracker struct {
	usage UsageStore
	limit int64
}

// NewQuotaTracker creates a quota tracker. A non-positive limit falls
// back to DefaultQuotaBytes.
func NewQuotaTracker(usage UsageStore, limit int64) *QuotaTracker {
	if limit <= 0 {
		limit = DefaultQuotaBytes
	}
	return &QuotaTracker{usage: usage, limit: limit}
}

// Limit returns the configured cap in bytes.
func (t *QuotaTracker) Limit() int64 {
	return t.limit
}

// Admit returns nil when the owner may store incomingBytes more, or
// ErrQuotaExceeded when used+incoming would pass the cap.
func (t *QuotaTracker) Admit(ctx context.Context, ownerID, incomingBytes int64) error {
	used, err := t.usage.OwnerUsageBytes(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to compute usage for owner %d: %w", ownerID, err)
	}
	if used+incomingBytes > t.limit {
		return ErrQuotaExceeded
	}
	return nil
}
