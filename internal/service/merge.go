package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hydroshop/backend/internal/domain"
	"github.com/hydroshop/backend/internal/logging"
	"github.com/hydroshop/backend/internal/mykafka"
	"github.com/hydroshop/backend/internal/repo"
)

// MergeService moves an anonymous cart into the authenticated cart on login.
//
// The merge is a sequence of per-product steps, each atomic on its own, never
// one bulk transaction. A crash mid-way leaves some rows transferred and the
// rest still session-owned, and calling MergeOnLogin again only acts on what
// remains. An empty or already-merged session is a no-op.
type MergeService struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
}

// MergeOnLogin reconciles every session-owned line item into the user's cart.
// It reports whether the session held anything to merge; either way the
// session token should be retired by the caller afterwards.
//
// A failing product is skipped and left session-owned for a retry; the other
// products still merge. The first failure comes back as the error once the
// whole pass is done.
func (m *MergeService) MergeOnLogin(ctx context.Context, sessionToken, userID string) (bool, error) {
	if sessionToken == "" || userID == "" {
		return false, domain.ErrNoOwner
	}

	l := logging.FromContext(ctx).With("user_id", userID)

	// Snapshot only decides which products to visit. Quantities are re-read
	// inside each per-product transaction.
	items, err := m.Repo.Items(ctx, domain.AnonymousOwner(sessionToken))
	if err != nil {
		return false, fmt.Errorf("merge snapshot: %w", err)
	}
	if len(items) == 0 {
		return false, nil
	}

	var firstErr error
	merged := 0
	for _, item := range items {
		if err := m.Repo.MergeItem(ctx, sessionToken, userID, item.ProductID); err != nil {
			l.Error("cart merge step failed", "product_id", item.ProductID, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("merge product %s: %w", item.ProductID, err)
			}
			continue
		}
		merged++
	}

	if firstErr != nil {
		return merged > 0, firstErr
	}

	m.publish(ctx, userID, map[string]any{
		"type":    "cart_merged",
		"user_id": userID,
		"items":   merged,
	})
	l.Info("anonymous cart merged", "items", merged)

	return true, nil
}

func (m *MergeService) publish(ctx context.Context, key string, event map[string]any) {
	if m.Producer == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := m.Producer.PublishEvent(pubCtx, cartEventsTopic, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}
