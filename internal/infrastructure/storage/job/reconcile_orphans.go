package job

import (
	"context"
	"fmt"
	"time"

	"talenta-backend/internal/infrastructure/storage"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// ============================================
// RECONCILE ORPHANS HANDLER
// ============================================

// ReconcileOrphansHandler reports stored objects that no row references.
// It never deletes.
type ReconcileOrphansHandler struct {
	store storage.BlobStore
	refs  storage.ReferenceSource
}

func NewReconcileOrphansHandler(store storage.BlobStore, refs storage.ReferenceSource) *ReconcileOrphansHandler {
	return &ReconcileOrphansHandler{store: store, refs: refs}
}

func (h *ReconcileOrphansHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	start := time.Now()
	log.Info().Str("task", task.Type()).Msg("Reconciling stored objects")

	refs, err := h.refs.ReferencedKeys(ctx)
	if err != nil {
		return fmt.Errorf("load references: %w", err)
	}

	orphans, err := storage.FindOrphans(ctx, h.store, refs)
	if err != nil {
		return fmt.Errorf("find orphans: %w", err)
	}

	for _, key := range orphans {
		log.Warn().Str("identifier", key).Msg("Orphaned object")
	}

	log.Info().
		Int("referenced", len(refs)).
		Int("orphans", len(orphans)).
		Dur("took", time.Since(start)).
		Msg("Object reconciliation completed")
	return nil
}
