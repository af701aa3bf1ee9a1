package main

import (
	audioJob "talenta-backend/internal/domains/audio/job"
	storageJob "talenta-backend/internal/infrastructure/storage/job"
	"talenta-backend/internal/shared"
	"talenta-backend/pkg/container"

	"github.com/hibiken/asynq"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	mergeSegments    *audioJob.MergeSegmentsHandler
	reconcileOrphans *storageJob.ReconcileOrphansHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		mergeSegments:    audioJob.NewMergeSegmentsHandler(c.AudioMerger),
		reconcileOrphans: storageJob.NewReconcileOrphansHandler(c.Blobs, c.References),
	}
}

func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Media
	mux.HandleFunc(shared.TypeMergeAudioSegments, h.mergeSegments.ProcessTask)

	// Maintenance
	mux.HandleFunc(shared.TypeReconcileOrphans, h.reconcileOrphans.ProcessTask)
}
