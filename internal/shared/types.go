package shared

// Background task types.
const (
	TypeMergeAudioSegments = "audio:merge_segments"
	TypeReconcileOrphans   = "storage:reconcile_orphans"
)

// Queues served by the worker.
const (
	QueueMedia       = "media"
	QueueMaintenance = "maintenance"
)

// MergeSegmentsPayload asks the worker to merge the segments of one audio.
type MergeSegmentsPayload struct {
	AudioID     string `json:"audioId"`
	RequestedBy string `json:"requestedBy"`
}

// ReconcileOrphansPayload carries no data; the job scans every managed folder.
type ReconcileOrphansPayload struct{}
