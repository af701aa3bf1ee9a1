package audio

import (
	"fmt"

	"talenta-backend/internal/shared/apperror"
)

// AppendSegment adds one segment at the end of both arrays.
func (a *Audio) AppendSegment(url, identifier string) {
	a.SegmentURLs = append(a.SegmentURLs, url)
	a.SegmentIDs = append(a.SegmentIDs, identifier)
}

var errSegmentsOutOfSync = apperror.Internal("Segment arrays are out of sync", nil)

// ReorderSegments replaces the segment order with the permutation ids. Each
// URL moves with its identifier.
func (a *Audio) ReorderSegments(ids []string) error {
	if len(a.SegmentURLs) != len(a.SegmentIDs) {
		return errSegmentsOutOfSync
	}

	index := make(map[string]int, len(a.SegmentIDs))
	for i, id := range a.SegmentIDs {
		index[id] = i
	}

	urls := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		i, ok := index[id]
		if !ok {
			return apperror.Validation(fmt.Sprintf("Segment %s does not belong to this audio.", id))
		}
		if _, dup := seen[id]; dup {
			return apperror.Validation("Duplicate segment in reorder request.")
		}
		seen[id] = struct{}{}
		urls = append(urls, a.SegmentURLs[i])
	}
	if len(ids) != len(a.SegmentIDs) {
		return apperror.Validation(fmt.Sprintf("Reorder must include all %d segments of this audio.", len(a.SegmentIDs)))
	}

	a.SegmentURLs = urls
	a.SegmentIDs = append(a.SegmentIDs[:0:0], ids...)
	return nil
}

// RemoveSegment drops the segment with the given identifier from both
// arrays, keeping the relative order of the rest.
func (a *Audio) RemoveSegment(identifier string) error {
	if len(a.SegmentURLs) != len(a.SegmentIDs) {
		return errSegmentsOutOfSync
	}
	for i, id := range a.SegmentIDs {
		if id != identifier {
			continue
		}
		a.SegmentIDs = append(a.SegmentIDs[:i:i], a.SegmentIDs[i+1:]...)
		a.SegmentURLs = append(a.SegmentURLs[:i:i], a.SegmentURLs[i+1:]...)
		return nil
	}
	return ErrSegmentNotFound
}
