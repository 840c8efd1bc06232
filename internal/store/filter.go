package store

import (
	"github.com/google/uuid"

	"rag-document-backend/models"
)

// FilterToOwner keeps only results whose id appears in ownedIDs,
// preserving the original rank order, truncated to limit. The live
// query path filters inside the SQL query instead, so this is the
// defense-in-depth form used when ranked results arrive from a source
// that could not filter natively. If fewer than limit of the ranked
// results belong to the owner, fewer than limit are returned.
func FilterToOwner(results []models.SearchResult, ownedIDs map[uuid.UUID]struct{}, limit int) []models.SearchResult {
	if limit <= 0 {
		return nil
	}

	filtered := make([]models.SearchResult, 0, limit)
	for _, r := range results {
		if _, ok := ownedIDs[r.ID]; !ok {
			continue
		}
		filtered = append(filtered, r)
		if len(filtered) == limit {
			break
		}
	}

	return filtered
}
