package progress

import (
	"math"
	"time"

	"github.com/SAP-F-2025/learning-trails-service/internal/models"
)

// Update is one progress tick reported by a learner's client.
type Update struct {
	UserID     string
	ContentID  uint
	Completed  bool
	Percentage float64
	At         time.Time
}

// ApplyVideoThreshold marks a video tick completed once it reaches threshold
// percent. A non-positive threshold disables auto-completion.
func ApplyVideoThreshold(update Update, contentType models.ContentType, threshold float64) Update {
	if contentType == models.ContentVideo && threshold > 0 && update.Percentage >= threshold {
		update.Completed = true
	}
	return update
}

// Merge folds update into existing. Completed never goes back to false, and
// while the record is completed its percentage never decreases. LastAccessed
// and, for incomplete records, percentage take the update's value.
func Merge(existing *models.UserProgress, update Update) models.UserProgress {
	pct := clamp(update.Percentage)
	if update.Completed && pct < 100 {
		pct = 100
	}

	merged := models.UserProgress{
		UserID:       update.UserID,
		ContentID:    update.ContentID,
		Completed:    update.Completed,
		Percentage:   pct,
		LastAccessed: update.At,
	}
	if existing == nil {
		return merged
	}

	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt
	if existing.Completed {
		merged.Completed = true
		if existing.Percentage > merged.Percentage {
			merged.Percentage = existing.Percentage
		}
	}
	return merged
}

// Transitioned reports whether merging moved the record into the completed state.
func Transitioned(existing *models.UserProgress, merged models.UserProgress) bool {
	return merged.Completed && (existing == nil || !existing.Completed)
}

func clamp(pct float64) float64 {
	switch {
	case math.IsNaN(pct), pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}
