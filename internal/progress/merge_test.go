package progress

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/SAP-F-2025/learning-trails-service/internal/models"
)

func TestMerge_NeverDowngrades(t *testing.T) {
	earlier := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	later := earlier.Add(time.Hour)
	existing := &models.UserProgress{ID: 7, UserID: "u1", ContentID: 3, Completed: true, Percentage: 100, LastAccessed: earlier}

	merged := Merge(existing, Update{UserID: "u1", ContentID: 3, Completed: false, Percentage: 40, At: later})

	assert.Equal(t, uint(7), merged.ID)
	assert.True(t, merged.Completed)
	assert.Equal(t, 100.0, merged.Percentage)
	assert.Equal(t, later, merged.LastAccessed)
	assert.False(t, Transitioned(existing, merged))
}

func TestMerge_IncompleteIsLastWriteWins(t *testing.T) {
	existing := &models.UserProgress{ContentID: 3, Percentage: 80}

	merged := Merge(existing, Update{ContentID: 3, Percentage: 30})
	assert.False(t, merged.Completed)
	assert.Equal(t, 30.0, merged.Percentage)
}

func TestMerge_CompletionTransition(t *testing.T) {
	existing := &models.UserProgress{ContentID: 3, Percentage: 50}

	merged := Merge(existing, Update{ContentID: 3, Completed: true, Percentage: 60})
	assert.True(t, merged.Completed)
	assert.Equal(t, 100.0, merged.Percentage)
	assert.True(t, Transitioned(existing, merged))

	fresh := Merge(nil, Update{ContentID: 4, Completed: true, Percentage: 100})
	assert.True(t, Transitioned(nil, fresh))
}

func TestMerge_ClampsPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Merge(nil, Update{Percentage: -5}).Percentage)
	assert.Equal(t, 100.0, Merge(nil, Update{Percentage: 150}).Percentage)
	assert.Equal(t, 0.0, Merge(nil, Update{Percentage: math.NaN()}).Percentage)
}

func TestApplyVideoThreshold(t *testing.T) {
	tick := Update{Percentage: 92}

	assert.True(t, ApplyVideoThreshold(tick, models.ContentVideo, 90).Completed)
	assert.False(t, ApplyVideoThreshold(Update{Percentage: 89.9}, models.ContentVideo, 90).Completed)
	assert.False(t, ApplyVideoThreshold(tick, models.ContentPDF, 90).Completed)
	assert.False(t, ApplyVideoThreshold(tick, models.ContentVideo, 0).Completed)
}
