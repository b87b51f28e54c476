package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SAP-F-2025/learning-trails-service/internal/models"
)

func buildTrail() *models.Trail {
	return &models.Trail{
		ID: 1,
		Modules: []models.Module{
			{ID: 10, TrailID: 1, ContentItems: []models.ContentItem{
				{ID: 100, ModuleID: 10, Type: models.ContentVideo},
				{ID: 101, ModuleID: 10, Type: models.ContentPDF},
				{ID: 102, ModuleID: 10, Type: models.ContentQuiz},
			}},
			{ID: 11, TrailID: 1, ContentItems: []models.ContentItem{
				{ID: 110, ModuleID: 11, Type: models.ContentLive},
			}},
			{ID: 12, TrailID: 1},
		},
	}
}

func done(contentIDs ...uint) Records {
	rows := make([]models.UserProgress, 0, len(contentIDs))
	for _, id := range contentIDs {
		rows = append(rows, models.UserProgress{UserID: "u1", ContentID: id, Completed: true, Percentage: 100})
	}
	return Index(rows)
}

func TestModuleProgress(t *testing.T) {
	trail := buildTrail()
	module := &trail.Modules[0]

	assert.Equal(t, 0.0, ModuleProgress(module, Records{}))
	assert.InDelta(t, 66.67, ModuleProgress(module, done(100, 101)), 0.01)
	assert.Equal(t, 100.0, ModuleProgress(module, done(100, 101, 102)))
}

func TestModuleProgress_EmptyModuleIsZero(t *testing.T) {
	trail := buildTrail()
	assert.Equal(t, 0.0, ModuleProgress(&trail.Modules[2], done(100)))
}

func TestModuleProgress_IncompleteRecordDoesNotCount(t *testing.T) {
	trail := buildTrail()
	records := Index([]models.UserProgress{{ContentID: 100, Percentage: 95}})
	assert.Equal(t, 0.0, ModuleProgress(&trail.Modules[0], records))
}

func TestTrailProgress_CountsContentNotModules(t *testing.T) {
	trail := buildTrail()

	// one live item completed out of four items: 25%, not the 50% a module average would give
	assert.Equal(t, 25.0, TrailProgress(trail, done(110)))
	assert.Equal(t, 0.0, TrailProgress(&models.Trail{ID: 2}, done(110)))
	assert.Equal(t, 0.0, TrailProgress(&models.Trail{ID: 3, Modules: []models.Module{{ID: 1, TrailID: 3}}}, Records{}))
}

func TestClassBreakdown_ContentWeighted(t *testing.T) {
	other := models.Trail{ID: 2, Modules: []models.Module{
		{ID: 20, TrailID: 2, ContentItems: []models.ContentItem{{ID: 200, ModuleID: 20}}},
	}}
	class := &models.Class{ID: 7, Trails: []models.Trail{*buildTrail(), other}}

	empty := ClassBreakdown(&models.Class{ID: 8}, "u1", done(100))
	assert.Equal(t, 0.0, empty.Percentage)
	assert.Empty(t, empty.Trails)

	result := ClassBreakdown(class, "u1", done(100, 200))
	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 2, result.Completed)
	assert.Equal(t, 40.0, result.Percentage)
}

func TestBreakdowns(t *testing.T) {
	trail := buildTrail()
	records := done(100, 110)

	breakdown := TrailBreakdown(trail, records)
	assert.Equal(t, 4, breakdown.Total)
	assert.Equal(t, 2, breakdown.Completed)
	assert.Equal(t, 50.0, breakdown.Percentage)
	assert.Len(t, breakdown.Modules, 3)
	assert.Equal(t, models.ModuleProgress{ModuleID: 11, Total: 1, Completed: 1, Percentage: 100}, breakdown.Modules[1])
	assert.Equal(t, models.ModuleProgress{ModuleID: 12}, breakdown.Modules[2])

	class := &models.Class{ID: 5, Trails: []models.Trail{*trail}}
	classProgress := ClassBreakdown(class, "u1", records)
	assert.Equal(t, "u1", classProgress.UserID)
	assert.Equal(t, 50.0, classProgress.Percentage)
	assert.Len(t, classProgress.Trails, 1)
}

func TestIndex_LastRowWins(t *testing.T) {
	records := Index([]models.UserProgress{
		{ContentID: 1, Completed: false},
		{ContentID: 1, Completed: true},
	})
	assert.True(t, records.Completed(1))
	assert.False(t, records.Completed(2))
}
