package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/SAP-F-2025/learning-trails-service/internal/errors"
	"github.com/SAP-F-2025/learning-trails-service/internal/models"
)

func TestNewTree_Valid(t *testing.T) {
	tree, err := NewTree(buildTrail())
	require.NoError(t, err)

	item, module, ok := tree.Content(101)
	require.True(t, ok)
	assert.Equal(t, uint(101), item.ID)
	assert.Equal(t, uint(10), module.ID)
	assert.ElementsMatch(t, []uint{100, 101, 102, 110}, tree.ContentIDs())
}

func TestNewTree_MalformedHierarchy(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Trail)
	}{
		{"module from another trail", func(tr *models.Trail) { tr.Modules[1].TrailID = 9 }},
		{"content from another module", func(tr *models.Trail) { tr.Modules[0].ContentItems[1].ModuleID = 11 }},
		{"duplicate module", func(tr *models.Trail) { tr.Modules[2].ID = 10 }},
		{"content under two modules", func(tr *models.Trail) {
			tr.Modules[2].ContentItems = []models.ContentItem{{ID: 100, ModuleID: 12}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trail := buildTrail()
			tt.mutate(trail)

			tree, err := NewTree(trail)
			assert.Nil(t, tree)
			require.Error(t, err)
			assert.Equal(t, apperrors.ReasonMalformedHierarchy, apperrors.ConfigurationReason(err))
		})
	}

	_, err := NewTree(nil)
	assert.True(t, apperrors.IsConfiguration(err))
}

func TestAccess_BlockedTrailOverridesChildren(t *testing.T) {
	trail := buildTrail()
	trail.Blocked = true

	tree, err := NewTree(trail)
	require.NoError(t, err)

	assert.False(t, tree.IsTrailAccessible())
	assert.False(t, tree.IsModuleAccessible(10))
	assert.False(t, tree.IsContentAccessible(100))
}

func TestAccess_Hierarchy(t *testing.T) {
	trail := buildTrail()
	trail.Modules[0].Blocked = true
	trail.Modules[1].ContentItems[0].Blocked = true

	tree, err := NewTree(trail)
	require.NoError(t, err)

	assert.True(t, tree.IsTrailAccessible())
	assert.False(t, tree.IsModuleAccessible(10))
	assert.False(t, tree.IsContentAccessible(101), "blocked module hides its content")
	assert.True(t, tree.IsModuleAccessible(11))
	assert.False(t, tree.IsContentAccessible(110))
	assert.True(t, tree.IsModuleAccessible(12))
}

func TestAccess_UnknownIDs(t *testing.T) {
	tree, err := NewTree(buildTrail())
	require.NoError(t, err)

	assert.False(t, tree.IsModuleAccessible(999))
	assert.False(t, tree.IsContentAccessible(999))
	assert.True(t, tree.IsContentAccessible(100))
}

func TestTreeRecords_FiltersForeignContent(t *testing.T) {
	tree, err := NewTree(buildTrail())
	require.NoError(t, err)

	records := tree.Records([]models.UserProgress{
		{ContentID: 100, Completed: true},
		{ContentID: 555, Completed: true},
	})
	assert.Len(t, records, 1)
	assert.True(t, records.Completed(100))
}
