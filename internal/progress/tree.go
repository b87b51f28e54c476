package progress

import (
	"fmt"

	apperrors "github.com/SAP-F-2025/learning-trails-service/internal/errors"
	"github.com/SAP-F-2025/learning-trails-service/internal/models"
)

// Tree is a validated trail with lookup tables for gating checks.
type Tree struct {
	Trail *models.Trail

	modules  map[uint]*models.Module
	contents map[uint]*models.ContentItem
	owner    map[uint]uint // content ID -> module ID
}

// NewTree validates the parent references of trail and indexes it. A broken
// hierarchy is reported here so aggregation never meets one.
func NewTree(trail *models.Trail) (*Tree, error) {
	if trail == nil {
		return nil, malformed(0, "trail is nil", nil)
	}

	tree := &Tree{
		Trail:    trail,
		modules:  make(map[uint]*models.Module, len(trail.Modules)),
		contents: make(map[uint]*models.ContentItem),
		owner:    make(map[uint]uint),
	}

	for i := range trail.Modules {
		module := &trail.Modules[i]
		if module.TrailID != trail.ID {
			return nil, malformed(trail.ID,
				fmt.Sprintf("module %d belongs to trail %d", module.ID, module.TrailID),
				map[string]interface{}{"module_id": module.ID})
		}
		if _, dup := tree.modules[module.ID]; dup {
			return nil, malformed(trail.ID,
				fmt.Sprintf("module %d appears twice", module.ID),
				map[string]interface{}{"module_id": module.ID})
		}
		tree.modules[module.ID] = module

		for j := range module.ContentItems {
			item := &module.ContentItems[j]
			if item.ModuleID != module.ID {
				return nil, malformed(trail.ID,
					fmt.Sprintf("content %d belongs to module %d, found under module %d", item.ID, item.ModuleID, module.ID),
					map[string]interface{}{"module_id": module.ID, "content_id": item.ID})
			}
			if other, dup := tree.owner[item.ID]; dup {
				return nil, malformed(trail.ID,
					fmt.Sprintf("content %d reachable from modules %d and %d", item.ID, other, module.ID),
					map[string]interface{}{"module_id": module.ID, "content_id": item.ID})
			}
			tree.contents[item.ID] = item
			tree.owner[item.ID] = module.ID
		}
	}

	return tree, nil
}

func malformed(trailID uint, message string, context map[string]interface{}) error {
	if context == nil {
		context = map[string]interface{}{}
	}
	context["trail_id"] = trailID
	return apperrors.NewConfigurationError(apperrors.ReasonMalformedHierarchy, message, context)
}

// Module returns the module with id, if it belongs to the trail.
func (t *Tree) Module(id uint) (*models.Module, bool) {
	module, ok := t.modules[id]
	return module, ok
}

// Content returns the content item with id and its owning module.
func (t *Tree) Content(id uint) (*models.ContentItem, *models.Module, bool) {
	item, ok := t.contents[id]
	if !ok {
		return nil, nil, false
	}
	return item, t.modules[t.owner[id]], true
}

func (t *Tree) IsTrailAccessible() bool {
	return !t.Trail.Blocked
}

// IsModuleAccessible is false for unknown modules.
func (t *Tree) IsModuleAccessible(moduleID uint) bool {
	module, ok := t.modules[moduleID]
	if !ok {
		return false
	}
	return !module.Blocked && t.IsTrailAccessible()
}

// IsContentAccessible requires the content, its module and the trail to be
// unblocked. Unknown content is not accessible.
func (t *Tree) IsContentAccessible(contentID uint) bool {
	item, ok := t.contents[contentID]
	if !ok {
		return false
	}
	return !item.Blocked && t.IsModuleAccessible(t.owner[contentID])
}

// Records keeps only the rows that refer to content in this trail.
func (t *Tree) Records(rows []models.UserProgress) Records {
	records := make(Records, len(rows))
	for _, row := range rows {
		if _, ok := t.contents[row.ContentID]; ok {
			records[row.ContentID] = row
		}
	}
	return records
}

// ContentIDs lists every content ID in the trail.
func (t *Tree) ContentIDs() []uint {
	ids := make([]uint, 0, len(t.contents))
	for i := range t.Trail.Modules {
		for _, item := range t.Trail.Modules[i].ContentItems {
			ids = append(ids, item.ID)
		}
	}
	return ids
}
