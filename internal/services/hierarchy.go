package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/learning-trails-service/internal/models"
	"github.com/SAP-F-2025/learning-trails-service/internal/progress"
	"github.com/SAP-F-2025/learning-trails-service/internal/repositories"
)

// Actor is the authenticated caller of a service operation
type Actor struct {
	UserID string
	Role   models.UserRole
}

// contentTree is a content item located inside its validated trail
type contentTree struct {
	tree   *progress.Tree
	item   *models.ContentItem
	module *models.Module
}

// loadTrailTree loads and validates one trail
func loadTrailTree(ctx context.Context, repo repositories.Repository, trailID uint) (*progress.Tree, error) {
	trail, err := repo.Trail().GetTree(ctx, nil, trailID)
	if err != nil {
		return nil, mapNotFound(err, ErrTrailNotFound)
	}
	return progress.NewTree(trail)
}

// loadContentTree walks content -> module -> trail and validates the trail
func loadContentTree(ctx context.Context, repo repositories.Repository, contentID uint) (*contentTree, error) {
	item, err := repo.Trail().GetContent(ctx, nil, contentID)
	if err != nil {
		return nil, mapNotFound(err, ErrContentNotFound)
	}

	module, err := repo.Trail().GetModule(ctx, nil, item.ModuleID)
	if err != nil {
		return nil, mapNotFound(err, ErrModuleNotFound)
	}

	tree, err := loadTrailTree(ctx, repo, module.TrailID)
	if err != nil {
		return nil, err
	}

	treeItem, treeModule, ok := tree.Content(contentID)
	if !ok {
		// The cached tree predates this content; treat as missing rather than guess.
		return nil, fmt.Errorf("%w: content %d not in trail %d", ErrContentNotFound, contentID, module.TrailID)
	}

	return &contentTree{tree: tree, item: treeItem, module: treeModule}, nil
}

// canManage reports whether actor may author resources created by ownerID
func canManage(actor Actor, ownerID string) bool {
	return actor.Role == models.RoleAdmin || (actor.Role == models.RoleProfessor && actor.UserID == ownerID)
}
