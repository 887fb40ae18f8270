package repositories

import (
	"context"
	"fmt"

	gormlib "gorm.io/gorm"

	"freightops/harbormaster/internal/models/gorm"
)

// ArticleLinkRepository handles the parent/child edge table
type ArticleLinkRepository struct {
	db *gormlib.DB
}

func NewArticleLinkRepository(db *gormlib.DB) *ArticleLinkRepository {
	return &ArticleLinkRepository{db: db}
}

// Exists reports whether a parent/child edge is already recorded.
func (r *ArticleLinkRepository) Exists(ctx context.Context, parentID, childID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gorm.ArticleLink{}).
		Where("parent_id = ? AND child_id = ?", parentID, childID).
		Count(&count).Error
	return count > 0, err
}

// Attach creates the edge unless it already exists. Self-loops are rejected.
func (r *ArticleLinkRepository) Attach(ctx context.Context, link *gorm.ArticleLink) error {
	if link.ParentID == link.ChildID {
		return fmt.Errorf("refusing to link article %s to itself", link.ParentID)
	}

	exists, err := r.Exists(ctx, link.ParentID, link.ChildID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return r.db.WithContext(ctx).Create(link).Error
}

// ChildrenOf returns the outgoing edges of a parent in sort order.
func (r *ArticleLinkRepository) ChildrenOf(ctx context.Context, parentID string) ([]gorm.ArticleLink, error) {
	var links []gorm.ArticleLink
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("sort_order").
		Find(&links).Error
	return links, err
}

// Count returns the total number of edges.
func (r *ArticleLinkRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&gorm.ArticleLink{}).Count(&count).Error
	return count, err
}
