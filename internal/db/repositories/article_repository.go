package repositories

import (
	"context"
	"time"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"

	"freightops/harbormaster/internal/models/gorm"
)

// ArticleRepository handles articles table operations
type ArticleRepository struct {
	db *gormlib.DB
}

func NewArticleRepository(db *gormlib.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// Upsert inserts or updates an article keyed by its upstream identity.
// ExternalID is immutable; everything else is replaced.
func (r *ArticleRepository) Upsert(ctx context.Context, article *gorm.Article) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"code", "name", "description", "category",
				"price_amount", "price_currency",
				"applicable_services", "applicable_carriers",
				"transport_mode", "pol_code", "pol_terminal", "pod_code",
				"customer_type", "qty_min", "qty_max", "qty_label",
				"formula_base", "formula_divisor", "formula_fixed",
				"is_parent", "is_surcharge", "needs_review",
				"mandatory", "mandatory_condition", "notes",
				"valid_from", "valid_until",
				"last_synced_at", "updated_at",
			}),
		}).
		Create(article).Error
}

// FindByExternalID returns nil, nil when the article is unknown.
func (r *ArticleRepository) FindByExternalID(ctx context.Context, externalID string) (*gorm.Article, error) {
	var article gorm.Article
	err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&article).Error
	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &article, nil
}

// FindByID returns nil, nil when no row matches.
func (r *ArticleRepository) FindByID(ctx context.Context, id string) (*gorm.Article, error) {
	var article gorm.Article
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&article).Error
	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &article, nil
}

// Save persists in-place mutations of an already loaded article.
func (r *ArticleRepository) Save(ctx context.Context, article *gorm.Article) error {
	return r.db.WithContext(ctx).Save(article).Error
}

// List returns a page of articles ordered by code.
func (r *ArticleRepository) List(ctx context.Context, offset, limit int) ([]gorm.Article, error) {
	var articles []gorm.Article
	err := r.db.WithContext(ctx).
		Order("code, name").
		Offset(offset).
		Limit(limit).
		Find(&articles).Error
	return articles, err
}

// ListNeedingReview returns every article flagged for manual review.
func (r *ArticleRepository) ListNeedingReview(ctx context.Context) ([]gorm.Article, error) {
	var articles []gorm.Article
	err := r.db.WithContext(ctx).
		Where("needs_review = ?", true).
		Order("code, name").
		Find(&articles).Error
	return articles, err
}

// ListStaleSince returns articles whose metadata has not been refreshed
// since the cutoff, oldest first. Rows never synced sort first.
func (r *ArticleRepository) ListStaleSince(ctx context.Context, cutoff time.Time, limit int) ([]gorm.Article, error) {
	var articles []gorm.Article
	err := r.db.WithContext(ctx).
		Where("last_synced_at IS NULL OR last_synced_at < ?", cutoff).
		Order("last_synced_at").
		Limit(limit).
		Find(&articles).Error
	return articles, err
}

// CountNeedingReview returns the current size of the manual review queue.
func (r *ArticleRepository) CountNeedingReview(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gorm.Article{}).
		Where("needs_review = ?", true).
		Count(&count).Error
	return count, err
}

// Count returns the total number of cached articles.
func (r *ArticleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&gorm.Article{}).Count(&count).Error
	return count, err
}
