package dashboard

import (
	"context"

	"cendra-go/internal/domain/access"
	pg "cendra-go/internal/repository/postgres"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CountActiveAffiliates(ctx context.Context, scope access.Scope) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("affiliates").
		Scopes(pg.InEntity(scope, "affiliates")).
		Where("active = ?", true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) CountNews(ctx context.Context, scope access.Scope) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("news_items").
		Scopes(pg.InEntity(scope, "news_items")).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AffiliateName returns nil when the affiliate is gone or belongs elsewhere.
func (r *PostgresRepository) AffiliateName(ctx context.Context, scope access.Scope, affiliateID int64) (*string, error) {
	var names []string
	if err := r.db.WithContext(ctx).
		Table("affiliates").
		Scopes(pg.InEntity(scope, "affiliates")).
		Where("id = ?", affiliateID).
		Limit(1).
		Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, nil
	}
	return &names[0], nil
}
