package news

import (
	"context"
	"time"

	"cendra-go/internal/domain/access"
	newsdomain "cendra-go/internal/domain/news"
	pg "cendra-go/internal/repository/postgres"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, scope access.Scope, filter newsdomain.ListFilter) ([]newsdomain.Record, error) {
	type newsRow struct {
		ID             int64     `gorm:"column:id"`
		EntityID       int64     `gorm:"column:entity_id"`
		Title          string    `gorm:"column:title"`
		Content        string    `gorm:"column:content"`
		AuthorID       int64     `gorm:"column:author_id"`
		Photo          *string   `gorm:"column:photo"`
		CreatedAt      time.Time `gorm:"column:created_at"`
		UpdatedAt      time.Time `gorm:"column:updated_at"`
		AuthorName     string    `gorm:"column:author_name"`
		AuthorSurnames string    `gorm:"column:author_surnames"`
	}

	query := r.db.WithContext(ctx).
		Table("news_items").
		Select("news_items.*, affiliates.name AS author_name, affiliates.surnames AS author_surnames").
		Joins("join affiliates on affiliates.id = news_items.author_id").
		Scopes(pg.InEntity(scope, "news_items"))
	if filter.ID != nil {
		query = query.Where("news_items.id = ?", *filter.ID)
	}

	var rows []newsRow
	if err := query.Order("news_items.created_at desc, news_items.id desc").Scan(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]newsdomain.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, newsdomain.Record{
			Item: newsdomain.Item{
				ID:        row.ID,
				EntityID:  row.EntityID,
				Title:     row.Title,
				Content:   row.Content,
				AuthorID:  row.AuthorID,
				Photo:     row.Photo,
				CreatedAt: row.CreatedAt,
				UpdatedAt: row.UpdatedAt,
			},
			AuthorName:     row.AuthorName,
			AuthorSurnames: row.AuthorSurnames,
		})
	}
	return records, nil
}

func (r *PostgresRepository) Get(ctx context.Context, scope access.Scope, id int64) (*newsdomain.Record, error) {
	records, err := r.List(ctx, scope, newsdomain.ListFilter{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, newsdomain.ErrNewsNotFound
	}
	return &records[0], nil
}

func (r *PostgresRepository) Create(ctx context.Context, item *newsdomain.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *PostgresRepository) Update(ctx context.Context, scope access.Scope, item *newsdomain.Item) error {
	result := r.db.WithContext(ctx).
		Model(item).
		Scopes(pg.InEntity(scope, "news_items")).
		Select("title", "content", "photo", "updated_at").
		Updates(item)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return newsdomain.ErrNewsNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, scope access.Scope, id int64) error {
	result := r.db.WithContext(ctx).
		Scopes(pg.InEntity(scope, "news_items")).
		Where("id = ?", id).
		Delete(&newsdomain.Item{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return newsdomain.ErrNewsNotFound
	}
	return nil
}

func (r *PostgresRepository) Count(ctx context.Context, scope access.Scope) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&newsdomain.Item{}).
		Scopes(pg.InEntity(scope, "news_items")).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
