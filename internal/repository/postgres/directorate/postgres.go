package directorate

import (
	"context"
	"errors"

	"cendra-go/internal/domain/access"
	directoratedomain "cendra-go/internal/domain/directorate"
	pg "cendra-go/internal/repository/postgres"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(directoratedomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListPositions(ctx context.Context, scope access.Scope) ([]directoratedomain.Position, error) {
	var positions []directoratedomain.Position
	if err := r.db.WithContext(ctx).
		Scopes(pg.InEntity(scope, "directorate_positions")).
		Order("priority asc, id asc").
		Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

func (r *PostgresRepository) GetPosition(ctx context.Context, scope access.Scope, id int64) (*directoratedomain.Position, error) {
	var position directoratedomain.Position
	if err := r.db.WithContext(ctx).
		Scopes(pg.InEntity(scope, "directorate_positions")).
		Where("id = ?", id).
		First(&position).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, directoratedomain.ErrPositionNotFound
		}
		return nil, err
	}
	return &position, nil
}

func (r *PostgresRepository) CreatePosition(ctx context.Context, position *directoratedomain.Position) error {
	return r.db.WithContext(ctx).Create(position).Error
}

func (r *PostgresRepository) UpdatePosition(ctx context.Context, scope access.Scope, position *directoratedomain.Position) error {
	result := r.db.WithContext(ctx).
		Model(position).
		Scopes(pg.InEntity(scope, "directorate_positions")).
		Select("name", "priority").
		Updates(position)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return directoratedomain.ErrPositionNotFound
	}
	return nil
}

func (r *PostgresRepository) DeletePosition(ctx context.Context, scope access.Scope, id int64) error {
	result := r.db.WithContext(ctx).
		Scopes(pg.InEntity(scope, "directorate_positions")).
		Where("id = ?", id).
		Delete(&directoratedomain.Position{})
	if pg.IsForeignKeyViolation(result.Error) {
		return directoratedomain.ErrPositionInUse
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return directoratedomain.ErrPositionNotFound
	}
	return nil
}

func (r *PostgresRepository) CountByPosition(ctx context.Context, scope access.Scope, positionID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&directoratedomain.Directorate{}).
		Scopes(pg.InEntity(scope, "directorates")).
		Where("position_id = ?", positionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) AffiliateExists(ctx context.Context, scope access.Scope, affiliateID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("affiliates").
		Scopes(pg.InEntity(scope, "affiliates")).
		Where("id = ?", affiliateID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) ListDirectorates(ctx context.Context, scope access.Scope) ([]directoratedomain.Record, error) {
	type directorateRow struct {
		ID                int64  `gorm:"column:id"`
		EntityID          int64  `gorm:"column:entity_id"`
		AffiliateID       int64  `gorm:"column:affiliate_id"`
		PositionID        int64  `gorm:"column:position_id"`
		AffiliateName     string `gorm:"column:affiliate_name"`
		AffiliateSurnames string `gorm:"column:affiliate_surnames"`
		PositionName      string `gorm:"column:position_name"`
		PositionPriority  int    `gorm:"column:position_priority"`
	}

	var rows []directorateRow
	if err := r.db.WithContext(ctx).
		Table("directorates").
		Select("directorates.id, directorates.entity_id, directorates.affiliate_id, directorates.position_id, " +
			"affiliates.name AS affiliate_name, affiliates.surnames AS affiliate_surnames, " +
			"directorate_positions.name AS position_name, directorate_positions.priority AS position_priority").
		Joins("join affiliates on affiliates.id = directorates.affiliate_id").
		Joins("join directorate_positions on directorate_positions.id = directorates.position_id").
		Scopes(pg.InEntity(scope, "directorates")).
		Order("directorate_positions.priority asc, directorates.id asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]directoratedomain.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, directoratedomain.Record{
			Directorate: directoratedomain.Directorate{
				ID:          row.ID,
				EntityID:    row.EntityID,
				AffiliateID: row.AffiliateID,
				PositionID:  row.PositionID,
			},
			AffiliateName:     row.AffiliateName,
			AffiliateSurnames: row.AffiliateSurnames,
			PositionName:      row.PositionName,
			PositionPriority:  row.PositionPriority,
		})
	}
	return records, nil
}

func (r *PostgresRepository) GetDirectorate(ctx context.Context, scope access.Scope, id int64) (*directoratedomain.Directorate, error) {
	return r.firstDirectorate(ctx, scope, "id = ?", id)
}

func (r *PostgresRepository) GetByAffiliate(ctx context.Context, scope access.Scope, affiliateID int64) (*directoratedomain.Directorate, error) {
	return r.firstDirectorate(ctx, scope, "affiliate_id = ?", affiliateID)
}

func (r *PostgresRepository) firstDirectorate(ctx context.Context, scope access.Scope, query string, arg int64) (*directoratedomain.Directorate, error) {
	var directorate directoratedomain.Directorate
	if err := r.db.WithContext(ctx).
		Scopes(pg.InEntity(scope, "directorates")).
		Where(query, arg).
		First(&directorate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, directoratedomain.ErrDirectorateNotFound
		}
		return nil, err
	}
	return &directorate, nil
}

func (r *PostgresRepository) CreateDirectorate(ctx context.Context, directorate *directoratedomain.Directorate) error {
	err := r.db.WithContext(ctx).Create(directorate).Error
	if pg.IsUniqueViolation(err) {
		return directoratedomain.ErrAffiliateHasDirectorate
	}
	return err
}

func (r *PostgresRepository) UpdateDirectorate(ctx context.Context, scope access.Scope, directorate *directoratedomain.Directorate) error {
	result := r.db.WithContext(ctx).
		Model(directorate).
		Scopes(pg.InEntity(scope, "directorates")).
		Select("affiliate_id", "position_id").
		Updates(directorate)
	if pg.IsUniqueViolation(result.Error) {
		return directoratedomain.ErrAffiliateHasDirectorate
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return directoratedomain.ErrDirectorateNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteDirectorate(ctx context.Context, scope access.Scope, id int64) error {
	result := r.db.WithContext(ctx).
		Scopes(pg.InEntity(scope, "directorates")).
		Where("id = ?", id).
		Delete(&directoratedomain.Directorate{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return directoratedomain.ErrDirectorateNotFound
	}
	return nil
}
