package entity

import (
	"context"
	"errors"
	"time"

	"cendra-go/internal/domain/access"
	entitydomain "cendra-go/internal/domain/entity"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(entitydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListPublic(ctx context.Context, filter entitydomain.PublicFilter) ([]entitydomain.PublicEntity, error) {
	query := r.db.WithContext(ctx).
		Model(&entitydomain.Entity{}).
		Select("id, name, logo")
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}

	var entities []entitydomain.PublicEntity
	if err := query.Order("name asc, id asc").Scan(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*entitydomain.Entity, error) {
	var entity entitydomain.Entity
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entitydomain.ErrEntityNotFound
		}
		return nil, err
	}
	return &entity, nil
}

func (r *PostgresRepository) Get(ctx context.Context, scope access.Scope) (*entitydomain.Entity, error) {
	if scope.IsZero() {
		return nil, access.ErrNoEntity
	}
	return r.GetByID(ctx, scope.EntityID())
}

func (r *PostgresRepository) Create(ctx context.Context, entity *entitydomain.Entity) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

func (r *PostgresRepository) Update(ctx context.Context, scope access.Scope, entity *entitydomain.Entity) error {
	if scope.IsZero() {
		return access.ErrNoEntity
	}
	result := r.db.WithContext(ctx).
		Model(entity).
		Where("id = ?", scope.EntityID()).
		Select("*").
		Omit("id", "created_at").
		Updates(entity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entitydomain.ErrEntityNotFound
	}
	return nil
}

func (r *PostgresRepository) SetLogo(ctx context.Context, scope access.Scope, logo string) error {
	if scope.IsZero() {
		return access.ErrNoEntity
	}
	result := r.db.WithContext(ctx).
		Model(&entitydomain.Entity{}).
		Where("id = ?", scope.EntityID()).
		Updates(map[string]interface{}{"logo": logo, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entitydomain.ErrEntityNotFound
	}
	return nil
}

// AttachUser binds a user without entity to entityID. A user that already
// belongs to an entity is left untouched.
func (r *PostgresRepository) AttachUser(ctx context.Context, userID, entityID int64, admin bool, stage access.Stage) error {
	result := r.db.WithContext(ctx).
		Table("users").
		Where("id = ? AND entity_id IS NULL", userID).
		Updates(map[string]interface{}{
			"entity_id":       entityID,
			"is_entity_admin": admin,
			"onboarding":      stage,
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entitydomain.ErrAlreadyMember
	}
	return nil
}
