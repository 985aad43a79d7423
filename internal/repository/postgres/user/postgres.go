package user

import (
	"context"
	"errors"

	userdomain "cendra-go/internal/domain/user"
	pg "cendra-go/internal/repository/postgres"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *userdomain.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if pg.IsUniqueViolation(err) {
		return userdomain.ErrEmailTaken
	}
	return err
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*userdomain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *PostgresRepository) first(ctx context.Context, query string, arg interface{}) (*userdomain.User, error) {
	var user userdomain.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) GetProfile(ctx context.Context, id int64) (*userdomain.Profile, error) {
	type profileRow struct {
		userdomain.User   `gorm:"embedded"`
		EntityName        *string `gorm:"column:entity_name"`
		AffiliateName     *string `gorm:"column:affiliate_name"`
		AffiliateSurnames *string `gorm:"column:affiliate_surnames"`
		AffiliatePhoto    *string `gorm:"column:affiliate_photo"`
	}

	var rows []profileRow
	if err := r.db.WithContext(ctx).
		Table("users").
		Select("users.*, entities.name AS entity_name, affiliates.name AS affiliate_name, affiliates.surnames AS affiliate_surnames, affiliates.photo AS affiliate_photo").
		Joins("left join entities on entities.id = users.entity_id").
		Joins("left join affiliates on affiliates.id = users.affiliate_id").
		Where("users.id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, userdomain.ErrUserNotFound
	}

	row := rows[0]
	return &userdomain.Profile{
		User:              row.User,
		EntityName:        row.EntityName,
		AffiliateName:     row.AffiliateName,
		AffiliateSurnames: row.AffiliateSurnames,
		AffiliatePhoto:    row.AffiliatePhoto,
	}, nil
}
