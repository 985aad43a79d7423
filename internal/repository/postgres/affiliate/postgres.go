package affiliate

import (
	"context"
	"errors"
	"time"

	"cendra-go/internal/domain/access"
	affiliatedomain "cendra-go/internal/domain/affiliate"
	pg "cendra-go/internal/repository/postgres"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(affiliatedomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

type affiliateRow struct {
	affiliatedomain.Affiliate `gorm:"embedded"`
	PositionName              *string `gorm:"column:position_name"`
}

func (r *PostgresRepository) List(ctx context.Context, scope access.Scope, filter affiliatedomain.ListFilter) ([]affiliatedomain.Record, error) {
	query := r.db.WithContext(ctx).
		Table("affiliates").
		Select("affiliates.*, directorate_positions.name AS position_name").
		Joins("left join directorates on directorates.affiliate_id = affiliates.id").
		Joins("left join directorate_positions on directorate_positions.id = directorates.position_id").
		Scopes(pg.InEntity(scope, "affiliates"))
	if !filter.IncludeInactive {
		query = query.Where("affiliates.active = ?", true)
	}
	if filter.ID != nil {
		query = query.Where("affiliates.id = ?", *filter.ID)
	}

	var rows []affiliateRow
	if err := query.
		Order("affiliates.census_number asc nulls last, affiliates.id asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []affiliatedomain.Record{}, nil
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	var choices []affiliatedomain.PaymentChoice
	if err := r.db.WithContext(ctx).Where("affiliate_id IN ?", ids).Find(&choices).Error; err != nil {
		return nil, err
	}
	byAffiliate := make(map[int64]*affiliatedomain.PaymentChoice, len(choices))
	for i := range choices {
		byAffiliate[choices[i].AffiliateID] = &choices[i]
	}

	records := make([]affiliatedomain.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, affiliatedomain.Record{
			Affiliate:     row.Affiliate,
			PositionName:  row.PositionName,
			PaymentChoice: byAffiliate[row.ID],
		})
	}
	return records, nil
}

// Get returns the affiliate whatever its active flag; callers decide who may
// see inactive ones.
func (r *PostgresRepository) Get(ctx context.Context, scope access.Scope, id int64) (*affiliatedomain.Record, error) {
	records, err := r.List(ctx, scope, affiliatedomain.ListFilter{ID: &id, IncludeInactive: true})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, affiliatedomain.ErrAffiliateNotFound
	}
	return &records[0], nil
}

func (r *PostgresRepository) Exists(ctx context.Context, scope access.Scope, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&affiliatedomain.Affiliate{}).
		Scopes(pg.InEntity(scope, "affiliates")).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) Create(ctx context.Context, affiliate *affiliatedomain.Affiliate) error {
	return r.db.WithContext(ctx).Create(affiliate).Error
}

func (r *PostgresRepository) Update(ctx context.Context, scope access.Scope, affiliate *affiliatedomain.Affiliate) error {
	result := r.db.WithContext(ctx).
		Model(affiliate).
		Scopes(pg.InEntity(scope, "affiliates")).
		Select("*").
		Omit("id", "entity_id", "created_at").
		Updates(affiliate)
	return affected(result)
}

func (r *PostgresRepository) SetActive(ctx context.Context, scope access.Scope, id int64, active bool) error {
	return r.updateColumn(ctx, scope, id, "active", active)
}

func (r *PostgresRepository) SetPhoto(ctx context.Context, scope access.Scope, id int64, photo string) error {
	return r.updateColumn(ctx, scope, id, "photo", photo)
}

func (r *PostgresRepository) updateColumn(ctx context.Context, scope access.Scope, id int64, column string, value interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&affiliatedomain.Affiliate{}).
		Scopes(pg.InEntity(scope, "affiliates")).
		Where("id = ?", id).
		Updates(map[string]interface{}{column: value, "updated_at": time.Now().UTC()})
	return affected(result)
}

func affected(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return affiliatedomain.ErrAffiliateNotFound
	}
	return nil
}

func (r *PostgresRepository) GetPositionName(ctx context.Context, scope access.Scope, id int64) (*string, error) {
	record, err := r.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	return record.PositionName, nil
}

func (r *PostgresRepository) GetPaymentChoice(ctx context.Context, affiliateID int64) (*affiliatedomain.PaymentChoice, error) {
	var choice affiliatedomain.PaymentChoice
	if err := r.db.WithContext(ctx).Where("affiliate_id = ?", affiliateID).First(&choice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, affiliatedomain.ErrPaymentChoiceNotFound
		}
		return nil, err
	}
	return &choice, nil
}

func (r *PostgresRepository) SavePaymentChoice(ctx context.Context, choice *affiliatedomain.PaymentChoice) error {
	return r.db.WithContext(ctx).Save(choice).Error
}

// LinkPrincipal binds the affiliate to a user that has none yet.
func (r *PostgresRepository) LinkPrincipal(ctx context.Context, userID, affiliateID int64, stage access.Stage) error {
	result := r.db.WithContext(ctx).
		Table("users").
		Where("id = ? AND affiliate_id IS NULL", userID).
		Updates(map[string]interface{}{
			"affiliate_id": affiliateID,
			"onboarding":   stage,
			"updated_at":   time.Now().UTC(),
		})
	if pg.IsUniqueViolation(result.Error) {
		return affiliatedomain.ErrAlreadyRegistered
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return affiliatedomain.ErrAlreadyRegistered
	}
	return nil
}
