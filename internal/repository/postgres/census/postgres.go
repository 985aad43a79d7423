package census

import (
	"context"
	"errors"
	"time"

	"cendra-go/internal/domain/access"
	affiliatedomain "cendra-go/internal/domain/affiliate"
	censusdomain "cendra-go/internal/domain/census"
	pg "cendra-go/internal/repository/postgres"
	"gorm.io/gorm"
)

const entryBatchSize = 200

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(censusdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

// DeleteByYear drops the census of year; its entries go with it through the
// foreign key cascade.
func (r *PostgresRepository) DeleteByYear(ctx context.Context, scope access.Scope, year int) error {
	return r.db.WithContext(ctx).
		Scopes(pg.InEntity(scope, "yearly_censuses")).
		Where("year = ?", year).
		Delete(&censusdomain.Census{}).Error
}

func (r *PostgresRepository) Create(ctx context.Context, census *censusdomain.Census) error {
	return r.db.WithContext(ctx).Create(census).Error
}

func (r *PostgresRepository) CreateEntries(ctx context.Context, entries []censusdomain.Entry) error {
	return r.db.WithContext(ctx).CreateInBatches(entries, entryBatchSize).Error
}

type memberRow struct {
	ID           int64     `gorm:"column:id"`
	JCFNumber    *int      `gorm:"column:jcf_number"`
	CensusNumber *int      `gorm:"column:census_number"`
	Surnames     string    `gorm:"column:surnames"`
	Name         string    `gorm:"column:name"`
	Address      string    `gorm:"column:address"`
	City         string    `gorm:"column:city"`
	PostalCode   string    `gorm:"column:postal_code"`
	Phone        string    `gorm:"column:phone"`
	Birthday     time.Time `gorm:"column:birthday"`
	Gender       string    `gorm:"column:gender"`
	DocumentID   string    `gorm:"column:document_id"`
	PositionName *string   `gorm:"column:position_name"`
}

// activeMembers selects the active affiliates of scope with their current
// directorate position. Deactivated affiliates never enter a census.
func activeMembers(db *gorm.DB, scope access.Scope) *gorm.DB {
	return db.Table("affiliates").
		Select("affiliates.id, affiliates.jcf_number, affiliates.census_number, affiliates.surnames, affiliates.name, " +
			"affiliates.address, affiliates.city, affiliates.postal_code, affiliates.phone, affiliates.birthday, " +
			"affiliates.gender, affiliates.document_id, directorate_positions.name AS position_name").
		Joins("left join directorates on directorates.affiliate_id = affiliates.id").
		Joins("left join directorate_positions on directorate_positions.id = directorates.position_id").
		Scopes(pg.InEntity(scope, "affiliates")).
		Where("affiliates.active = ?", true).
		Order("affiliates.census_number asc nulls last, affiliates.id asc")
}

func (r *PostgresRepository) ActiveMembers(ctx context.Context, scope access.Scope) ([]censusdomain.Member, error) {
	var rows []memberRow
	if err := activeMembers(r.db.WithContext(ctx), scope).Scan(&rows).Error; err != nil {
		return nil, err
	}

	members := make([]censusdomain.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, censusdomain.Member{
			AffiliateID:  row.ID,
			JCFNumber:    row.JCFNumber,
			CensusNumber: row.CensusNumber,
			Surnames:     row.Surnames,
			Name:         row.Name,
			Address:      row.Address,
			City:         row.City,
			PostalCode:   row.PostalCode,
			Phone:        row.Phone,
			Birthday:     row.Birthday,
			Gender:       row.Gender,
			DocumentID:   row.DocumentID,
			Position:     affiliatedomain.PositionLabel(row.PositionName),
		})
	}
	return members, nil
}

func (r *PostgresRepository) List(ctx context.Context, scope access.Scope) ([]censusdomain.Summary, error) {
	type summaryRow struct {
		ID        int64     `gorm:"column:id"`
		EntityID  int64     `gorm:"column:entity_id"`
		Year      int       `gorm:"column:year"`
		CreatedAt time.Time `gorm:"column:created_at"`
		Entries   int64     `gorm:"column:entries"`
	}

	var rows []summaryRow
	if err := r.db.WithContext(ctx).
		Table("yearly_censuses").
		Select("yearly_censuses.id, yearly_censuses.entity_id, yearly_censuses.year, yearly_censuses.created_at, count(yearly_census_entries.id) AS entries").
		Joins("left join yearly_census_entries on yearly_census_entries.census_id = yearly_censuses.id").
		Scopes(pg.InEntity(scope, "yearly_censuses")).
		Group("yearly_censuses.id").
		Order("yearly_censuses.year desc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	summaries := make([]censusdomain.Summary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, censusdomain.Summary{
			Census: censusdomain.Census{
				ID:        row.ID,
				EntityID:  row.EntityID,
				Year:      row.Year,
				CreatedAt: row.CreatedAt,
			},
			Entries: row.Entries,
		})
	}
	return summaries, nil
}

func (r *PostgresRepository) GetByYear(ctx context.Context, scope access.Scope, year int) (*censusdomain.Census, error) {
	var census censusdomain.Census
	if err := r.db.WithContext(ctx).
		Scopes(pg.InEntity(scope, "yearly_censuses")).
		Where("year = ?", year).
		First(&census).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, censusdomain.ErrCensusNotFound
		}
		return nil, err
	}
	return &census, nil
}

func (r *PostgresRepository) ListEntries(ctx context.Context, censusID int64) ([]censusdomain.Entry, error) {
	var entries []censusdomain.Entry
	if err := r.db.WithContext(ctx).
		Where("census_id = ?", censusID).
		Order("census_number asc nulls last, id asc").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
