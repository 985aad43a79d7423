package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"cendra-go/internal/domain/access"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

var ErrMissingScope = errors.New("query without entity scope")

// InEntity restricts a query to the rows of table that belong to the scope
// entity. Every tenant query goes through it.
func InEntity(scope access.Scope, table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if scope.IsZero() {
			_ = db.AddError(ErrMissingScope)
			return db
		}
		return db.Where(table+".entity_id = ?", scope.EntityID())
	}
}

func IsUniqueViolation(err error) bool {
	return hasCode(err, uniqueViolation)
}

func IsForeignKeyViolation(err error) bool {
	return hasCode(err, foreignKeyViolation)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
