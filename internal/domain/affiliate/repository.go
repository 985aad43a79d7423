package affiliate

import (
	"context"

	"cendra-go/internal/domain/access"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	List(ctx context.Context, scope access.Scope, filter ListFilter) ([]Record, error)
	Get(ctx context.Context, scope access.Scope, id int64) (*Record, error)
	Exists(ctx context.Context, scope access.Scope, id int64) (bool, error)
	Create(ctx context.Context, affiliate *Affiliate) error
	Update(ctx context.Context, scope access.Scope, affiliate *Affiliate) error
	SetActive(ctx context.Context, scope access.Scope, id int64, active bool) error
	SetPhoto(ctx context.Context, scope access.Scope, id int64, photo string) error
	GetPositionName(ctx context.Context, scope access.Scope, id int64) (*string, error)
	GetPaymentChoice(ctx context.Context, affiliateID int64) (*PaymentChoice, error)
	SavePaymentChoice(ctx context.Context, choice *PaymentChoice) error
	LinkPrincipal(ctx context.Context, userID, affiliateID int64, stage access.Stage) error
}

// Uploads hands out presigned URLs for client side uploads.
type Uploads interface {
	PresignUpload(ctx context.Context, key string) (string, error)
}
