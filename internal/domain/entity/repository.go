package entity

import (
	"context"

	"cendra-go/internal/domain/access"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	ListPublic(ctx context.Context, filter PublicFilter) ([]PublicEntity, error)
	GetByID(ctx context.Context, id int64) (*Entity, error)
	Get(ctx context.Context, scope access.Scope) (*Entity, error)
	Create(ctx context.Context, entity *Entity) error
	Update(ctx context.Context, scope access.Scope, entity *Entity) error
	SetLogo(ctx context.Context, scope access.Scope, logo string) error
	// AttachUser links a user without entity to entityID. It returns
	// ErrAlreadyMember when the user got an entity in the meantime.
	AttachUser(ctx context.Context, userID, entityID int64, admin bool, stage access.Stage) error
}

type SecretHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, hash string) (bool, error)
}

type Uploads interface {
	PresignUpload(ctx context.Context, key string) (string, error)
}
