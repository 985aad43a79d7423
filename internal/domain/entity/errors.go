package entity

import (
	"fmt"

	"cendra-go/internal/domain"
)

var (
	ErrEntityNotFound    = fmt.Errorf("entity not found: %w", domain.ErrNotFound)
	ErrAlreadyMember     = fmt.Errorf("user already belongs to an entity: %w", domain.ErrConflict)
	ErrIncorrectPassword = fmt.Errorf("incorrect entity password: %w", domain.ErrIncorrectSecret)
)
