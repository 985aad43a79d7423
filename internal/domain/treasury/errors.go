package treasury

import (
	"fmt"

	"cendra-go/internal/domain"
)

var ErrAccountNotFound = fmt.Errorf("bank account not found: %w", domain.ErrNotFound)
