package affiliate

import (
	"fmt"

	"cendra-go/internal/domain"
)

var (
	ErrAffiliateNotFound     = fmt.Errorf("affiliate not found: %w", domain.ErrNotFound)
	ErrPaymentChoiceNotFound = fmt.Errorf("payment choice not found: %w", domain.ErrNotFound)
	ErrAlreadyRegistered     = fmt.Errorf("principal already has an affiliate: %w", domain.ErrConflict)
	ErrNoAffiliate           = fmt.Errorf("principal has no affiliate: %w", domain.ErrInvalidInput)
)
