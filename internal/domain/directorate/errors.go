package directorate

import (
	"fmt"

	"cendra-go/internal/domain"
)

var (
	ErrPositionNotFound        = fmt.Errorf("position not found: %w", domain.ErrNotFound)
	ErrDirectorateNotFound     = fmt.Errorf("directorate not found: %w", domain.ErrNotFound)
	ErrAffiliateNotFound       = fmt.Errorf("affiliate not found: %w", domain.ErrNotFound)
	ErrPositionInUse           = fmt.Errorf("position is assigned to a directorate: %w", domain.ErrConflict)
	ErrAffiliateHasDirectorate = fmt.Errorf("affiliate already holds a directorate: %w", domain.ErrConflict)
)
