package census

import (
	"fmt"

	"cendra-go/internal/domain"
)

var ErrCensusNotFound = fmt.Errorf("census not found: %w", domain.ErrNotFound)
