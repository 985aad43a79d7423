package news

import (
	"fmt"

	"cendra-go/internal/domain"
)

var ErrNewsNotFound = fmt.Errorf("news item not found: %w", domain.ErrNotFound)
