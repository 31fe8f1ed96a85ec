package normalize

import (
	"fmt"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

var errUnknownVariant = fmt.Errorf("normalize: unknown record variant: %w", domain.ErrUnparseableRecord)

func unparseable(id, format string, args ...any) error {
	return fmt.Errorf("normalize: %s: %s: %w", id, fmt.Sprintf(format, args...), domain.ErrUnparseableRecord)
}
