package poster

import (
	"strings"

	"github.com/metinatakli/movie-catalog/internal/domain"
)

// ValidateName accepts a bare file name: non-blank, no separators, not a dot entry.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" || name == "." || name == ".." {
		return domain.ErrInvalidPosterName
	}

	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return domain.ErrInvalidPosterName
	}

	return nil
}
