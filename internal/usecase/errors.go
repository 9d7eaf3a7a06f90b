package usecase

import (
	"errors"
	"fmt"

	repo "pizzeria/internal/repository"
)

// ErrNotFound is returned, wrapped with the resource and id, when a mutation
// targets something that does not exist.
var ErrNotFound = repo.ErrNotFound

func notFound(resource string, id int64) error {
	return fmt.Errorf("%s %d: %w", resource, id, ErrNotFound)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
