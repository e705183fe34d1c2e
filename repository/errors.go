package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrDuplicateEmail is returned by CreateUser when the normalized email is taken.
var ErrDuplicateEmail = errors.New("email already registered")

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
