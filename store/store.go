// Package store is the persistence layer: one type per entity, each
// exposing only the operations the handlers actually use. Every lookup
// miss settles to ErrNotFound so handlers can pick their own rendering
// of the not-found case.
package store

import (
	"database/sql"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("not found")

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

type Store struct {
	Questionnaires Questionnaires
	Results        Results
}

func New(db *sql.DB) Store {
	return Store{
		Questionnaires: Questionnaires{db},
		Results:        Results{db},
	}
}
