package store

import (
	"fablelens.app/analyzer/core/db/sqlc"
)

type Stores struct {
	queries *sqlc.Queries
}

func NewStores(queries *sqlc.Queries) *Stores {
	return &Stores{queries: queries}
}

func (s *Stores) Books() BookStore {
	return newBookStore(s.queries)
}

func (s *Stores) Analyses() AnalysisStore {
	return newAnalysisStore(s.queries)
}
