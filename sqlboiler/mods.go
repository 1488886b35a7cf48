package sqlboiler

import (
	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/aarondl/sqlboiler/v4/queries/qm"

	paging "github.com/nrfta/ladder-paging"
	"github.com/nrfta/ladder-paging/internal/sqlexpr"
)

// QueryToMods converts a paging.Query into SQLBoiler query mods.
//
// The conversion follows these rules:
//   - Predicate → one qm.Where per criterion ("col = ANY(?)" for sets)
//   - Boundary → expanded keyset comparison, one OR-branch per column:
//     (col1 < ?) OR (col1 = ? AND col2 > ?)
//   - Order → qm.OrderBy("col1 DESC, col2 ASC")
//   - Limit → qm.Limit(n)
//
// Requirements:
//   - PostgreSQL database
//   - Composite index matching the sort key: CREATE INDEX idx ON teams(rating DESC, id DESC)
func QueryToMods(q paging.Query) ([]qm.QueryMod, error) {
	mods := []qm.QueryMod{}

	for _, c := range q.Predicate {
		cond, err := sqlexpr.Criterion(c)
		if err != nil {
			return nil, err
		}
		mods = append(mods, qm.Where(cond.SQL, cond.Args...))
	}

	dnf, err := sqlexpr.Keyset(q.Boundary)
	if err != nil {
		return nil, err
	}
	if clause, args := dnf.SQL(); clause != "" {
		mods = append(mods, rawWhereClause(clause, args))
	}

	if len(q.Order) > 0 {
		orderBy, err := sqlexpr.OrderBy(q.Order)
		if err != nil {
			return nil, err
		}
		mods = append(mods, qm.OrderBy(orderBy))
	}

	if q.Limit > 0 {
		mods = append(mods, qm.Limit(q.Limit))
	}

	return mods, nil
}

// rawWhereClause creates a query mod that appends a WHERE clause and its
// arguments directly to the query.
func rawWhereClause(clause string, args []any) qm.QueryMod {
	return qm.QueryModFunc(func(q *queries.Query) {
		queries.AppendWhere(q, clause, args...)
	})
}
