// Package sqlexpr renders paging queries as PostgreSQL conditions for the
// SQL row sources.
//
// Conditions use "?" placeholders; the ORM in front of the database
// rewrites them for the driver.
package sqlexpr

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aarondl/strmangle"
	"github.com/friendsofgo/errors"
	"github.com/lib/pq"
	"github.com/samber/lo"

	paging "github.com/nrfta/ladder-paging"
)

var columnPattern = regexp.MustCompile(`^[A-Za-z0-9_."]+$`)

// Quote quotes a column name, part by part for qualified names.
func Quote(column string) string {
	return strmangle.IdentQuote('"', '"', column)
}

// CheckColumn rejects names that cannot be interpolated into SQL.
func CheckColumn(column string) error {
	if !columnPattern.MatchString(column) {
		return errors.Wrapf(paging.ErrInvalidArgument, "invalid column name %q", column)
	}
	return nil
}

// Conjunct is the condition "Column Op ?".
type Conjunct struct {
	Column string
	Op     string
	Value  any
}

// SQL renders the conjunct.
func (c Conjunct) SQL() (string, any) {
	return fmt.Sprintf("%s %s ?", Quote(c.Column), c.Op), c.Value
}

// Disjunct is a list of conjuncts joined by AND.
type Disjunct []Conjunct

// SQL renders the disjunct as "(A1 AND A2 ...)".
func (d Disjunct) SQL() (string, []any) {
	parts := make([]string, 0, len(d))
	args := make([]any, 0, len(d))
	for _, c := range d {
		part, arg := c.SQL()
		parts = append(parts, part)
		args = append(args, arg)
	}
	return "(" + strings.Join(parts, " AND ") + ")", args
}

// DNF is a disjunctive normal form: disjuncts joined by OR.
//
//	DNF = X1 OR X2 ... OR Xn, where Xi = Ai1 AND Ai2 ... AND Aim.
type DNF []Disjunct

// SQL renders the DNF. An empty DNF renders as the empty string.
func (d DNF) SQL() (string, []any) {
	if len(d) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(d))
	var args []any
	for _, disjunct := range d {
		part, partArgs := disjunct.SQL()
		parts = append(parts, part)
		args = append(args, partArgs...)
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// Keyset expands a boundary into its DNF. For columns (a DESC, b ASC) and
// values (1, 2):
//
//	(a < 1) OR (a = 1 AND b > 2)
//
// The expanded form stays correct for mixed directions, where a row-value
// comparison would not.
func Keyset(b *paging.Boundary) (DNF, error) {
	if b == nil {
		return nil, nil
	}
	if len(b.Columns) == 0 || len(b.Columns) != len(b.Values) {
		return nil, errors.Errorf("boundary has %d columns and %d values", len(b.Columns), len(b.Values))
	}

	dnf := make(DNF, 0, len(b.Columns))
	for i, col := range b.Columns {
		if err := CheckColumn(col.Column); err != nil {
			return nil, err
		}

		disjunct := make(Disjunct, 0, i+1)
		for j := 0; j < i; j++ {
			disjunct = append(disjunct, Conjunct{Column: b.Columns[j].Column, Op: "=", Value: b.Values[j]})
		}
		disjunct = append(disjunct, Conjunct{
			Column: col.Column,
			Op:     lo.Ternary(col.Desc, "<", ">"),
			Value:  b.Values[i],
		})
		dnf = append(dnf, disjunct)
	}

	return dnf, nil
}

// Condition is one rendered criterion.
type Condition struct {
	SQL  string
	Args []any
}

// Criterion renders one filter criterion. Set membership renders as
// "= ANY(?)" over a PostgreSQL array.
func Criterion(c paging.Criterion) (Condition, error) {
	if err := CheckColumn(c.Field); err != nil {
		return Condition{}, err
	}
	col := Quote(c.Field)

	switch c.Op {
	case paging.OpEq, paging.OpGte, paging.OpLte:
		return Condition{SQL: fmt.Sprintf("%s %s ?", col, c.Op), Args: []any{c.Value}}, nil

	case paging.OpIn:
		values, ok := c.Value.([]any)
		if !ok {
			return Condition{}, errors.Errorf("field %s: IN expects []any, got %T", c.Field, c.Value)
		}
		return Condition{SQL: col + " = ANY(?)", Args: []any{pq.Array(values)}}, nil

	case paging.OpPrefix, paging.OpContains:
		q, ok := c.Value.(string)
		if !ok {
			return Condition{}, errors.Errorf("field %s: %s expects a string, got %T", c.Field, c.Op, c.Value)
		}
		pattern := EscapeLike(q) + "%"
		if c.Op == paging.OpContains {
			pattern = "%" + pattern
		}
		return Condition{SQL: col + " LIKE ?", Args: []any{pattern}}, nil
	}

	return Condition{}, errors.Errorf("field %s: unsupported operator %q", c.Field, c.Op)
}

// OrderBy renders an ORDER BY list without the keyword.
func OrderBy(order []paging.Sort) (string, error) {
	parts := make([]string, len(order))
	for i, s := range order {
		if err := CheckColumn(s.Column); err != nil {
			return "", err
		}
		parts[i] = Quote(s.Column) + lo.Ternary(s.Desc, " DESC", " ASC")
	}
	return strings.Join(parts, ", "), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards so q matches literally.
func EscapeLike(q string) string {
	return likeEscaper.Replace(q)
}
