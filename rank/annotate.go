package rank

import (
	"github.com/aarondl/null/v8"
	"github.com/samber/lo"

	"github.com/nrfta/ladder-paging/filter"
)

// ScopeKind selects the population a rank is counted in.
type ScopeKind int

const (
	// ScopeNone has no precomputed ranking; in-view ranks are null.
	ScopeNone ScopeKind = iota
	ScopeGlobal
	ScopeRegion
	ScopeCategory
)

// Scope is a ranked population: everything, one region or one category.
type Scope struct {
	Kind ScopeKind
	Name string
}

// Global is the scope of the whole population.
var Global = Scope{Kind: ScopeGlobal}

// Region returns the scope of one region.
func Region(name string) Scope {
	return Scope{Kind: ScopeRegion, Name: name}
}

// Category returns the scope of one category, such as a league.
func Category(name string) Scope {
	return Scope{Kind: ScopeCategory, Name: name}
}

// ScopeOf picks the scope whose ranking matches a filtered view. A view
// narrowed to exactly one region or exactly one category ranks within it.
// A view narrowed on both, or to several values of either, has no
// precomputed ranking and yields ScopeNone.
func ScopeOf(f filter.Filters, regionField, categoryField string) Scope {
	region, byRegion := single(f, regionField)
	category, byCategory := single(f, categoryField)

	switch {
	case byRegion && byCategory:
		return Scope{Kind: ScopeNone}
	case byRegion:
		if region == "" {
			return Scope{Kind: ScopeNone}
		}
		return Region(region)
	case byCategory:
		if category == "" {
			return Scope{Kind: ScopeNone}
		}
		return Category(category)
	}
	return Global
}

// single reports whether field is restricted, and to which value when it
// is restricted to exactly one string.
func single(f filter.Filters, field string) (string, bool) {
	if field == "" {
		return "", false
	}
	set, ok := f.Lookup(field)
	if !ok {
		return "", false
	}
	values := lo.Uniq(set.Values)
	if len(values) != 1 {
		return "", true
	}
	name, _ := values[0].(string)
	return name, true
}

// Ranks are the ranks of one entity. Excluded and unknown entities have
// null ranks everywhere.
type Ranks struct {
	Global   null.Int64 `json:"global"`
	Region   null.Int64 `json:"region"`
	Category null.Int64 `json:"category"`
	// InView is the rank within the scope of the current request.
	InView null.Int64 `json:"in_view"`
}

// Lookup returns the ranks of id. A nil snapshot ranks nothing.
func (s *Snapshot) Lookup(id int64, scope Scope) Ranks {
	var r Ranks
	if s == nil {
		return r
	}

	p, ok := s.Positions[id]
	if !ok {
		return r
	}

	r.Global = null.Int64From(p.Global)
	if p.RegionRank > 0 {
		r.Region = null.Int64From(p.RegionRank)
	}
	if p.CategoryRank > 0 {
		r.Category = null.Int64From(p.CategoryRank)
	}

	switch scope.Kind {
	case ScopeGlobal:
		r.InView = r.Global
	case ScopeRegion:
		// an entity that moved region since the snapshot has no rank here
		r.InView = lo.Ternary(p.Region == scope.Name, r.Region, null.Int64{})
	case ScopeCategory:
		r.InView = lo.Ternary(p.Category == scope.Name, r.Category, null.Int64{})
	}

	return r
}

// Annotate sets the ranks of every row from snap.
func Annotate[T any](snap *Snapshot, scope Scope, rows []T, id func(T) int64, apply func(T, Ranks)) {
	for _, row := range rows {
		apply(row, snap.Lookup(id(row), scope))
	}
}
