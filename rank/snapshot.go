// Package rank assigns ladder ranks from a point-in-time population
// snapshot.
//
// Snapshots are built out of band by Build, published to Redis and loaded
// into a Store. Request handlers only read the current snapshot through
// Annotate; ranks are never computed from a live scan.
package rank

import (
	"sort"
	"time"

	"github.com/friendsofgo/errors"

	paging "github.com/nrfta/ladder-paging"
	"github.com/nrfta/ladder-paging/cursor"
)

// Entry describes how one row takes part in ranking.
type Entry struct {
	ID       int64
	Region   string
	Category string
	Excluded bool
}

// PopulationCount is the number of ranked entities per scope.
type PopulationCount struct {
	Global   int64            `json:"global"`
	Region   map[string]int64 `json:"region"`
	Category map[string]int64 `json:"category"`
}

// Position holds the 1-based ranks of one entity, globally and within its
// region and category.
type Position struct {
	Global       int64  `json:"g"`
	Region       string `json:"r,omitempty"`
	RegionRank   int64  `json:"rr,omitempty"`
	Category     string `json:"c,omitempty"`
	CategoryRank int64  `json:"cr,omitempty"`
}

// Snapshot is an immutable ranking of one sort key's population.
type Snapshot struct {
	Key        string             `json:"key"`
	BuiltAt    time.Time          `json:"built_at"`
	Population PopulationCount    `json:"population"`
	Positions  map[int64]Position `json:"positions"`
}

// Build ranks rows by key. Excluded entries are left out of the numbering
// and of the population counts, as if they did not exist.
func Build[T any](key *cursor.SortKey[T], rows []T, describe func(T) Entry) (*Snapshot, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	type ranked struct {
		entry    Entry
		position []any
	}

	candidates := make([]ranked, 0, len(rows))
	for _, row := range rows {
		e := describe(row)
		if e.Excluded {
			continue
		}
		pos, err := key.Position(row)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, ranked{entry: e, position: pos})
	}

	order := key.BaseOrder()
	var sortErr error
	sort.SliceStable(candidates, func(i, j int) bool {
		c, err := paging.CompareTuples(candidates[i].position, candidates[j].position, order)
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return c < 0
	})
	if sortErr != nil {
		return nil, errors.Wrapf(sortErr, "rank %s", key.ID())
	}

	snap := &Snapshot{
		Key:     key.ID(),
		BuiltAt: time.Now().UTC(),
		Population: PopulationCount{
			Region:   map[string]int64{},
			Category: map[string]int64{},
		},
		Positions: make(map[int64]Position, len(candidates)),
	}

	for _, c := range candidates {
		if _, dup := snap.Positions[c.entry.ID]; dup {
			return nil, errors.Errorf("rank %s: duplicate entity id %d", key.ID(), c.entry.ID)
		}

		snap.Population.Global++
		p := Position{
			Global:   snap.Population.Global,
			Region:   c.entry.Region,
			Category: c.entry.Category,
		}
		if p.Region != "" {
			snap.Population.Region[p.Region]++
			p.RegionRank = snap.Population.Region[p.Region]
		}
		if p.Category != "" {
			snap.Population.Category[p.Category]++
			p.CategoryRank = snap.Population.Category[p.Category]
		}
		snap.Positions[c.entry.ID] = p
	}

	return snap, nil
}

// Size returns the population of scope. An unknown region or category
// has no population.
func (s *Snapshot) Size(scope Scope) int64 {
	if s == nil {
		return 0
	}
	switch scope.Kind {
	case ScopeGlobal:
		return s.Population.Global
	case ScopeRegion:
		return s.Population.Region[scope.Name]
	case ScopeCategory:
		return s.Population.Category[scope.Name]
	}
	return 0
}

// Age returns how long ago the snapshot was built.
func (s *Snapshot) Age() time.Duration {
	return time.Since(s.BuiltAt)
}
