package paging

import "fmt"

// Envelope is the response shape of every paginated read endpoint.
//
// Type parameter T is the domain model type (e.g., Team, Clan, Match).
//
// Example JSON:
//
//	{
//	  "result": [...],
//	  "navigation": {"after": "eyJ2Ijox...", "before": "eyJ2Ijox..."}
//	}
type Envelope[T any] struct {
	// Result contains the page rows in base order.
	Result []T `json:"result"`

	// Navigation holds the opaque cursor tokens to continue in either
	// direction. Both are null on an empty page.
	Navigation Navigation `json:"navigation"`
}

// BuildEnvelope creates an Envelope from a page of source items.
// It handles transformation from row or entity types to response models and
// copies the page's navigation tokens.
//
// Type parameters:
//   - From: Source type (e.g., assembled team entity)
//   - To: Target type (e.g., API response model)
//
// Returns the built Envelope or an error if transformation fails.
//
// Example usage:
//
//	env, err := paging.BuildEnvelope(page, func(t *ladder.Team) (*api.Team, error) {
//	    return toAPITeam(t), nil
//	})
func BuildEnvelope[From any, To any](
	page *Page[From],
	transform func(From) (To, error),
) (*Envelope[To], error) {
	if page == nil {
		return &Envelope[To]{Result: []To{}}, nil
	}

	env := &Envelope[To]{
		Result:     make([]To, 0, len(page.Rows)),
		Navigation: page.Navigation,
	}

	for i, item := range page.Rows {
		transformed, err := transform(item)
		if err != nil {
			return nil, fmt.Errorf("transform item at index %d: %w", i, err)
		}
		env.Result = append(env.Result, transformed)
	}

	return env, nil
}

// Identity is a transform for BuildEnvelope that returns rows unchanged.
func Identity[T any](v T) (T, error) {
	return v, nil
}
