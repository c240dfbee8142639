package terminology

import "context"

//go:generate mockgen -source=authority.go -destination=../mocks/terminology/mock_authority.go -package=mock_terminology

// Entity is the subset of an ICD-11 API payload the engines consume. Missing
// payload fields decode to empty strings.
type Entity struct {
	Code       string
	Title      string
	Definition string
}

// Authority is the external terminology service consulted when local data is
// insufficient. Implementations resolve a single entity by id and run a
// free-text search.
type Authority interface {
	// ResolveEntity returns nil without an error when the entity does not
	// exist or the authority answered with a non-success status.
	ResolveEntity(ctx context.Context, entityID string) (*Entity, error)
	SearchEntities(ctx context.Context, query string) ([]Entity, error)
}
