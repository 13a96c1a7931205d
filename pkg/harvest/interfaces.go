package harvest

import (
	"context"

	"tweetharvest/pkg/twitter"
)

// SearchClient defines the interface for the search API operations the harvester needs
type SearchClient interface {
	Search(ctx context.Context, params twitter.SearchParams) ([]twitter.Tweet, error)
}
