package paginate

import (
	"context"
	"iter"

	"tweetharvest/pkg/logger"
	"tweetharvest/pkg/twitter"
)

// SearchClient is the slice of the API client the paginator needs.
type SearchClient interface {
	Search(ctx context.Context, params twitter.SearchParams) ([]twitter.Tweet, error)
}

// Paginator produces lazy sequences of statuses. It owns nothing but
// the paging loop: rate limiting lives in the client and persistence
// in the sinks.
type Paginator struct {
	client SearchClient
	logger logger.Logger
}

// New creates a paginator around an API client.
func New(client SearchClient, log logger.Logger) *Paginator {
	return &Paginator{
		client: client,
		logger: log,
	}
}

// Pages returns the sequence of result pages matching params, newest
// first, down to startID. Iteration drives the fetching: a page is
// requested only once the previous one has been consumed.
//
// The first page is fetched with params as given. If it is empty the
// sequence is empty. Otherwise the cursor tracks the ID of the last
// status of each page and the next page is fetched with
// max_id = cursor - 1, for as long as cursor >= startID. An empty
// page ends the sequence.
//
// The lower bound is checked only between pages, so the final page is
// emitted whole and may contain statuses with IDs below startID.
// Callers needing a strict bound must filter.
//
// A fetch error is yielded once, with a nil page, and ends the
// sequence. The sequence is not resumable; re-invoke Pages to start
// over from the newest results.
func (p *Paginator) Pages(ctx context.Context, startID int64, params twitter.SearchParams) iter.Seq2[[]twitter.Tweet, error] {
	return func(yield func([]twitter.Tweet, error) bool) {
		page, err := p.client.Search(ctx, params)
		if err != nil {
			yield(nil, err)
			return
		}
		if len(page) == 0 {
			p.logger.InfoWithFields("Search returned no results", map[string]interface{}{
				"query": queryLabel(params),
			})
			return
		}

		cursor := page[len(page)-1].ID
		logger.LogPage(p.logger, queryLabel(params), len(page), params.MaxID, cursor)

		if !yield(page, nil) {
			return
		}

		for cursor >= startID {
			next := params
			next.MaxID = cursor - 1

			page, err = p.client.Search(ctx, next)
			if err != nil {
				yield(nil, err)
				return
			}
			if len(page) == 0 {
				p.logger.InfoWithFields("No more pages to fetch", map[string]interface{}{
					"query":  queryLabel(params),
					"cursor": cursor,
				})
				return
			}

			cursor = page[len(page)-1].ID
			logger.LogPage(p.logger, queryLabel(params), len(page), next.MaxID, cursor)

			if !yield(page, nil) {
				return
			}
		}

		p.logger.InfoWithFields("Lower bound reached", map[string]interface{}{
			"query":    queryLabel(params),
			"cursor":   cursor,
			"start_id": startID,
		})
	}
}

// Tweets flattens Pages into a sequence of single statuses with the
// same fetch-on-demand behavior. A fetch error is yielded once, with
// a zero status, and ends the sequence.
func (p *Paginator) Tweets(ctx context.Context, startID int64, params twitter.SearchParams) iter.Seq2[twitter.Tweet, error] {
	return func(yield func(twitter.Tweet, error) bool) {
		for page, err := range p.Pages(ctx, startID, params) {
			if err != nil {
				yield(twitter.Tweet{}, err)
				return
			}
			for _, tweet := range page {
				if !yield(tweet, nil) {
					return
				}
			}
		}
	}
}

// queryLabel picks the most descriptive query field for log output.
func queryLabel(params twitter.SearchParams) string {
	switch {
	case params.Query != "":
		return params.Query
	case params.RawQuery != "":
		return params.RawQuery
	default:
		return params.Geocode
	}
}
