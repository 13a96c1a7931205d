// Package paginate walks the search API backward, page by page, from
// the newest matching status down to a lower-bound status ID.
//
// The v1.1 search endpoint serves results newest first and pages
// through history with max_id, the inclusive upper bound on status
// IDs. The Paginator turns that into a cursor loop: fetch a page, set
// the cursor to the ID of its last (oldest) status, and request the
// next page with max_id = cursor - 1, until the cursor passes the
// lower bound or a page comes back empty.
//
// Pages are exposed as a Go 1.23 range-over-func sequence, so fetching
// is lazy: nothing is requested until the caller ranges, and each page
// is fetched only once the previous one has been consumed.
//
//	pager := paginate.New(client, log)
//	for page, err := range pager.Pages(ctx, startID, params) {
//	    if err != nil {
//	        return err
//	    }
//	    // persist page
//	}
//
// Bound check:
//
// The lower bound is checked between pages, never inside one. The page
// the cursor bottoms out on is emitted whole, so the sequence can
// overshoot startID by at most one page of statuses. Callers that need
// a strict cutoff filter the final page themselves.
//
// Errors:
//
// The paginator retries nothing. Rate limits are absorbed inside the
// client's Search call; any error that still surfaces is yielded once,
// with a nil page, and ends the sequence.
package paginate
