// Package source provides the two data-source variants behind the query
// composer: the PostgreSQL primary store and the in-memory fallback dataset.
// Both honor identical filter, sort, and pagination semantics.
package source

import (
	"context"

	"github.com/advocate-directory/search-service/internal/advocate"
	"github.com/advocate-directory/search-service/internal/search/params"
)

// Source returns the page of advocates matching the validated parameters and
// the total number of matching rows before pagination. A failure is signaled
// as an error, never as a partial result.
type Source interface {
	Search(ctx context.Context, p *params.Params) (rows []advocate.Advocate, total int, err error)
}
