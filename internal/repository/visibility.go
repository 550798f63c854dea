package repository

import (
	"strings"

	"github.com/spec-kit/litreview/internal/domain"
)

// VisibilityFilter selects the posts a viewer may see. The viewer's own posts are
// always included.
type VisibilityFilter struct {
	ViewerID int64
	// IncludeFollowed adds posts by users the viewer follows.
	IncludeFollowed bool
	// IncludeResponses adds reviews on tickets the viewer owns. Tickets ignore it.
	IncludeResponses bool
}

// FilterForScope maps a feed scope to its visibility filter.
func FilterForScope(scope domain.FeedScope, viewerID int64) VisibilityFilter {
	if scope == domain.FeedScopePosts {
		return VisibilityFilter{ViewerID: viewerID}
	}
	return VisibilityFilter{ViewerID: viewerID, IncludeFollowed: true, IncludeResponses: true}
}

// clause renders the filter as one disjunction over $1, so a row matching several
// sets is still returned once.
func (f VisibilityFilter) clause(ownerCol, ticketOwnerCol string) (string, []any) {
	conds := []string{ownerCol + " = $1"}
	if f.IncludeFollowed {
		conds = append(conds, ownerCol+" IN (SELECT followed_id FROM follows WHERE follower_id = $1)")
	}
	if f.IncludeResponses && ticketOwnerCol != "" {
		conds = append(conds, ticketOwnerCol+" = $1")
	}
	return "(" + strings.Join(conds, " OR ") + ")", []any{f.ViewerID}
}
