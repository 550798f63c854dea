package domain

import "time"

// FeedPageSize is the number of items on a feed or posts page.
const FeedPageSize = 5

// PostKind discriminates the two content types of a feed.
type PostKind string

const (
	PostKindTicket PostKind = "TICKET"
	PostKindReview PostKind = "REVIEW"
)

// FeedScope selects which visibility sets a listing includes.
type FeedScope string

const (
	// FeedScopeFeed is own posts, followed users' posts and reviews on own tickets.
	FeedScopeFeed FeedScope = "feed"
	// FeedScopePosts is own posts only.
	FeedScopePosts FeedScope = "posts"
)

// FeedItem is a tagged variant: exactly one of Ticket or Review is set, matching Kind.
type FeedItem struct {
	Kind   PostKind
	Ticket *Ticket
	Review *Review
}

// TicketItem wraps a ticket.
func TicketItem(t *Ticket) FeedItem {
	return FeedItem{Kind: PostKindTicket, Ticket: t}
}

// ReviewItem wraps a review.
func ReviewItem(r *Review) FeedItem {
	return FeedItem{Kind: PostKindReview, Review: r}
}

// CreatedAt returns the shared ordering key.
func (i FeedItem) CreatedAt() time.Time {
	if i.Kind == PostKindReview {
		return i.Review.CreatedAt
	}
	return i.Ticket.CreatedAt
}

// ID returns the identifier of the wrapped entity.
func (i FeedItem) ID() int64 {
	if i.Kind == PostKindReview {
		return i.Review.ID
	}
	return i.Ticket.ID
}

// OwnerID returns the owner of the wrapped entity.
func (i FeedItem) OwnerID() int64 {
	if i.Kind == PostKindReview {
		return i.Review.OwnerID
	}
	return i.Ticket.OwnerID
}

// Before reports whether a is listed ahead of b: newer first, then reviews ahead of
// tickets, then higher id first.
func Before(a, b FeedItem) bool {
	ta, tb := a.CreatedAt(), b.CreatedAt()
	if !ta.Equal(tb) {
		return ta.After(tb)
	}
	if a.Kind != b.Kind {
		return a.Kind == PostKindReview
	}
	return a.ID() > b.ID()
}

// MergeFeed merges two streams, each ordered by Before within its kind, into one
// ordered stream.
func MergeFeed(tickets []Ticket, reviews []Review) []FeedItem {
	items := make([]FeedItem, 0, len(tickets)+len(reviews))
	i, j := 0, 0
	for i < len(tickets) && j < len(reviews) {
		t := TicketItem(&tickets[i])
		r := ReviewItem(&reviews[j])
		if Before(r, t) {
			items = append(items, r)
			j++
		} else {
			items = append(items, t)
			i++
		}
	}
	for ; i < len(tickets); i++ {
		items = append(items, TicketItem(&tickets[i]))
	}
	for ; j < len(reviews); j++ {
		items = append(items, ReviewItem(&reviews[j]))
	}
	return items
}

// Pagination describes a clamped page of a listing.
type Pagination struct {
	Page       int
	PageSize   int
	TotalPages int
	TotalItems int
}

// Paginate clamps requested into [1, last page]. An empty listing has one page.
func Paginate(requested, totalItems, pageSize int) Pagination {
	if pageSize <= 0 {
		pageSize = FeedPageSize
	}
	if totalItems < 0 {
		totalItems = 0
	}
	pages := (totalItems + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	page := requested
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	return Pagination{Page: page, PageSize: pageSize, TotalPages: pages, TotalItems: totalItems}
}

// Offset is the index of the first item on the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Window is the number of leading items of each stream needed to build the page.
func (p Pagination) Window() int {
	return p.Page * p.PageSize
}

func (p Pagination) HasPrevious() bool { return p.Page > 1 }

func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

// FeedPage is one page of merged posts.
type FeedPage struct {
	Scope      FeedScope
	Items      []FeedItem
	Pagination Pagination
	// Responded holds the ids of tickets on the page that already have a review.
	Responded map[int64]bool
}

// BuildFeedPage merges the streams and slices out the page described by p.
func BuildFeedPage(scope FeedScope, tickets []Ticket, reviews []Review, p Pagination) FeedPage {
	merged := MergeFeed(tickets, reviews)
	start := p.Offset()
	if start > len(merged) {
		start = len(merged)
	}
	end := start + p.PageSize
	if end > len(merged) {
		end = len(merged)
	}
	items := merged[start:end]

	responded := make(map[int64]bool)
	for _, item := range items {
		switch item.Kind {
		case PostKindTicket:
			if item.Ticket.Responded {
				responded[item.Ticket.ID] = true
			}
		case PostKindReview:
			responded[item.Review.TicketID] = true
			if item.Review.Ticket != nil {
				item.Review.Ticket.Responded = true
			}
		}
	}
	return FeedPage{Scope: scope, Items: items, Pagination: p, Responded: responded}
}
