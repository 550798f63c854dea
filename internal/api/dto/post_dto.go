package dto

import (
	"strings"
	"time"

	"github.com/spec-kit/litreview/internal/domain"
)

// MediaPrefix is where stored ticket images are served.
const MediaPrefix = "/media/"

// TicketResponse renders a ticket for a given viewer.
type TicketResponse struct {
	ID          int64     `json:"id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"image_url"`
	PostedBy    string    `json:"posted_by"`
	OwnedByYou  bool      `json:"owned_by_you"`
	Responded   bool      `json:"responded"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReviewResponse renders a review and the ticket it answers.
type ReviewResponse struct {
	ID         int64          `json:"id"`
	Kind       string         `json:"kind"`
	Rating     int            `json:"rating"`
	Stars      string         `json:"stars"`
	Headline   string         `json:"headline"`
	Body       string         `json:"body"`
	PostedBy   string         `json:"posted_by"`
	OwnedByYou bool           `json:"owned_by_you"`
	Ticket     TicketResponse `json:"ticket"`
	CreatedAt  time.Time      `json:"created_at"`
}

// PaginationResponse describes the page position.
type PaginationResponse struct {
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	TotalPages  int  `json:"total_pages"`
	TotalItems  int  `json:"total_items"`
	HasPrevious bool `json:"has_previous"`
	HasNext     bool `json:"has_next"`
}

// FeedPageResponse is one page of the feed or of "my posts". Items hold
// TicketResponse and ReviewResponse values, told apart by their kind field.
type FeedPageResponse struct {
	Scope      domain.FeedScope   `json:"scope"`
	Items      []any              `json:"items"`
	Pagination PaginationResponse `json:"pagination"`
	Responded  []int64            `json:"responded_ticket_ids"`
}

// PostedBy shows "you" for the viewer's own posts.
func PostedBy(ownerID int64, ownerName string, viewer *domain.User) string {
	if viewer != nil && ownerID == viewer.ID {
		return "you"
	}
	return ownerName
}

// Stars renders rating as filled then empty stars, five in total.
func Stars(rating int) string {
	if rating < domain.RatingMin {
		rating = domain.RatingMin
	}
	if rating > domain.RatingMax {
		rating = domain.RatingMax
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", domain.RatingMax-rating)
}

// NewTicketResponse converts a ticket for viewer.
func NewTicketResponse(t *domain.Ticket, viewer *domain.User) TicketResponse {
	resp := TicketResponse{
		ID:          t.ID,
		Kind:        string(domain.PostKindTicket),
		Title:       t.Title,
		Description: t.Description,
		PostedBy:    PostedBy(t.OwnerID, t.OwnerName, viewer),
		OwnedByYou:  viewer != nil && t.OwnedBy(viewer.ID),
		Responded:   t.Responded,
		CreatedAt:   t.CreatedAt,
	}
	if t.Image != nil {
		url := MediaPrefix + *t.Image
		resp.ImageURL = &url
	}
	return resp
}

// NewReviewResponse converts a review for viewer.
func NewReviewResponse(r *domain.Review, viewer *domain.User) ReviewResponse {
	resp := ReviewResponse{
		ID:         r.ID,
		Kind:       string(domain.PostKindReview),
		Rating:     r.Rating,
		Stars:      Stars(r.Rating),
		Headline:   r.Headline,
		Body:       r.Body,
		PostedBy:   PostedBy(r.OwnerID, r.OwnerName, viewer),
		OwnedByYou: viewer != nil && r.OwnedBy(viewer.ID),
		CreatedAt:  r.CreatedAt,
	}
	if r.Ticket != nil {
		resp.Ticket = NewTicketResponse(r.Ticket, viewer)
	}
	return resp
}

// NewFeedPageResponse converts a feed page for viewer.
func NewFeedPageResponse(page *domain.FeedPage, viewer *domain.User) FeedPageResponse {
	items := make([]any, 0, len(page.Items))
	for _, item := range page.Items {
		switch item.Kind {
		case domain.PostKindTicket:
			items = append(items, NewTicketResponse(item.Ticket, viewer))
		case domain.PostKindReview:
			items = append(items, NewReviewResponse(item.Review, viewer))
		}
	}

	responded := make([]int64, 0, len(page.Responded))
	for _, item := range page.Items {
		var id int64
		if item.Kind == domain.PostKindTicket {
			id = item.Ticket.ID
		} else {
			id = item.Review.TicketID
		}
		if page.Responded[id] && !containsID(responded, id) {
			responded = append(responded, id)
		}
	}

	p := page.Pagination
	return FeedPageResponse{
		Scope: page.Scope,
		Items: items,
		Pagination: PaginationResponse{
			Page:        p.Page,
			PageSize:    p.PageSize,
			TotalPages:  p.TotalPages,
			TotalItems:  p.TotalItems,
			HasPrevious: p.HasPrevious(),
			HasNext:     p.HasNext(),
		},
		Responded: responded,
	}
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
