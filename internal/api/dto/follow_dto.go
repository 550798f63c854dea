package dto

import (
	"time"

	"github.com/spec-kit/litreview/internal/domain"
)

// FollowResponse is one row of the follows page.
type FollowResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// FlashMessage is shown on the follows page after a follow attempt.
type FlashMessage struct {
	Level string `json:"level"`
	Code  string `json:"code,omitempty"`
	Text  string `json:"text"`
}

// FollowsPageResponse lists who the user follows and who follows them, with the
// inline follow form.
type FollowsPageResponse struct {
	Following []FollowResponse `json:"following"`
	Followers []FollowResponse `json:"followers"`
	Form      FormSchema       `json:"form"`
	Message   *FlashMessage    `json:"message,omitempty"`
}

// NewFollowsPageResponse converts both lists. Following rows name the followed user
// and follower rows name the follower.
func NewFollowsPageResponse(following, followers []domain.Follow, message *FlashMessage) FollowsPageResponse {
	resp := FollowsPageResponse{
		Following: make([]FollowResponse, 0, len(following)),
		Followers: make([]FollowResponse, 0, len(followers)),
		Form:      FollowForm,
		Message:   message,
	}
	for _, f := range following {
		resp.Following = append(resp.Following, FollowResponse{ID: f.ID, Username: f.FollowedName, CreatedAt: f.CreatedAt})
	}
	for _, f := range followers {
		resp.Followers = append(resp.Followers, FollowResponse{ID: f.ID, Username: f.FollowerName, CreatedAt: f.CreatedAt})
	}
	return resp
}
