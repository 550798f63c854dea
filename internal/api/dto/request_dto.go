package dto

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spec-kit/litreview/internal/domain"
)

// FormValue is a form field that JSON clients may send as a string, number, bool or
// null. Form-encoded bodies bind it as plain text.
type FormValue string

// UnmarshalJSON accepts any JSON scalar.
func (v *FormValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch val := raw.(type) {
	case nil:
		*v = ""
	case string:
		*v = FormValue(val)
	case float64:
		*v = FormValue(strconv.FormatFloat(val, 'f', -1, 64))
	case bool:
		*v = FormValue(strconv.FormatBool(val))
	default:
		return fmt.Errorf("expected a single value, got %s", data)
	}
	return nil
}

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// SignupRequest payload.
type SignupRequest struct {
	Username      string `json:"username" form:"username"`
	Password      string `json:"password" form:"password"`
	PasswordCheck string `json:"password_check" form:"password_check"`
}

// Form converts the payload for the auth service.
func (r SignupRequest) Form() domain.SignupForm {
	return domain.SignupForm{Username: r.Username, Password: r.Password, PasswordCheck: r.PasswordCheck}
}

// TicketRequest payload for ticket create and edit. The image travels as the
// multipart file "image"; ImageClear drops the current one on edit.
type TicketRequest struct {
	Title       string    `json:"title" form:"title"`
	Description string    `json:"description" form:"description"`
	ImageClear  FormValue `json:"image_clear" form:"image_clear"`
}

// Form converts the payload for the ticket service.
func (r TicketRequest) Form() domain.TicketForm {
	return domain.TicketForm{Title: r.Title, Description: r.Description}
}

// ReviewRequest payload for responses and review edits.
type ReviewRequest struct {
	Rating   FormValue `json:"rating" form:"rating"`
	Headline string    `json:"headline" form:"headline"`
	Body     string    `json:"body" form:"body"`
}

// Form converts the payload for the review service.
func (r ReviewRequest) Form() domain.ReviewForm {
	return domain.ReviewForm{Rating: string(r.Rating), Headline: r.Headline, Body: r.Body}
}

// StandaloneReviewRequest creates a ticket and its review in one submission.
type StandaloneReviewRequest struct {
	Title       string    `json:"title" form:"title"`
	Description string    `json:"description" form:"description"`
	Rating      FormValue `json:"rating" form:"rating"`
	Headline    string    `json:"headline" form:"headline"`
	Body        string    `json:"body" form:"body"`
}

// TicketForm returns the ticket half of the submission.
func (r StandaloneReviewRequest) TicketForm() domain.TicketForm {
	return domain.TicketForm{Title: r.Title, Description: r.Description}
}

// ReviewForm returns the review half of the submission.
func (r StandaloneReviewRequest) ReviewForm() domain.ReviewForm {
	return domain.ReviewForm{Rating: string(r.Rating), Headline: r.Headline, Body: r.Body}
}

// FollowRequest payload.
type FollowRequest struct {
	Username string `json:"username" form:"username"`
}
