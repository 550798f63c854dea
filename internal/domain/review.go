package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	RatingMin         = 0
	RatingMax         = 5
	HeadlineMaxLength = 128
	BodyMaxLength     = 8192
)

// Review is a rated response to exactly one ticket.
type Review struct {
	ID        int64
	TicketID  int64
	Ticket    *Ticket
	Rating    int
	Headline  string
	Body      string
	OwnerID   int64
	OwnerName string
	CreatedAt time.Time
}

// OwnedBy reports whether userID owns the review.
func (r *Review) OwnedBy(userID int64) bool {
	return r != nil && r.OwnerID == userID
}

// ReviewForm is an unvalidated review submission. Rating arrives as text.
type ReviewForm struct {
	Rating   string
	Headline string
	Body     string
}

// ReviewInput holds validated review fields.
type ReviewInput struct {
	Rating   int
	Headline string
	Body     string
}

// Validate parses the rating and checks the text fields.
func (f ReviewForm) Validate() (ReviewInput, FieldErrors) {
	in := ReviewInput{
		Headline: strings.TrimSpace(f.Headline),
		Body:     strings.TrimSpace(f.Body),
	}
	errs := FieldErrors{}

	raw := strings.TrimSpace(f.Rating)
	rating, err := strconv.Atoi(raw)
	switch {
	case raw == "":
		errs.Add("rating", "this field is required")
	case err != nil:
		errs.Add("rating", "enter a whole number")
	case rating < RatingMin || rating > RatingMax:
		errs.Add("rating", fmt.Sprintf("rating must be between %d and %d", RatingMin, RatingMax))
	default:
		in.Rating = rating
	}

	switch {
	case in.Headline == "":
		errs.Add("headline", "this field is required")
	case utf8.RuneCountInString(in.Headline) > HeadlineMaxLength:
		errs.Add("headline", maxLengthMessage(HeadlineMaxLength))
	}
	if utf8.RuneCountInString(in.Body) > BodyMaxLength {
		errs.Add("body", maxLengthMessage(BodyMaxLength))
	}
	return in, errs
}
