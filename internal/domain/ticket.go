package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	TitleMaxLength       = 128
	DescriptionMaxLength = 2048
)

// Ticket is a request for a review of a work.
type Ticket struct {
	ID          int64
	OwnerID     int64
	OwnerName   string
	Title       string
	Description string
	Image       *string
	// Responded is true when a review references the ticket.
	Responded bool
	CreatedAt time.Time
}

// OwnedBy reports whether userID owns the ticket.
func (t *Ticket) OwnedBy(userID int64) bool {
	return t != nil && t.OwnerID == userID
}

// TicketForm is an unvalidated ticket submission.
type TicketForm struct {
	Title       string
	Description string
}

// TicketInput holds validated ticket fields.
type TicketInput struct {
	Title       string
	Description string
}

// Validate trims and checks the form fields.
func (f TicketForm) Validate() (TicketInput, FieldErrors) {
	in := TicketInput{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
	}
	errs := FieldErrors{}
	switch {
	case in.Title == "":
		errs.Add("title", "this field is required")
	case utf8.RuneCountInString(in.Title) > TitleMaxLength:
		errs.Add("title", maxLengthMessage(TitleMaxLength))
	}
	if utf8.RuneCountInString(in.Description) > DescriptionMaxLength {
		errs.Add("description", maxLengthMessage(DescriptionMaxLength))
	}
	return in, errs
}
