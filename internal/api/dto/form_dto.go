package dto

import "github.com/spec-kit/litreview/internal/domain"

// FieldSchema describes one input of a form.
type FieldSchema struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Required  bool   `json:"required"`
	MaxLength int    `json:"max_length,omitempty"`
	MinLength int    `json:"min_length,omitempty"`
	Min       *int   `json:"min,omitempty"`
	Max       *int   `json:"max,omitempty"`
}

// FormSchema is what a GET on a form route returns.
type FormSchema struct {
	Fields []FieldSchema `json:"fields"`
}

func intPtr(v int) *int { return &v }

var (
	ticketFields = []FieldSchema{
		{Name: "title", Type: "text", Required: true, MaxLength: domain.TitleMaxLength},
		{Name: "description", Type: "textarea", MaxLength: domain.DescriptionMaxLength},
		{Name: "image", Type: "file"},
	}
	reviewFields = []FieldSchema{
		{Name: "rating", Type: "radio", Required: true, Min: intPtr(domain.RatingMin), Max: intPtr(domain.RatingMax)},
		{Name: "headline", Type: "text", Required: true, MaxLength: domain.HeadlineMaxLength},
		{Name: "body", Type: "textarea", MaxLength: domain.BodyMaxLength},
	}
)

// Form schemas per route.
var (
	LoginForm = FormSchema{Fields: []FieldSchema{
		{Name: "username", Type: "text", Required: true, MaxLength: domain.UsernameMaxLength},
		{Name: "password", Type: "password", Required: true},
	}}
	SignupForm = FormSchema{Fields: []FieldSchema{
		{Name: "username", Type: "text", Required: true, MaxLength: domain.UsernameMaxLength},
		{Name: "password", Type: "password", Required: true, MinLength: domain.PasswordMinLength, MaxLength: domain.PasswordMaxLength},
		{Name: "password_check", Type: "password", Required: true},
	}}
	TicketForm       = FormSchema{Fields: ticketFields}
	TicketUpdateForm = FormSchema{Fields: append(append([]FieldSchema{}, ticketFields...), FieldSchema{Name: "image_clear", Type: "checkbox"})}
	ReviewForm       = FormSchema{Fields: reviewFields}
	StandaloneForm   = FormSchema{Fields: append(append([]FieldSchema{}, ticketFields...), reviewFields...)}
	FollowForm       = FormSchema{Fields: []FieldSchema{
		{Name: "username", Type: "text", Required: true, MaxLength: domain.UsernameMaxLength},
	}}
)

// FormError explains why a submission was rejected. Details maps field names to
// messages.
type FormError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// FormState is a rejected submission: the form again, with its errors.
type FormState struct {
	Form  FormSchema `json:"form"`
	Error FormError  `json:"error"`
}

// NewFormState builds the re-rendered form.
func NewFormState(form FormSchema, code, message string, details map[string]any) FormState {
	return FormState{Form: form, Error: FormError{Code: code, Message: message, Details: details}}
}
