package domain

import "fmt"

// FieldErrors maps a form field to its first validation message.
type FieldErrors map[string]string

// Add records msg for field unless one is already present.
func (e FieldErrors) Add(field, msg string) {
	if _, exists := e[field]; !exists {
		e[field] = msg
	}
}

// Empty reports whether no field failed.
func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

// Details converts the errors to a generic details map.
func (e FieldErrors) Details() map[string]any {
	details := make(map[string]any, len(e))
	for field, msg := range e {
		details[field] = msg
	}
	return details
}

func maxLengthMessage(n int) string {
	return fmt.Sprintf("ensure this value has at most %d characters", n)
}
