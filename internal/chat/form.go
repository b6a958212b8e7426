package chat

import (
	"errors"
	"fmt"
	"strings"
)

// Registration form validation errors.
var (
	ErrFormMissingName        = errors.New("tool name is required")
	ErrFormMissingDescription = errors.New("tool description is required")
	ErrFormMissingCommand     = errors.New("tool command is required")
)

// RegistrationForm is the structured tool-registration input opened by
// a registration detour. Name is pre-filled from the detected intent.
type RegistrationForm struct {
	Name           string
	Description    string
	Command        string
	Category       string
	ExpectedOutput string
}

// Validate checks the required fields.
func (f RegistrationForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrFormMissingName
	}
	if strings.TrimSpace(f.Description) == "" {
		return ErrFormMissingDescription
	}
	if strings.TrimSpace(f.Command) == "" {
		return ErrFormMissingCommand
	}
	return nil
}

// Synthesize renders the form as a single natural-language message.
// The assistant parses this shape on the backend, so the wording is
// contract, not cosmetics.
func (f RegistrationForm) Synthesize() string {
	return fmt.Sprintf(
		"Add a new tool called %s. It's a %s. The command to run it is: %s. It belongs to the %s category. The expected output is: %s.",
		f.Name, f.Description, f.Command, f.Category, f.ExpectedOutput,
	)
}
