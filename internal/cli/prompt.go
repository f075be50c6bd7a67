package cli

import (
	"strings"

	"github.com/charmbracelet/huh"

	apperrors "github.com/agbru/numfront/internal/errors"
	"github.com/agbru/numfront/internal/widget"
)

// huhPrompter reads the number with a single-field huh form.
type huhPrompter struct{}

func (huhPrompter) PromptNumber(title string) (string, error) {
	var value string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder("1234").
				Value(&value).
				Validate(ValidateNumber),
		),
	).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return "", err
	}
	return value, nil
}

var newPrompter = func() Prompter { return huhPrompter{} }

// ValidateNumber accepts the characters a numeric field admits. The empty
// string is valid.
func ValidateNumber(s string) error {
	if strings.IndexFunc(s, func(r rune) bool { return !widget.IsNumericRune(r) }) >= 0 {
		return apperrors.ValidationError{Field: "number", Message: "only digits, sign, decimal point and exponent are allowed"}
	}
	return nil
}

// ResolveInput returns the number from args, or prompts for it when args is
// empty.
func ResolveInput(args []string, title string) (string, error) {
	if len(args) > 0 {
		if err := ValidateNumber(args[0]); err != nil {
			return "", err
		}
		return args[0], nil
	}
	return newPrompter().PromptNumber(title)
}
