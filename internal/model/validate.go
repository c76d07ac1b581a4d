package model

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationError describes one invalid field of an input payload.
type ValidationError struct {
	Field       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Description)
}

// JoinErrors renders a list of validation errors on one line.
func JoinErrors(errs []ValidationError) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{6}|[0-9a-fA-F]{3})$`)

var hundred = decimal.NewFromInt(100)

// ValidateTransaction checks a payload the way the entry form does. The
// tracker itself accepts anything; callers validate first.
func ValidateTransaction(n NewTransaction) []ValidationError {
	var errs []ValidationError

	if !n.Amount.IsPositive() {
		errs = append(errs, ValidationError{Field: "amount", Description: "must be greater than zero"})
	} else if !n.Amount.Mul(hundred).Equal(n.Amount.Mul(hundred).Floor()) {
		errs = append(errs, ValidationError{Field: "amount", Description: fmt.Sprintf("%s has more than 2 decimal places", n.Amount)})
	}
	if strings.TrimSpace(n.Description) == "" {
		errs = append(errs, ValidationError{Field: "description", Description: "is required"})
	}
	if strings.TrimSpace(n.Category) == "" {
		errs = append(errs, ValidationError{Field: "category", Description: "is required"})
	}
	if !n.Type.Valid() {
		errs = append(errs, ValidationError{Field: "type", Description: fmt.Sprintf("%q is not income or expense", n.Type)})
	}
	if n.Date.IsZero() {
		errs = append(errs, ValidationError{Field: "date", Description: "is required"})
	}
	return errs
}

// ValidateCategory checks a category payload.
func ValidateCategory(n NewCategory) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(n.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Description: "is required"})
	}
	if !hexColor.MatchString(n.Color) {
		errs = append(errs, ValidationError{Field: "color", Description: fmt.Sprintf("%q is not a hex color", n.Color)})
	}
	if strings.TrimSpace(n.Icon) == "" {
		errs = append(errs, ValidationError{Field: "icon", Description: "is required"})
	}
	return errs
}
