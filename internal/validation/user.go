// Package validation checks users against field-level rules.
package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/dtroode/accountd/internal/model"
)

var _ model.Validator = UserValidator{}

type userPayload struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Validate will validate the payload
func (p userPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&p.Password, validation.Required),
		validation.Field(&p.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.LastName, validation.Required, validation.Length(1, 200)),
	)
}

// UserValidator requires an email, password and both names, none of them
// blank.
type UserValidator struct{}

func NewUserValidator() UserValidator {
	return UserValidator{}
}

// Validate returns one "field: message" entry per violation, sorted by field.
// A valid user yields an empty, non-nil slice.
func (UserValidator) Validate(user *model.User) []string {
	p := userPayload{
		Email:     strings.TrimSpace(user.Email),
		Password:  strings.TrimSpace(user.Password),
		FirstName: strings.TrimSpace(user.FirstName),
		LastName:  strings.TrimSpace(user.LastName),
	}
	return Messages(p.Validate())
}

// Messages flattens an ozzo-validation error into sorted messages.
func Messages(err error) []string {
	if err == nil {
		return []string{}
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	fields := make([]string, 0, len(fieldErrs))
	for f := range fieldErrs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f, fieldErrs[f].Error()))
	}
	return msgs
}
