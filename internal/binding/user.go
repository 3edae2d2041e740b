// Package binding copies untrusted request fields into domain entities.
package binding

import (
	"encoding/json"
	"fmt"
	"strings"

	apiErrors "github.com/dtroode/accountd/internal/apierrors"
	"github.com/dtroode/accountd/internal/model"
)

var _ model.Deserializer = JSONDeserializer{}

// userFields lists the fields a client may set. Anything else in the input,
// including id, version and timestamps, is ignored.
type userFields struct {
	Email     *string   `json:"email"`
	Password  *string   `json:"password"`
	FirstName *string   `json:"firstName"`
	LastName  *string   `json:"lastName"`
	Roles     *[]string `json:"roles"`
}

// JSONDeserializer decodes a field map with JSON typing rules.
type JSONDeserializer struct{}

func NewJSONDeserializer() JSONDeserializer {
	return JSONDeserializer{}
}

// Deserialize overwrites only the fields present in data. Email and names are
// stored trimmed; the password is kept as sent. A field of the wrong type
// fails with InvalidArgument and leaves target untouched.
func (JSONDeserializer) Deserialize(target *model.User, data map[string]any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return apiErrors.NewErrInvalidArgument(fmt.Sprintf("Unable to read user data: %v", err))
	}

	var f userFields
	if err := json.Unmarshal(raw, &f); err != nil {
		return apiErrors.NewErrInvalidArgument(fieldError(err))
	}

	if f.Email != nil {
		target.Email = strings.TrimSpace(*f.Email)
	}
	if f.Password != nil {
		target.Password = *f.Password
	}
	if f.FirstName != nil {
		target.FirstName = strings.TrimSpace(*f.FirstName)
	}
	if f.LastName != nil {
		target.LastName = strings.TrimSpace(*f.LastName)
	}
	if f.Roles != nil {
		target.Roles = append([]string{}, (*f.Roles)...)
	}
	return nil
}

func fieldError(err error) string {
	if typeErr, ok := err.(*json.UnmarshalTypeError); ok && typeErr.Field != "" {
		return fmt.Sprintf("Invalid value for %q: expected %s", typeErr.Field, typeErr.Type.String())
	}
	return fmt.Sprintf("Unable to read user data: %v", err)
}
