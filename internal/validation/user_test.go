package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/accountd/internal/model"
)

func TestUserValidator_Validate(t *testing.T) {
	valid := model.User{Email: "a@x.com", Password: "pw", FirstName: "A", LastName: "B"}

	tests := []struct {
		name       string
		mutate     func(u *model.User)
		wantFields []string
	}{
		{
			name:   "valid",
			mutate: func(*model.User) {},
		},
		{
			name:       "missing email",
			mutate:     func(u *model.User) { u.Email = "" },
			wantFields: []string{"email"},
		},
		{
			name:       "malformed email",
			mutate:     func(u *model.User) { u.Email = "not-an-email" },
			wantFields: []string{"email"},
		},
		{
			name:       "whitespace password",
			mutate:     func(u *model.User) { u.Password = " \t " },
			wantFields: []string{"password"},
		},
		{
			name:   "password with surrounding spaces",
			mutate: func(u *model.User) { u.Password = " pw " },
		},
		{
			name:       "blank email",
			mutate:     func(u *model.User) { u.Email = "   " },
			wantFields: []string{"email"},
		},
		{
			name:       "blank names",
			mutate:     func(u *model.User) { u.FirstName = "   "; u.LastName = "" },
			wantFields: []string{"firstName", "lastName"},
		},
		{
			name:       "everything missing",
			mutate:     func(u *model.User) { *u = model.User{} },
			wantFields: []string{"email", "firstName", "lastName", "password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := valid
			tt.mutate(&u)

			msgs := UserValidator{}.Validate(&u)
			assert.NotNil(t, msgs)
			assert.Len(t, msgs, len(tt.wantFields))
			for i, f := range tt.wantFields {
				assert.Regexp(t, "^"+f+": ", msgs[i])
			}
		})
	}
}

func TestMessages_NonFieldError(t *testing.T) {
	assert.Equal(t, []string{"boom"}, Messages(errors.New("boom")))
	assert.Equal(t, []string{}, Messages(nil))
}
