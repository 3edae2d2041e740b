package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_ViewOmitsSecrets(t *testing.T) {
	now := time.Now().UTC()
	u := &User{
		ID:        uuid.New(),
		Email:     "a@x.com",
		Password:  "hashed",
		Salt:      "salt",
		Roles:     []string{"USER"},
		FirstName: "A",
		LastName:  "B",
		Version:   3,
		CreatedAt: now,
		UpdatedAt: now,
	}

	raw, err := json.Marshal(u.View())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, u.ID.String(), decoded["id"])
	assert.Equal(t, "a@x.com", decoded["email"])
	assert.Equal(t, "A", decoded["firstName"])
	assert.Equal(t, "B", decoded["lastName"])
	assert.EqualValues(t, 3, decoded["version"])
	assert.NotContains(t, decoded, "password")
	assert.NotContains(t, decoded, "salt")
	assert.NotContains(t, decoded, "roles")
}

func TestUser_Clone(t *testing.T) {
	deletedAt := time.Now()
	u := &User{ID: uuid.New(), Roles: []string{"USER"}, DeletedAt: &deletedAt}

	c := u.Clone()
	c.Roles[0] = "ADMIN"
	*c.DeletedAt = deletedAt.Add(time.Hour)

	assert.Equal(t, "USER", u.Roles[0])
	assert.Equal(t, deletedAt, *u.DeletedAt)
	assert.Equal(t, u.ID, c.ID)
}

func TestNewUser(t *testing.T) {
	u := NewUser()
	assert.True(t, u.IsNew())
	assert.NotNil(t, u.Roles)
	assert.Empty(t, u.Roles)
}
