package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoginCredentials_EmailVariant(t *testing.T) {
	c := EmailCredentials("a@b.com", "secret")

	email, ok := c.Email()
	require.True(t, ok)
	require.Equal(t, "a@b.com", email)

	_, ok = c.Phone()
	require.False(t, ok)

	require.Equal(t, "secret", c.Password())
	require.False(t, c.IsZero())
}

func TestLoginCredentials_PhoneVariant(t *testing.T) {
	c := PhoneCredentials("+221770000000", "secret")

	phone, ok := c.Phone()
	require.True(t, ok)
	require.Equal(t, "+221770000000", phone)

	_, ok = c.Email()
	require.False(t, ok)
}

func TestLoginCredentials_ZeroValueIsInvalid(t *testing.T) {
	var c LoginCredentials
	require.True(t, c.IsZero())

	_, ok := c.Email()
	require.False(t, ok)
	_, ok = c.Phone()
	require.False(t, ok)
}

func TestUser_CloneIsDeep(t *testing.T) {
	u := &User{
		ID:      "u1",
		Email:   "a@b.com",
		Profile: map[string]any{"agence": "Dakar"},
	}

	c := u.Clone()
	require.Equal(t, u, c)

	c.Profile["agence"] = "Thiès"
	require.Equal(t, "Dakar", u.Profile["agence"])

	var nilUser *User
	require.Nil(t, nilUser.Clone())
}
