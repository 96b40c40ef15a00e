//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/2beens/fitjournal/internal/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestRegisterLoginLogout() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	user := s.registerUser(ctx)

	// registration logs the user in
	status, body := s.get(ctx, "/profile", user.Token)
	require.Equal(t, http.StatusOK, status)
	var me users.UserProfile
	require.NoError(t, json.Unmarshal(body, &me))
	assert.Equal(t, user.Username, me.User.Username)
	assert.Equal(t, "default.jpg", me.Profile.Avatar)

	var avatar string
	require.NoError(t, s.DB.QueryRowContext(ctx,
		`SELECT avatar FROM profile WHERE user_id = $1`, user.ID,
	).Scan(&avatar))
	assert.Equal(t, "default.jpg", avatar)

	// same username again
	status, body = s.postForm(ctx, "/register", "", url.Values{
		"username":  {user.Username},
		"email":     {"other@example.com"},
		"password1": {user.Password},
		"password2": {user.Password},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "username")

	status, body = s.postJSON(ctx, "/login", "", users.LoginRequest{Username: user.Username, Password: "nope-nope"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "wrong credentials\n", string(body))

	status, body = s.postJSON(ctx, "/login", "", users.LoginRequest{Username: user.Username, Password: user.Password})
	require.Equal(t, http.StatusOK, status)
	var tokenResp users.TokenResponse
	require.NoError(t, json.Unmarshal(body, &tokenResp))
	require.NotEmpty(t, tokenResp.Token)

	status, _ = s.get(ctx, "/logout", tokenResp.Token)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.get(ctx, "/profile", tokenResp.Token)
	assert.Equal(t, http.StatusUnauthorized, status)

	// the registration session is independent
	status, _ = s.get(ctx, "/profile", user.Token)
	assert.Equal(t, http.StatusOK, status)
}

func (s *IntegrationTestSuite) TestEditProfile() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	user := s.registerUser(ctx)

	status, body := s.postForm(ctx, "/profile/edit", user.Token, url.Values{
		"first_name": {"Ana"},
		"last_name":  {"Lima"},
		"email":      {"ana@example.com"},
	})
	require.Equal(t, http.StatusOK, status, string(body))

	var firstName, email string
	require.NoError(t, s.DB.QueryRowContext(ctx,
		`SELECT first_name, email FROM app_user WHERE id = $1`, user.ID,
	).Scan(&firstName, &email))
	assert.Equal(t, "Ana", firstName)
	assert.Equal(t, "ana@example.com", email)
}
