//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/2beens/fitjournal/internal/middleware"
	"github.com/2beens/fitjournal/internal/users"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
)

type testUser struct {
	ID       int
	Username string
	Password string
	Token    string
}

func (s *IntegrationTestSuite) newRequest(
	ctx context.Context,
	method, route, token string,
	body io.Reader,
	contentType string,
) *http.Request {
	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+route, body)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}
	return req
}

// do sends the request and returns the status code and body.
func (s *IntegrationTestSuite) do(req *http.Request) (int, []byte) {
	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) postForm(ctx context.Context, route, token string, values url.Values) (int, []byte) {
	req := s.newRequest(ctx, "POST", route, token, strings.NewReader(values.Encode()), "application/x-www-form-urlencoded")
	return s.do(req)
}

func (s *IntegrationTestSuite) postJSON(ctx context.Context, route, token string, v any) (int, []byte) {
	reqBytes, err := json.Marshal(v)
	require.NoError(s.T(), err)
	req := s.newRequest(ctx, "POST", route, token, strings.NewReader(string(reqBytes)), "application/json")
	return s.do(req)
}

func (s *IntegrationTestSuite) get(ctx context.Context, route, token string) (int, []byte) {
	return s.do(s.newRequest(ctx, "GET", route, token, nil, ""))
}

func (s *IntegrationTestSuite) registerUser(ctx context.Context) testUser {
	user := testUser{
		Username: fmt.Sprintf("%s%s", gofakeit.Username(), gofakeit.DigitN(4)),
		Password: gofakeit.Password(true, true, true, false, false, 12),
	}

	status, body := s.postForm(ctx, "/register", "", url.Values{
		"username":  {user.Username},
		"email":     {gofakeit.Email()},
		"password1": {user.Password},
		"password2": {user.Password},
	})
	require.Equal(s.T(), http.StatusCreated, status, string(body))

	var resp users.RegisterResponse
	require.NoError(s.T(), json.Unmarshal(body, &resp))
	require.NotEmpty(s.T(), resp.Token)

	user.ID = resp.User.User.ID
	user.Token = resp.Token
	return user
}
