package clients

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/octabyte/prediction-portal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const authSuccessBody = `{"data":{"tokens":{"access":"acc-1","refresh":"ref-1"},"user":{"email":"ada@example.com","role":"analyst"}}}`

type capturedRequest struct {
	method      string
	path        string
	contentType string
	auth        string
	accept      string
	body        map[string]interface{}
}

// fakeService answers every request with status and body and hands the decoded
// request back on the returned channel.
func fakeService(t *testing.T, status int, body string) (*httptest.Server, <-chan capturedRequest) {
	requests := make(chan capturedRequest, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		captured := capturedRequest{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			auth:        r.Header.Get("Authorization"),
			accept:      r.Header.Get("Accept"),
		}
		if len(raw) > 0 {
			captured.body = map[string]interface{}{}
			_ = json.Unmarshal(raw, &captured.body)
		}
		requests <- captured

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, requests
}

type AuthClientTestSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *AuthClientTestSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *AuthClientTestSuite) newClient(status int, body string) (*AuthClient, <-chan capturedRequest) {
	server, requests := fakeService(s.T(), status, body)
	return NewAuthClient(Config{BaseURL: server.URL, Timeout: time.Second}), requests
}

func (s *AuthClientTestSuite) TestLoginSuccess() {
	client, requests := s.newClient(http.StatusOK, authSuccessBody)

	payload, err := client.Login(s.ctx, models.LoginRequest{Email: "ada@example.com", Password: "pw"})
	s.Require().NoError(err)

	req := <-requests
	s.Equal(http.MethodPost, req.method)
	s.Equal("/api/auth/login/", req.path)
	s.Contains(req.contentType, "application/json")
	s.Equal(map[string]interface{}{"email": "ada@example.com", "password": "pw"}, req.body)
	s.Equal(&models.AuthPayload{
		Tokens: models.Tokens{Access: "acc-1", Refresh: "ref-1"},
		User:   models.User{Email: "ada@example.com", Role: "analyst"},
	}, payload)
}

func (s *AuthClientTestSuite) TestRegisterSendsAllFields() {
	client, requests := s.newClient(http.StatusOK, authSuccessBody)

	_, err := client.Register(s.ctx, models.RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Username:  "ada",
		Password:  "pw",
	})
	s.Require().NoError(err)

	req := <-requests
	s.Equal("/api/auth/register/", req.path)
	s.Equal(map[string]interface{}{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "ada@example.com",
		"username":   "ada",
		"password":   "pw",
	}, req.body)
}

func (s *AuthClientTestSuite) TestRefresh() {
	client, requests := s.newClient(http.StatusOK, authSuccessBody)

	_, err := client.Refresh(s.ctx, "ref-1")
	s.Require().NoError(err)

	req := <-requests
	s.Equal("/api/auth/refresh/", req.path)
	s.Equal(map[string]interface{}{"refresh": "ref-1"}, req.body)
}

func (s *AuthClientTestSuite) TestMissingFieldsStayEmpty() {
	client, _ := s.newClient(http.StatusOK, `{"data":{"tokens":{"access":"acc-2"}}}`)

	payload, err := client.Login(s.ctx, models.LoginRequest{Email: "a", Password: "b"})
	s.Require().NoError(err)
	s.Equal("acc-2", payload.Tokens.Access)
	s.Empty(payload.Tokens.Refresh)
	s.Empty(payload.User.Email)
	s.Empty(payload.User.Role)
}

func (s *AuthClientTestSuite) TestNon200IsAPIError() {
	client, _ := s.newClient(http.StatusUnauthorized, `{"meta":{"message":"Invalid credentials"}}`)

	_, err := client.Login(s.ctx, models.LoginRequest{Email: "a", Password: "b"})

	var apiErr *APIError
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(http.StatusUnauthorized, apiErr.StatusCode)
	s.Equal("401: Invalid credentials", apiErr.Message)
}

func (s *AuthClientTestSuite) TestCreatedIsNotSuccess() {
	client, _ := s.newClient(http.StatusCreated, authSuccessBody)

	_, err := client.Register(s.ctx, models.RegisterRequest{Email: "a", Password: "b"})

	var apiErr *APIError
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(http.StatusCreated, apiErr.StatusCode)
}

func (s *AuthClientTestSuite) TestInvalidJSONOn200() {
	client, _ := s.newClient(http.StatusOK, "<html>oops</html>")

	_, err := client.Login(s.ctx, models.LoginRequest{Email: "a", Password: "b"})
	s.Require().Error(err)

	var apiErr *APIError
	s.False(errors.As(err, &apiErr))
}

func TestAuthClientTestSuite(t *testing.T) {
	suite.Run(t, new(AuthClientTestSuite))
}

func TestAuthClientNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client := NewAuthClient(Config{BaseURL: baseURL, Timeout: time.Second})
	_, err := client.Login(context.Background(), models.LoginRequest{Email: "a", Password: "b"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "/api/auth/login/")
}

func TestAuthClientTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := NewAuthClient(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond})
	_, err := client.Refresh(context.Background(), "ref")

	require.Error(t, err)
}
