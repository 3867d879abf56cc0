package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/octabyte/prediction-portal/models"
	"github.com/tidwall/gjson"
)

const (
	loginPath    = "/api/auth/login/"
	registerPath = "/api/auth/register/"
	refreshPath  = "/api/auth/refresh/"
)

type AuthClient struct {
	client *restClient
}

func NewAuthClient(cfg Config) *AuthClient {
	return &AuthClient{client: newRestClient("auth", cfg)}
}

func (a *AuthClient) BaseURL() string {
	return a.client.http.BaseURL
}

func (a *AuthClient) Login(ctx context.Context, req models.LoginRequest) (*models.AuthPayload, error) {
	return a.authenticate(ctx, "login", loginPath, req)
}

func (a *AuthClient) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthPayload, error) {
	return a.authenticate(ctx, "register", registerPath, req)
}

func (a *AuthClient) Refresh(ctx context.Context, refreshToken string) (*models.AuthPayload, error) {
	return a.authenticate(ctx, "refresh", refreshPath, models.RefreshRequest{Refresh: refreshToken})
}

// authenticate posts body as JSON and reads the `data` member of a 200 response.
// Any other status comes back as *APIError.
func (a *AuthClient) authenticate(ctx context.Context, operation, path string, body interface{}) (*models.AuthPayload, error) {
	resp, err := a.client.execute(ctx, operation, http.MethodPost, path, a.client.http.R().SetBody(body))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode(),
			Message:    ExtractError(resp.StatusCode(), resp.Body()),
		}
	}

	if !gjson.ValidBytes(resp.Body()) {
		return nil, fmt.Errorf("auth service returned an invalid %s response", operation)
	}

	data := gjson.GetBytes(resp.Body(), "data")
	return &models.AuthPayload{
		Tokens: models.Tokens{
			Access:  data.Get("tokens.access").String(),
			Refresh: data.Get("tokens.refresh").String(),
		},
		User: models.User{
			Email: data.Get("user.email").String(),
			Role:  data.Get("user.role").String(),
		},
	}, nil
}
