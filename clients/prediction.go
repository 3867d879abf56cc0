package clients

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/octabyte/prediction-portal/models"
	"github.com/tidwall/gjson"
)

type PredictionConfig struct {
	Config
	APIVersion string
}

type PredictionClient struct {
	client  *restClient
	version string
}

func NewPredictionClient(cfg PredictionConfig) *PredictionClient {
	return &PredictionClient{
		client:  newRestClient("prediction", cfg.Config),
		version: cfg.APIVersion,
	}
}

func (p *PredictionClient) BaseURL() string {
	return p.client.http.BaseURL
}

func (p *PredictionClient) collectionPath() string {
	return fmt.Sprintf("/api/v%s/predictions/", p.version)
}

func (p *PredictionClient) request(token string) *resty.Request {
	return p.client.http.R().
		SetAuthToken(token).
		SetHeader("Accept", "application/json; version="+p.version)
}

// List returns the caller's predictions. Only `results` and `error` are read from
// the response; a bare JSON array is taken as the result list.
func (p *PredictionClient) List(ctx context.Context, token string) (*models.PredictionList, error) {
	if token == "" {
		return nil, ErrMissingAccessToken
	}

	path := p.collectionPath()
	resp, err := p.client.execute(ctx, "list", http.MethodGet, path, p.request(token))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, unexpectedStatus(resp)
	}
	if !gjson.ValidBytes(resp.Body()) {
		return nil, fmt.Errorf("failed to decode predictions: invalid JSON")
	}

	list := &models.PredictionList{}
	results := gjson.ParseBytes(resp.Body())
	if !results.IsArray() {
		if msg := results.Get("error"); isSet(msg) {
			list.Error = display(msg)
		}
		results = results.Get("results")
	}

	for _, item := range results.Array() {
		if !item.IsObject() {
			continue
		}
		prediction, err := decodePrediction([]byte(item.Raw))
		if err != nil {
			return nil, err
		}
		list.Results = append(list.Results, prediction)
	}
	return list, nil
}

func (p *PredictionClient) Get(ctx context.Context, token, id string) (models.Prediction, error) {
	if token == "" {
		return nil, ErrMissingAccessToken
	}

	path := p.collectionPath() + url.PathEscape(id) + "/"
	resp, err := p.client.execute(ctx, "get", http.MethodGet, path, p.request(token))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, unexpectedStatus(resp)
	}
	return decodePrediction(resp.Body())
}

// Create submits fields as a new prediction and returns what the service stored.
func (p *PredictionClient) Create(ctx context.Context, token string, fields map[string]interface{}) (models.Prediction, error) {
	if token == "" {
		return nil, ErrMissingAccessToken
	}

	path := p.collectionPath()
	resp, err := p.client.execute(ctx, "create", http.MethodPost, path, p.request(token).SetBody(fields))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return nil, unexpectedStatus(resp)
	}
	return decodePrediction(resp.Body())
}

func decodePrediction(body []byte) (models.Prediction, error) {
	prediction := models.Prediction{}
	if len(body) == 0 {
		return prediction, nil
	}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(&prediction); err != nil {
		return nil, fmt.Errorf("failed to decode prediction: %w", err)
	}
	return prediction, nil
}

func unexpectedStatus(resp *resty.Response) *APIError {
	return &APIError{
		StatusCode: resp.StatusCode(),
		Message:    fmt.Sprintf("API returned %d: %s", resp.StatusCode(), resp.String()),
	}
}
