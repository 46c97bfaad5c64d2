package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ServiceEndpoint calls the Service in process on behalf of one owner.
type ServiceEndpoint struct {
	Service *Service
	OwnerID string
}

func (e ServiceEndpoint) Translate(ctx context.Context, req Request) (*Response, error) {
	return e.Service.TranslateAndSave(ctx, e.OwnerID, req)
}

// HTTPEndpoint posts each pair to a running server's batch route.
type HTTPEndpoint struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

const batchPath = "/api/translation/batch"

func NewHTTPEndpoint(baseURL, token string) *HTTPEndpoint {
	return &HTTPEndpoint{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Client:  &http.Client{Timeout: 2 * time.Minute},
	}
}

// StatusError is a non-2xx answer from the batch route.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("translation endpoint returned %d: %s", e.StatusCode, e.Message)
}

func (e *HTTPEndpoint) Translate(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL+batchPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if e.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+e.Token)
	}
	resp, err := e.Client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
			msg = payload.Error
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: msg}
	}
	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding translation response: %w", err)
	}
	return &out, nil
}
