package adapter

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError is a non-2xx answer from the Bot API.
type APIError struct {
	StatusCode  int
	Description string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("telegram api: http %d: %s", e.StatusCode, e.Description)
	}
	return fmt.Sprintf("telegram api: http %d", e.StatusCode)
}

// statusTransport turns every non-2xx response into an *APIError.
// telebot alone accepts a 5xx whose body is not JSON (e.g. a proxy error page)
// as success.
type statusTransport struct {
	base http.RoundTripper
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &statusTransport{base: http.DefaultTransport},
	}
}

func (t *statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 == 2 {
		return resp, nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var out struct {
		OK          bool   `json:"ok"`
		ErrorCode   int    `json:"error_code"`
		Description string `json:"description"`
	}
	if json.Unmarshal(body, &out) == nil && out.Description != "" {
		apiErr.Description = out.Description
	} else {
		apiErr.Description = strings.TrimSpace(string(body))
		if len(apiErr.Description) > 200 {
			apiErr.Description = apiErr.Description[:200]
		}
	}
	return nil, apiErr
}
