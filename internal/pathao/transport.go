package pathao

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// response is the outcome of a single HTTP exchange with Pathao.
// JSON reports whether Raw parsed as a JSON document.
type response struct {
	StatusCode int
	Raw        []byte
	JSON       bool
}

// send issues one JSON request. A non-JSON body is not an error here;
// callers inspect response.JSON and decide.
func (c *Client) send(ctx context.Context, method, endpoint string, body any, accessToken string) (*response, error) {
	req := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	
	if accessToken != "" {
		req.SetHeader("Authorization", "Bearer "+accessToken)
	}
	
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal pathao request body: %w", err)
		}
		req.SetHeader("Content-Length", strconv.Itoa(len(payload)))
		req.SetBody(payload)
	}
	
	resp, err := req.Execute(method, c.config.BaseURL+endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to pathao %s: %w", endpoint, err)
	}
	
	raw := resp.Bytes()
	return &response{
		StatusCode: resp.StatusCode(),
		Raw:        raw,
		JSON:       json.Valid(raw),
	}, nil
}

// request authenticates and then issues the call. Any status >= 400 becomes an *APIError.
func (c *Client) request(ctx context.Context, method, endpoint string, body any) (*response, error) {
	accessToken, err := c.Authenticate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with pathao: %w", err)
	}
	if accessToken == "" {
		return nil, ErrEmptyToken
	}
	
	resp, err := c.send(ctx, method, endpoint, body, accessToken)
	if err != nil {
		return nil, err
	}
	
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(resp.Raw),
		}
	}
	
	return resp, nil
}

// Request sends an authenticated JSON request to endpoint (a path under the base URL)
// and decodes the response body into out when out is not nil.
func (c *Client) Request(ctx context.Context, method, endpoint string, body, out any) error {
	resp, err := c.request(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	
	if out == nil {
		return nil
	}
	
	return resp.decode(endpoint, out)
}

func (r *response) decode(endpoint string, out any) error {
	if !r.JSON {
		return &MalformedResponseError{
			Endpoint:   endpoint,
			StatusCode: r.StatusCode,
			Raw:        string(r.Raw),
		}
	}
	
	if err := json.Unmarshal(r.Raw, out); err != nil {
		return fmt.Errorf("failed to parse pathao response from %s: %w", endpoint, err)
	}
	
	return nil
}
