// Package api is the panel's HTTP client for the admin server.
package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"matrixadmin.app/panel/internal/events"
	"matrixadmin.app/panel/internal/http/dto"
)

const sessionCookieName = "panel_session"

type APIError struct {
	Message string
	Status  int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	sessionID  int64
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetSession attaches the session the client authenticates with.
func (c *Client) SetSession(sessionID int64) {
	c.sessionID = sessionID
}

func (c *Client) Me(ctx context.Context) (*dto.UserResponse, error) {
	var resp dto.UserResponse
	if err := c.get(ctx, "/api/v1/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Membership(ctx context.Context) (*dto.MembershipResponse, error) {
	var resp dto.MembershipResponse
	if err := c.get(ctx, "/api/v1/me/membership", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) FetchCompanies(ctx context.Context, page, pageSize int32) (*dto.CompanyListResponse, error) {
	query := url.Values{}
	query.Set("page", strconv.FormatInt(int64(page), 10))
	query.Set("page_size", strconv.FormatInt(int64(pageSize), 10))

	var resp dto.CompanyListResponse
	if err := c.get(ctx, "/api/v1/companies", query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SlugAvailable(ctx context.Context, slug string) (bool, error) {
	query := url.Values{}
	query.Set("slug", slug)

	var resp dto.SlugAvailableResponse
	if err := c.get(ctx, "/api/v1/companies/slug-available", query, &resp); err != nil {
		return false, err
	}
	return resp.Available, nil
}

// CreateCompany returns the server's response for any 2xx answer, including
// one with Success false. Only transport problems and non-2xx statuses
// become errors.
func (c *Client) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest) (*dto.CreateCompanyResponse, error) {
	var resp dto.CreateCompanyResponse
	if err := c.post(ctx, "/api/v1/companies", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteCompany(ctx context.Context, id int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/v1/companies/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) SignOut(ctx context.Context) error {
	return c.post(ctx, "/auth/logout", nil, nil)
}

// StreamAuthEvents opens the server's SSE stream and decodes its events.
// The channel closes when ctx is canceled or the stream ends.
func (c *Client) StreamAuthEvents(ctx context.Context) (<-chan events.AuthEvent, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/events", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("opening event stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, c.responseError(resp)
	}

	out := make(chan events.AuthEvent)
	go func() {
		defer close(out)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			var evt events.AuthEvent
			if err := json.Unmarshal([]byte(payload), &evt); err != nil {
				continue
			}
			select {
			case out <- evt:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if query != nil {
		path = path + "?" + query.Encode()
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if c.sessionID != 0 {
		req.AddCookie(&http.Cookie{
			Name:  sessionCookieName,
			Value: strconv.FormatInt(c.sessionID, 10),
		})
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.responseError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) responseError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: resp.Status}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	}
	return apiErr
}
