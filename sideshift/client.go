package sideshift

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	secretHeader = "x-sideshift-secret"
	userIPHeader = "x-user-ip"
)

// Client talks to the swap provider's REST API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	affiliateID string
	userIP      string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithUserIP sets the caller IP sent when a request context carries none.
func WithUserIP(ip string) Option {
	return func(c *Client) { c.userIP = ip }
}

func NewClient(baseURL, apiKey, affiliateID string, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		baseURL:     baseURL,
		apiKey:      apiKey,
		affiliateID: affiliateID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type userIPKey struct{}

// ContextWithUserIP attaches the end user's IP so it is forwarded to the provider.
func ContextWithUserIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, userIPKey{}, ip)
}

func userIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(userIPKey{}).(string)
	return ip
}

// APIError is returned when the provider answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// GetCoins lists the coins the provider supports.
func (c *Client) GetCoins(ctx context.Context) ([]Coin, error) {
	coins, err := doRequest[[]Coin](ctx, c, http.MethodGet, "/coins", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get coins: %w", err)
	}
	return *coins, nil
}

// RequestQuote asks the provider for a fixed-rate quote.
func (c *Client) RequestQuote(ctx context.Context, req *QuoteRequest) (*Quote, error) {
	if req.AffiliateID == "" {
		req.AffiliateID = c.affiliateID
	}
	quote, err := doRequest[Quote](ctx, c, http.MethodPost, "/quotes", req)
	if err != nil {
		return nil, fmt.Errorf("failed to request quote: %w", err)
	}
	if quote.ID == "" {
		return nil, fmt.Errorf("empty quote response")
	}
	return quote, nil
}

// CreateShift commits a previously issued quote.
func (c *Client) CreateShift(ctx context.Context, req *ShiftRequest) (*Shift, error) {
	if req.AffiliateID == "" {
		req.AffiliateID = c.affiliateID
	}
	shift, err := doRequest[Shift](ctx, c, http.MethodPost, "/shift", req)
	if err != nil {
		return nil, fmt.Errorf("failed to create shift: %w", err)
	}
	if shift.ID == "" {
		return nil, fmt.Errorf("empty shift response")
	}
	return shift, nil
}

// GetShift looks up the current state of a shift.
func (c *Client) GetShift(ctx context.Context, id string) (*Shift, error) {
	shift, err := doRequest[Shift](ctx, c, http.MethodGet, "/shifts/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}
	return shift, nil
}

func doRequest[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(secretHeader, c.apiKey)
	}
	if ip := userIPFromContext(ctx); ip != "" {
		req.Header.Set(userIPHeader, ip)
	} else if c.userIP != "" {
		req.Header.Set(userIPHeader, c.userIP)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
		var errResp errorResponse
		if jsonErr := json.Unmarshal(respBody, &errResp); jsonErr == nil {
			switch {
			case errResp.Error != nil && errResp.Error.Message != "":
				apiErr.Message = errResp.Error.Message
			case errResp.Message != "":
				apiErr.Message = errResp.Message
			}
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return nil, apiErr
	}

	result := new(T)
	if err := json.Unmarshal(respBody, result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return result, nil
}
