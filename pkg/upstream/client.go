package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ds-wizard/fairsharing-proxy/pkg/query"
	"github.com/ds-wizard/fairsharing-proxy/pkg/records"
)

// Config contains configuration for the upstream client.
type Config struct {
	// API is the base URL of the FAIRsharing API (required).
	API string

	// Timeout is the per-call HTTP timeout.
	Timeout time.Duration

	// MaxIdleConns is the connection pool size.
	MaxIdleConns int

	// MaxIdleConnsPerHost is the per-host connection pool size.
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long idle connections are kept.
	IdleConnTimeout time.Duration
}

// Client issues sign-in, search, and listing calls against the FAIRsharing
// API. Safe for concurrent use.
type Client struct {
	config    Config
	client    *http.Client
	signInURL string
	searchURL string
	listURL   string
	logger    *slog.Logger
}

// NewClient creates an upstream client with connection pooling and the
// configured per-call timeout.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 25 * time.Second
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 100
	}
	if cfg.MaxIdleConnsPerHost == 0 {
		cfg.MaxIdleConnsPerHost = 10
	}
	if cfg.IdleConnTimeout == 0 {
		cfg.IdleConnTimeout = 90 * time.Second
	}

	transport := &http.Transport{
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	api := strings.TrimSuffix(cfg.API, "/")

	return &Client{
		config: cfg,
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		signInURL: api + "/users/sign_in",
		searchURL: api + "/search/fairsharing_records",
		listURL:   api + "/fairsharing_records",
		logger:    slog.Default().With("component", "upstream"),
	}
}

// signInRequest is the wire shape of the sign-in endpoint.
type signInRequest struct {
	User signInUser `json:"user"`
}

type signInUser struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// searchResponse is the wire shape shared by the search and listing
// endpoints. The message field is only present on failures.
type searchResponse struct {
	Message string            `json:"message"`
	Data    []json.RawMessage `json:"data"`
	Links   responseLinks     `json:"links"`
}

type responseLinks struct {
	Next string `json:"next"`
}

// Login posts credentials to the sign-in endpoint and constructs a Token
// from the response. The upstream's success claim is coerced to false when
// the returned token value is empty.
func (c *Client) Login(ctx context.Context, username, password string) (*Token, error) {
	payload, err := json.Marshal(signInRequest{
		User: signInUser{Login: username, Password: password},
	})
	if err != nil {
		return nil, &TransportError{Op: "login", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.signInURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Op: "login", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "login", Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "login", Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{
			StatusCode:  resp.StatusCode,
			Body:        body,
			ContentType: resp.Header.Get("Content-Type"),
		}
	}

	var signIn signInResponse
	if err := json.Unmarshal(body, &signIn); err != nil {
		return nil, &TransportError{Op: "login", Cause: err}
	}

	token := newToken(&signIn)
	c.logger.Debug("login completed",
		"username", username,
		"ok", token.OK(),
		"expiry", token.Expiry,
	)
	return token, nil
}

// Search posts the query's parameter set to the search endpoint using the
// token as bearer authorization. Returns the parsed (but not yet normalized
// or validity-filtered) records in upstream order.
func (c *Client) Search(ctx context.Context, q *query.SearchQuery, token *Token) ([]*records.Record, error) {
	searchURL := c.searchURL
	if encoded := q.Encode(); encoded != "" {
		searchURL += "?" + encoded
	}

	result, err := c.call(ctx, http.MethodPost, searchURL, token, "search")
	if err != nil {
		return nil, err
	}
	return parseRecords(result.Data), nil
}

// ListPage fetches one page of the record listing endpoint. It returns the
// parsed records and the URL of the next page, or an empty next URL on the
// last page. Used by the offline cache warming job only.
func (c *Client) ListPage(ctx context.Context, pageURL string, token *Token) ([]*records.Record, string, error) {
	result, err := c.call(ctx, http.MethodGet, pageURL, token, "list")
	if err != nil {
		return nil, "", err
	}
	return parseRecords(result.Data), result.Links.Next, nil
}

// FirstListURL builds the URL of the first listing page for the given page
// size.
func (c *Client) FirstListURL(pageSize int) string {
	values := url.Values{}
	values.Set("page[number]", "1")
	values.Set("page[size]", fmt.Sprintf("%d", pageSize))
	return c.listURL + "?" + values.Encode()
}

// call performs one authorized round trip and decodes the shared response
// shape, detecting the unauthorized-via-200 signal.
func (c *Client) call(ctx context.Context, method, callURL string, token *Token, op string) (*searchResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, callURL, nil)
	if err != nil {
		return nil, &TransportError{Op: op, Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token.AuthHeader())

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Cause: err}
	}

	c.logger.Debug("upstream call completed",
		"op", op,
		"method", method,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{
			StatusCode:  resp.StatusCode,
			Body:        body,
			ContentType: resp.Header.Get("Content-Type"),
		}
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &TransportError{Op: op, Cause: err}
	}

	// The upstream reports a rejected token inside a 2xx response.
	if strings.ToLower(result.Message) == NeedLoginMessage {
		return nil, &UnauthorizedError{}
	}

	return &result, nil
}

func parseRecords(data []json.RawMessage) []*records.Record {
	recs := make([]*records.Record, 0, len(data))
	for _, item := range data {
		recs = append(recs, records.ParseRecordJSON(item))
	}
	return recs
}
