package proxy

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ds-wizard/fairsharing-proxy/pkg/query"
	"github.com/ds-wizard/fairsharing-proxy/pkg/records"
	"github.com/ds-wizard/fairsharing-proxy/pkg/telemetry/metrics"
	"github.com/ds-wizard/fairsharing-proxy/pkg/upstream"
)

// maxUnauthorizedRetries bounds how often a search is retried with a fresh
// login after the upstream rejects a token. One retry covers the expired or
// revoked cached token; a second rejection means fresh tokens do not work
// either and retrying cannot help.
const maxUnauthorizedRetries = 1

// UpstreamClient is the part of the upstream API the core needs.
type UpstreamClient interface {
	Login(ctx context.Context, username, password string) (*upstream.Token, error)
	Search(ctx context.Context, q *query.SearchQuery, token *upstream.Token) ([]*records.Record, error)
}

// Core orchestrates proxied searches: credential decoding, token caching,
// the upstream exchange, and record post-processing. Safe for concurrent use.
type Core struct {
	client    UpstreamClient
	tokens    *TokenStore
	collector *metrics.Collector
}

// New creates a core around the given upstream client. The collector may be
// nil, in which case no metrics are recorded.
func New(client UpstreamClient, collector *metrics.Collector) *Core {
	return &Core{
		client:    client,
		tokens:    NewTokenStore(),
		collector: collector,
	}
}

// Search serves the canonical search endpoint. Credentials come from the
// Authorization header. For GET requests the query is read from the URL
// parameters, otherwise from the JSON body.
func (c *Core) Search(ctx context.Context, headers http.Header, params url.Values, body []byte, isGET bool) *Response {
	username, password, err := decodeCredentials(headers.Get("Authorization"))
	if err != nil {
		return c.errorResponse(ctx, err)
	}

	var q *query.SearchQuery
	if isGET {
		q = query.FromParams(params)
	} else {
		q = query.FromJSON(body)
	}

	set, err := c.runSearch(ctx, username, password, q)
	if err != nil {
		return c.errorResponse(ctx, err)
	}
	return &Response{Status: http.StatusOK, Body: set.ToResponse()}
}

// LegacySearch serves the v0.3 compatibility endpoint. Credentials come from
// the Api-Key header and the legacy parameter names are rectified to the
// current ones before searching.
func (c *Core) LegacySearch(ctx context.Context, headers http.Header, params url.Values) *Response {
	username, password, err := decodeCredentials(headers.Get("Api-Key"))
	if err != nil {
		return c.errorResponse(ctx, err)
	}

	q := query.LegacyFromParams(params).ToQuery()

	set, err := c.runSearch(ctx, username, password, q)
	if err != nil {
		return c.errorResponse(ctx, err)
	}
	return &Response{Status: http.StatusOK, Body: set.ToLegacyResponse()}
}

// runSearch performs the authenticated upstream search, retrying once with a
// forced fresh login when the upstream rejects the token.
func (c *Core) runSearch(ctx context.Context, username, password string, q *query.SearchQuery) (*records.RecordSet, error) {
	force := false
	for attempt := 0; ; attempt++ {
		token, err := c.obtainToken(ctx, username, password, force)
		if err != nil {
			return nil, err
		}

		searchStart := time.Now()
		recs, err := c.client.Search(ctx, q, token)
		if c.collector != nil {
			outcome := "success"
			if err != nil {
				outcome = "error"
			}
			c.collector.RecordUpstreamCall("search", outcome, time.Since(searchStart))
		}
		if err != nil {
			var unauthorized *upstream.UnauthorizedError
			if errors.As(err, &unauthorized) {
				// A rejected token must never be served to a later
				// request, even when this search gives up.
				c.tokens.Clear(username)
				if attempt < maxUnauthorizedRetries {
					slog.DebugContext(ctx, "cached token rejected, retrying with fresh login",
						"username", username)
					if c.collector != nil {
						c.collector.RecordUnauthorizedRetry()
					}
					force = true
					continue
				}
			}
			return nil, err
		}

		return records.NewRecordSet(recs), nil
	}
}

// obtainToken returns a usable token for the username, logging in when the
// cache has none or when force is set.
func (c *Core) obtainToken(ctx context.Context, username, password string, force bool) (*upstream.Token, error) {
	if !force {
		if token, ok := c.tokens.Get(username); ok && !token.ShouldRefresh() {
			if c.collector != nil {
				c.collector.RecordTokenLookup(true)
			}
			return token, nil
		}
		if c.collector != nil {
			c.collector.RecordTokenLookup(false)
		}
	}

	loginStart := time.Now()
	token, err := c.client.Login(ctx, username, password)
	if c.collector != nil {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		c.collector.RecordUpstreamCall("login", outcome, time.Since(loginStart))
	}
	if err != nil {
		if c.collector != nil {
			c.collector.RecordLogin("error")
		}
		return nil, &LoginError{Cause: err}
	}
	if !token.OK() {
		if c.collector != nil {
			c.collector.RecordLogin("rejected")
		}
		return nil, &AuthenticationError{Message: token.Message}
	}

	if c.collector != nil {
		c.collector.RecordLogin("success")
	}
	c.tokens.Store(token)
	return token, nil
}

// decodeCredentials extracts the username and password from an auth header
// value: an optional Basic or Bearer prefix, then base64 of "username:password".
func decodeCredentials(header string) (string, string, error) {
	value := strings.TrimSpace(header)
	for _, prefix := range []string{"Basic ", "Bearer "} {
		if len(value) > len(prefix) && strings.EqualFold(value[:len(prefix)], prefix) {
			value = strings.TrimSpace(value[len(prefix):])
			break
		}
	}
	if value == "" {
		return "", "", &MalformedCredentialsError{}
	}

	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", "", &MalformedCredentialsError{}
	}

	// Split on the first colon only; the password may contain colons.
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return "", "", &MalformedCredentialsError{}
	}
	return username, password, nil
}

// errorResponse maps an orchestration error to the client-facing response.
// Upstream HTTP errors pass through verbatim; everything else becomes a
// small JSON message envelope.
func (c *Core) errorResponse(ctx context.Context, err error) *Response {
	var (
		malformed    *MalformedCredentialsError
		authErr      *AuthenticationError
		loginErr     *LoginError
		unauthorized *upstream.UnauthorizedError
		httpErr      *upstream.HTTPError
	)

	switch {
	case errors.As(err, &malformed):
		return messageResponse(http.StatusBadRequest, "Invalid authorization provided.")

	case errors.As(err, &authErr):
		return messageResponse(http.StatusUnauthorized,
			"Could not authenticate via remote API: "+authErr.Message)

	case errors.As(err, &loginErr):
		slog.ErrorContext(ctx, "upstream login exchange failed", "error", loginErr.Cause)
		return messageResponse(http.StatusInternalServerError, "Failed to login via remote API.")

	case errors.As(err, &unauthorized):
		return messageResponse(http.StatusUnauthorized, upstream.NeedLoginMessage)

	case errors.As(err, &httpErr):
		return &Response{
			Status:      httpErr.StatusCode,
			Raw:         httpErr.Body,
			ContentType: httpErr.ContentType,
		}

	default:
		slog.ErrorContext(ctx, "upstream search failed", "error", err)
		return messageResponse(http.StatusInternalServerError, "Failed to search via remote API.")
	}
}

func messageResponse(status int, message string) *Response {
	return &Response{
		Status: status,
		Body:   map[string]string{"message": message},
	}
}
