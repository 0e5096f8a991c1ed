package shopee

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultEndpoint is the Brazilian affiliate GraphQL endpoint.
const DefaultEndpoint = "https://open-api.affiliate.shopee.com.br/graphql"

// DefaultTimeout bounds a single HTTP request.
const DefaultTimeout = 30 * time.Second

// defaultBackoff gives three attempts with increasing delays between them.
var defaultBackoff = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

// Config holds the settings for a Client.
type Config struct {
	AppID    string
	Secret   string
	Endpoint string          // defaults to DefaultEndpoint
	Timeout  time.Duration   // defaults to DefaultTimeout
	Backoff  []time.Duration // defaults to 1s/2s/4s; length sets the attempt ceiling
}

// Client talks to the Shopee Affiliate GraphQL API. Every request is signed
// with a fresh timestamp; transient failures are retried with backoff.
type Client struct {
	appID    string
	secret   string
	endpoint string
	backoff  []time.Duration
	http     *http.Client
	now      func() time.Time
	log      *slog.Logger
}

// NewClient creates a Client, filling in defaults for unset Config fields.
func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if len(cfg.Backoff) == 0 {
		cfg.Backoff = defaultBackoff
	}
	return &Client{
		appID:    cfg.AppID,
		secret:   cfg.Secret,
		endpoint: cfg.Endpoint,
		backoff:  cfg.Backoff,
		http:     &http.Client{Timeout: cfg.Timeout},
		now:      time.Now,
		log:      slog.With("component", "shopee"),
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code Flex `json:"code"`
	} `json:"extensions"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// do executes one GraphQL request with the retry/backoff policy. The request
// body is marshaled once; each attempt re-signs it with a fresh timestamp.
func (c *Client) do(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	if variables == nil {
		variables = map[string]any{}
	}
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt, delay := range c.backoff {
		data, err := c.attempt(ctx, payload)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retryable(err) {
			return nil, err
		}
		if attempt == len(c.backoff)-1 {
			break
		}
		c.log.Warn("request failed, retrying",
			"attempt", attempt+1, "delay", delay, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, lastErr
}

// attempt performs a single signed request and classifies its outcome.
func (c *Client) attempt(ctx context.Context, payload []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", AuthHeader(c.appID, c.secret, c.now().Unix(), string(payload)))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{Status: resp.StatusCode}
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &MalformedResponseError{Detail: "response is not valid JSON", Cause: err}
	}
	if len(envelope.Errors) > 0 {
		first := envelope.Errors[0]
		return nil, &APIError{Code: string(first.Extensions.Code), Message: first.Message}
	}
	if envelope.Data == nil {
		return nil, &MalformedResponseError{Detail: "response carries neither data nor errors"}
	}
	return envelope.Data, nil
}

// Search fetches one page of product offers for the given parameters.
func (c *Client) Search(ctx context.Context, params SearchParams) ([]ProductOffer, error) {
	data, err := c.do(ctx, productOfferV2Query, buildSearchVariables(params))
	if err != nil {
		return nil, err
	}
	if err := validateSearchPayload(data); err != nil {
		return nil, err
	}

	var payload struct {
		ProductOfferV2 struct {
			Nodes    []ProductOffer `json:"nodes"`
			PageInfo PageInfo       `json:"pageInfo"`
		} `json:"productOfferV2"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &MalformedResponseError{Detail: "failed to decode search payload", Cause: err}
	}
	return payload.ProductOfferV2.Nodes, nil
}

// GenerateShortLink requests a trackable short link for the origin URL with
// up to five tracking sub-ids attached.
func (c *Client) GenerateShortLink(ctx context.Context, originURL string, subIDs []string) (string, error) {
	data, err := c.do(ctx, generateShortLinkMutation, buildShortLinkVariables(originURL, subIDs))
	if err != nil {
		return "", err
	}

	var payload struct {
		GenerateShortLink struct {
			ShortLink string `json:"shortLink"`
		} `json:"generateShortLink"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", &MalformedResponseError{Detail: "failed to decode short link payload", Cause: err}
	}
	if payload.GenerateShortLink.ShortLink == "" {
		return "", ErrNoShortLink
	}
	return payload.GenerateShortLink.ShortLink, nil
}

// GetConversionReport fetches one page of the conversion report. Used by
// reporting only; the curation pipeline never calls it.
func (c *Client) GetConversionReport(ctx context.Context, params ReportParams) (*ConversionReport, error) {
	data, err := c.do(ctx, conversionReportQuery, buildReportVariables(params))
	if err != nil {
		return nil, err
	}

	var payload struct {
		ConversionReport ConversionReport `json:"conversionReport"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &MalformedResponseError{Detail: "failed to decode report payload", Cause: err}
	}
	return &payload.ConversionReport, nil
}
