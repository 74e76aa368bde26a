// Package wordpress talks to the WordPress CMS through WPGraphQL and turns
// its responses into the site's view models.
package wordpress

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultEndpoint is the production WPGraphQL endpoint.
const DefaultEndpoint = "https://cms.chartspoint.com/graphql"

// Options configures a Client.
type Options struct {
	Endpoint   string
	Username   string
	Password   string
	CacheTTL   time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client executes GraphQL documents against WPGraphQL with response caching
// and optional JWT authentication.
type Client struct {
	endpoint   string
	httpClient *http.Client
	cache      *Cache
	auth       *Authenticator
	group      singleflight.Group
	logger     *zap.Logger
}

// NewClient builds a Client from opts, filling in defaults.
func NewClient(opts Options) *Client {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
		cache:      NewCache(opts.CacheTTL),
		auth:       NewAuthenticator(endpoint, opts.Username, opts.Password, httpClient, logger),
		logger:     logger,
	}
}

// Cache exposes the response cache.
func (c *Client) Cache() *Cache {
	return c.cache
}

// ClearCache removes one cached response, or all of them when key is empty.
func (c *Client) ClearCache(key string) {
	c.cache.Clear(key)
}

// Execute runs query with variables and decodes the response data into out.
// Fresh cached data is returned without a request; identical concurrent
// requests share one round trip. Only successful responses are cached.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any, requireAuth bool, out any) error {
	key, err := CacheKey(query, variables)
	if err != nil {
		return fmt.Errorf("encode variables: %w", err)
	}

	if data, ok := c.cache.Get(key); ok {
		return decodeData(data, out)
	}

	flightKey := key
	if requireAuth {
		flightKey = "auth:" + key
	}

	// The shared call outlives any single caller; the HTTP client timeout bounds it.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flightKey, func() (interface{}, error) {
		headers := map[string]string{}
		if requireAuth {
			if token := c.auth.Token(shared); token != "" {
				headers["Authorization"] = "Bearer " + token
			}
		}

		data, err := postGraphQL(shared, c.httpClient, c.endpoint, headers, query, variables)
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, data)
		return data, nil
	})

	var result interface{}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		result, err = res.Val, res.Err
	}
	if err != nil {
		c.logger.Error("graphql query failed", zap.Error(err))
		return err
	}

	data, ok := result.(json.RawMessage)
	if !ok {
		return fmt.Errorf("graphql result type mismatch")
	}
	return decodeData(data, out)
}

func decodeData(data json.RawMessage, out any) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode graphql data: %w", err)
	}
	return nil
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []ResponseError `json:"errors"`
}

// ResponseError is one entry of a GraphQL errors array.
type ResponseError struct {
	Message string `json:"message"`
}

// GraphQLError reports a response that carried an errors array.
type GraphQLError struct {
	Errors []ResponseError
}

func (e *GraphQLError) Error() string {
	if len(e.Errors) > 0 && e.Errors[0].Message != "" {
		return e.Errors[0].Message
	}
	return "GraphQL query failed"
}

// HTTPError reports a non-2xx response from the endpoint.
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return "HTTP Error: " + e.Status
}

func postGraphQL(ctx context.Context, client *http.Client, endpoint string, headers map[string]string, query string, variables map[string]any) (json.RawMessage, error) {
	if variables == nil {
		variables = map[string]any{}
	}
	buf, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Charset", "utf-8")
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var gr graphQLResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return nil, fmt.Errorf("decode graphql response: %w", err)
	}
	if len(gr.Errors) > 0 {
		return nil, &GraphQLError{Errors: gr.Errors}
	}
	return gr.Data, nil
}

// Cursor returns the WPGraphQL connection cursor that starts the given page,
// mirroring the server's offset-based "arrayconnection" encoding. Page one
// has no cursor.
func Cursor(page, perPage int) (string, bool) {
	if page <= 1 {
		return "", false
	}
	offset := (page-1)*perPage - 1
	return base64.StdEncoding.EncodeToString([]byte("arrayconnection:" + strconv.Itoa(offset))), true
}

// after returns the "after" variable for page: a cursor string or nil.
func after(page, perPage int) any {
	if cursor, ok := Cursor(page, perPage); ok {
		return cursor
	}
	return nil
}
