package wizardapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmcdole/grimoire/internal/domain"
)

const (
	// DefaultBaseURL is the public Wizard World API
	DefaultBaseURL = "https://wizard-world-api.herokuapp.com"

	defaultTimeout = 30 * time.Second
	userAgent      = "grimoire/1.0"
)

// Client implements domain.ResourceRepository for the Wizard World API.
// It performs one GET per call; there are no retries or auth headers.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

var _ domain.ResourceRepository = (*Client)(nil)

// NewClient creates a new API client. An empty baseURL selects DefaultBaseURL
// and a zero timeout selects 30s.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}, nil
}

// BaseURL returns the normalized API root
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func parseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = DefaultBaseURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q has no host", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// doRequest performs a GET against path and returns the body of a 2xx response
func (c *Client) doRequest(ctx context.Context, path string) ([]byte, error) {
	reqURL := c.baseURL.JoinPath(path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)

	c.logger.Debug("api request", "url", reqURL.String(), "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// A canceled caller is not an outage.
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		c.logger.Error("api request failed", "error", err, "request_id", requestID)
		return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("api request error", "status", resp.StatusCode, "path", path, "request_id", requestID)
		return nil, &StatusError{Path: path, StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	return body, nil
}

// validator is implemented by every domain entity
type validator interface {
	Validate() error
}

// fetchCollection decodes a JSON array and validates every element
func fetchCollection[T validator](ctx context.Context, c *Client, kind domain.Kind) ([]T, error) {
	body, err := c.doRequest(ctx, kind.Path())
	if err != nil {
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		c.logger.Error("JSON parse error", "error", err, "kind", kind, "bodyLen", len(body))
		return nil, &DecodeError{Resource: kind.Path(), Index: -1, Err: err}
	}
	if items == nil {
		items = []T{}
	}
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return nil, &DecodeError{Resource: kind.Path(), Index: i, Err: err}
		}
	}
	return items, nil
}

// fetchByID decodes a single JSON object and validates it
func fetchByID[T validator](ctx context.Context, c *Client, kind domain.Kind, id string) (*T, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%s id required", kind.Singular())
	}
	path := kind.Path() + "/" + url.PathEscape(id)
	body, err := c.doRequest(ctx, path)
	if err != nil {
		return nil, err
	}

	var item T
	if err := json.Unmarshal(body, &item); err != nil {
		c.logger.Error("JSON parse error", "error", err, "kind", kind, "id", id)
		return nil, &DecodeError{Resource: path, Index: -1, Err: err}
	}
	if err := item.Validate(); err != nil {
		return nil, &DecodeError{Resource: path, Index: -1, Err: err}
	}
	return &item, nil
}

// Houses returns all houses
func (c *Client) Houses(ctx context.Context) ([]domain.House, error) {
	return fetchCollection[domain.House](ctx, c, domain.KindHouses)
}

// House returns a single house by id
func (c *Client) House(ctx context.Context, id string) (*domain.House, error) {
	return fetchByID[domain.House](ctx, c, domain.KindHouses, id)
}

// Spells returns all spells
func (c *Client) Spells(ctx context.Context) ([]domain.Spell, error) {
	return fetchCollection[domain.Spell](ctx, c, domain.KindSpells)
}

// Spell returns a single spell by id
func (c *Client) Spell(ctx context.Context, id string) (*domain.Spell, error) {
	return fetchByID[domain.Spell](ctx, c, domain.KindSpells, id)
}

// Elixirs returns all elixirs
func (c *Client) Elixirs(ctx context.Context) ([]domain.Elixir, error) {
	return fetchCollection[domain.Elixir](ctx, c, domain.KindElixirs)
}

// Elixir returns a single elixir by id
func (c *Client) Elixir(ctx context.Context, id string) (*domain.Elixir, error) {
	return fetchByID[domain.Elixir](ctx, c, domain.KindElixirs, id)
}

// Ingredients returns all ingredients
func (c *Client) Ingredients(ctx context.Context) ([]domain.Ingredient, error) {
	return fetchCollection[domain.Ingredient](ctx, c, domain.KindIngredients)
}

// Ingredient returns a single ingredient by id
func (c *Client) Ingredient(ctx context.Context, id string) (*domain.Ingredient, error) {
	return fetchByID[domain.Ingredient](ctx, c, domain.KindIngredients, id)
}

// Wizards returns all wizards
func (c *Client) Wizards(ctx context.Context) ([]domain.Wizard, error) {
	return fetchCollection[domain.Wizard](ctx, c, domain.KindWizards)
}

// Wizard returns a single wizard by id
func (c *Client) Wizard(ctx context.Context, id string) (*domain.Wizard, error) {
	return fetchByID[domain.Wizard](ctx, c, domain.KindWizards, id)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
