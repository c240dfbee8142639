// Package icd talks to the WHO ICD-11 API: entity resolution and free-text
// search, authenticated with a cached OAuth2 client-credentials token.
package icd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"resty.dev/v3"

	"github.com/mitrahealth/fhirterm/internal/cache"
	"github.com/mitrahealth/fhirterm/internal/terminology"
)

// errNoResult marks a non-success authority answer inside a cache load, so
// that the miss is not memoized and the key is tried again later.
var errNoResult = errors.New("icd: no result")

// Config holds the client settings.
type Config struct {
	// BaseURL is the API root, e.g. https://id.who.int/icd.
	BaseURL string
	// APIVersion is sent as the API-Version header, e.g. v2.
	APIVersion string
	// SearchRelease is the linearization path searched, e.g.
	// release/11/2023-01/mms.
	SearchRelease string

	EntityCacheCapacity int
	SearchCacheCapacity int
	CacheTTL            time.Duration
}

// Client implements terminology.Authority against the ICD-11 API. Resolved
// entities and search results are memoized per key with single-flight
// loading; each call makes at most one attempt, without retries.
type Client struct {
	httpClient    *resty.Client
	tokens        *TokenSource
	searchRelease string
	entityCache   *cache.Loader[*terminology.Entity]
	searchCache   *cache.Loader[[]terminology.Entity]
}

// localizedText decodes either a bare JSON string or the ICD API's
// {"@value": "..."} language-tagged form.
type localizedText string

func (t *localizedText) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*t = localizedText(plain)
		return nil
	}

	var tagged struct {
		Value string `json:"@value"`
	}
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("json.Unmarshal > %w", err)
	}
	*t = localizedText(tagged.Value)
	return nil
}

// entityPayload is the subset of an entity document the service consumes.
// Absent fields stay empty strings.
type entityPayload struct {
	TheCode    string        `json:"theCode"`
	Title      localizedText `json:"title"`
	Definition localizedText `json:"definition"`
}

func (p entityPayload) toEntity() *terminology.Entity {
	return &terminology.Entity{
		Code:       p.TheCode,
		Title:      string(p.Title),
		Definition: string(p.Definition),
	}
}

type searchPayload struct {
	DestinationEntities []entityPayload `json:"destinationEntities"`
}

// NewClient creates a new Client using tokens for authentication.
func NewClient(cfg Config, tokens *TokenSource) *Client {
	httpClient := resty.New()
	httpClient.SetBaseURL(cfg.BaseURL)
	httpClient.SetHeader("API-Version", cfg.APIVersion)
	httpClient.SetHeader("Accept", "application/json")

	return &Client{
		httpClient:    httpClient,
		tokens:        tokens,
		searchRelease: cfg.SearchRelease,
		entityCache:   cache.NewLoader[*terminology.Entity](cfg.EntityCacheCapacity, cfg.CacheTTL),
		searchCache:   cache.NewLoader[[]terminology.Entity](cfg.SearchCacheCapacity, cfg.CacheTTL),
	}
}

// ResolveEntity fetches one entity by id. A non-success status yields
// (nil, nil) after a logged warning; only transport and parse failures return
// an error. Successful resolutions are cached by id.
func (c *Client) ResolveEntity(ctx context.Context, entityID string) (*terminology.Entity, error) {
	entity, err := c.entityCache.GetOrLoad(entityID, func() (*terminology.Entity, error) {
		return c.resolveEntity(ctx, entityID)
	})
	if errors.Is(err, errNoResult) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func (c *Client) resolveEntity(ctx context.Context, entityID string) (*terminology.Entity, error) {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("tokens.AccessToken > %w", err)
	}

	response, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&entityPayload{}).
		Get("/entity/" + url.PathEscape(entityID))
	if err != nil {
		return nil, fmt.Errorf("httpClient.Get > %w", err)
	}
	if response.IsError() {
		slog.Default().Warn("failed to resolve ICD entity",
			"entityID", entityID,
			"status", response.StatusCode(),
		)
		return nil, errNoResult
	}

	entity := response.Result().(*entityPayload).toEntity()
	slog.Default().Info("resolved ICD entity",
		"entityID", entityID,
	)
	return entity, nil
}

// SearchEntities runs a free-text search against the configured
// linearization. A non-success status yields an empty list after a logged
// warning; only transport and parse failures return an error. Successful
// searches are cached by the raw query string.
func (c *Client) SearchEntities(ctx context.Context, query string) ([]terminology.Entity, error) {
	results, err := c.searchCache.GetOrLoad(query, func() ([]terminology.Entity, error) {
		return c.searchEntities(ctx, query)
	})
	if errors.Is(err, errNoResult) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Client) searchEntities(ctx context.Context, query string) ([]terminology.Entity, error) {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("tokens.AccessToken > %w", err)
	}

	response, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("q", query).
		SetQueryParam("useFlexisearch", "true").
		SetResult(&searchPayload{}).
		Get("/" + c.searchRelease + "/search")
	if err != nil {
		return nil, fmt.Errorf("httpClient.Get > %w", err)
	}
	if response.IsError() {
		slog.Default().Warn("failed to search ICD entities",
			"query", query,
			"status", response.StatusCode(),
		)
		return nil, errNoResult
	}

	payload := response.Result().(*searchPayload)
	entities := make([]terminology.Entity, 0, len(payload.DestinationEntities))
	for _, result := range payload.DestinationEntities {
		entities = append(entities, *result.toEntity())
	}

	slog.Default().Info("searched ICD entities",
		"query", query,
		"results", len(entities),
	)
	return entities, nil
}

// Close releases the underlying HTTP client.
func (c *Client) Close() error {
	return c.httpClient.Close()
}
