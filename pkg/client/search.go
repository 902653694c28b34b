package client

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/austinxramos/ncbi-api-client/pkg/models"
)

// cache endpoint tags; the wire endpoints are esearch.fcgi / efetch.fcgi.
const (
	searchCacheTag = "search"
	fetchCacheTag  = "fetch"
)

const esearchEndpoint = "esearch.fcgi"

// SearchOptions tune an ESearch call. The zero value is usable.
type SearchOptions struct {
	// Retmax is the maximum number of IDs to return (default 20).
	Retmax int
	// Retstart is the index of the first returned ID, for pagination.
	Retstart int
	// Sort orders results, e.g. "relevance" or "pub_date".
	Sort string
	// Extra parameters are passed through to ESearch verbatim.
	Extra map[string]string
	// SkipCache forces a live request even when a cache is attached.
	SkipCache bool
}

// ESearch searches an NCBI database and returns the validated result. The
// raw response is served from the cache when fresh, and written back after a
// live fetch. Cache failures never fail the search.
func (c *Client) ESearch(ctx context.Context, db, term string, opts *SearchOptions) (*models.ESearchResult, error) {
	if opts == nil {
		opts = &SearchOptions{}
	}
	retmax := opts.Retmax
	if retmax == 0 {
		retmax = 20
	}

	params := map[string]string{
		"db":       db,
		"term":     term,
		"retmax":   strconv.Itoa(retmax),
		"retstart": strconv.Itoa(opts.Retstart),
		"retmode":  "json",
	}
	if opts.Sort != "" {
		params["sort"] = opts.Sort
	}
	for k, v := range opts.Extra {
		params[k] = v
	}

	useCache := c.cache != nil && !opts.SkipCache

	if useCache {
		if payload := c.cacheGet(searchCacheTag, params); payload != nil {
			result, err := models.ParseESearchResult(payload)
			if err == nil {
				return result, nil
			}
			// A cached payload that no longer parses is treated as a miss.
			c.logger.Warn("cached esearch payload undecodable, refetching", zap.Error(err))
		}
	}

	body, err := c.execute(ctx, esearchEndpoint, params)
	if err != nil {
		return nil, err
	}

	result, err := models.ParseESearchResult(body)
	if err != nil {
		return nil, err
	}

	if useCache {
		c.cacheSet(searchCacheTag, params, body)
	}

	c.logger.Info("esearch",
		zap.String("db", db),
		zap.String("term", term),
		zap.Int("count", result.Count),
		zap.Int("returned", len(result.IDList)))

	return result, nil
}
