package client

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/austinxramos/ncbi-api-client/pkg/models"
)

const efetchEndpoint = "efetch.fcgi"

// FetchOptions tune an EFetch call. The zero value fetches XML abstracts.
type FetchOptions struct {
	// Rettype selects the record format (default "abstract").
	Rettype string
	// Retmode selects the serialization (default "xml").
	Retmode string
	// Extra parameters are passed through to EFetch verbatim.
	Extra map[string]string
	// SkipCache forces a live request even when a cache is attached.
	SkipCache bool
}

// BatchOptions tune an EFetchBatch call.
type BatchOptions struct {
	// BatchSize is the number of IDs per request (default 100).
	BatchSize int
	Rettype   string
	Retmode   string
	// OnProgress, if set, is called synchronously after each completed
	// batch with the one-based batch index and the total batch count.
	OnProgress func(batch, total int)
}

// EFetch retrieves full records for a set of IDs and returns the raw
// response text. A fresh cache hit returns the stored text verbatim.
func (c *Client) EFetch(ctx context.Context, db string, ids []string, opts *FetchOptions) (string, error) {
	if opts == nil {
		opts = &FetchOptions{}
	}
	rettype := opts.Rettype
	if rettype == "" {
		rettype = "abstract"
	}
	retmode := opts.Retmode
	if retmode == "" {
		retmode = "xml"
	}

	params := map[string]string{
		"db":      db,
		"id":      strings.Join(ids, ","),
		"rettype": rettype,
		"retmode": retmode,
	}
	for k, v := range opts.Extra {
		params[k] = v
	}

	useCache := c.cache != nil && !opts.SkipCache

	if useCache {
		if payload := c.cacheGet(fetchCacheTag, params); payload != nil {
			return string(payload), nil
		}
	}

	body, err := c.execute(ctx, efetchEndpoint, params)
	if err != nil {
		return "", err
	}

	if useCache {
		c.cacheSet(fetchCacheTag, params, body)
	}

	c.logger.Info("efetch",
		zap.String("db", db),
		zap.Int("ids", len(ids)),
		zap.Int("bytes", len(body)))

	return string(body), nil
}

// EFetchBatch fetches records in consecutive chunks of BatchSize (the last
// chunk may be shorter) and returns the per-chunk raw results in order.
// Batches run strictly sequentially so every request passes through the one
// shared rate gate. Batch sizes above models.MaxBatchSize are accepted with
// a warning; sizes below 1 are a validation error.
func (c *Client) EFetchBatch(ctx context.Context, db string, ids []string, opts *BatchOptions) ([]string, error) {
	if opts == nil {
		opts = &BatchOptions{}
	}
	batchSize := opts.BatchSize
	if batchSize == 0 {
		batchSize = 100
	}
	if batchSize < 1 {
		return nil, &models.ValidationError{Message: "efetch batch: batch size must be at least 1"}
	}
	if batchSize > models.MaxBatchSize {
		c.logger.Warn("batch size above recommended cap",
			zap.Int("batch_size", batchSize),
			zap.Int("cap", models.MaxBatchSize))
	}

	total := (len(ids) + batchSize - 1) / batchSize
	results := make([]string, 0, total)

	for i := 0; i < len(ids); i += batchSize {
		end := i + batchSize
		if end > len(ids) {
			end = len(ids)
		}

		body, err := c.EFetch(ctx, db, ids[i:end], &FetchOptions{
			Rettype: opts.Rettype,
			Retmode: opts.Retmode,
		})
		if err != nil {
			return nil, err
		}
		results = append(results, body)

		if opts.OnProgress != nil {
			opts.OnProgress(len(results), total)
		}
	}

	return results, nil
}
