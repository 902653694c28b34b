package models

import "fmt"

// MaxBatchSize is the largest batch EFetch should be asked for in one call.
const MaxBatchSize = 500

// BatchRequest describes a batched EFetch over a list of IDs.
type BatchRequest struct {
	IDs       []string `json:"ids"`
	DB        string   `json:"db"`
	BatchSize int      `json:"batch_size"`
}

// Validate checks the batch descriptor. Batch sizes outside 1..MaxBatchSize
// are rejected.
func (r BatchRequest) Validate() error {
	if r.DB == "" {
		return &ValidationError{Message: "batch request: db is required"}
	}
	if len(r.IDs) == 0 {
		return &ValidationError{Message: "batch request: ids must not be empty"}
	}
	if r.BatchSize < 1 || r.BatchSize > MaxBatchSize {
		return &ValidationError{
			Message: fmt.Sprintf("batch request: batch size must be between 1 and %d, got %d", MaxBatchSize, r.BatchSize),
		}
	}
	return nil
}

// NumBatches returns how many chunks the IDs partition into.
func (r BatchRequest) NumBatches() int {
	if r.BatchSize < 1 {
		return 0
	}
	return (len(r.IDs) + r.BatchSize - 1) / r.BatchSize
}
