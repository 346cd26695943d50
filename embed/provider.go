// Package embed provides text-to-vector embedding and vector similarity.
package embed

import "context"

// Provider converts text to a fixed-length vector. Implementations must be
// deterministic for a given configuration within one process run.
type Provider interface {
	// Embed returns the embedding for the given text. Input longer than the
	// provider's length budget is truncated, not rejected.
	Embed(ctx context.Context, text string) ([]float64, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// Name identifies the provider configuration, recorded in snapshots.
	Name() string
}
