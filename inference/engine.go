// Package inference - inference-engine collaborators for the tiled
// detection pipeline.
package inference

import (
	"context"

	"github.com/geoscan-ai/go-obb/detection"
	"github.com/geoscan-ai/go-obb/slicing"
)

// Engine is the external inference collaborator contract.
//
// Given a channel-major normalized buffer of shape (3, S, S), an engine
// returns raw per-anchor candidate records in model-input pixel space. An
// empty result means "no detections", not an error. Filtering below a
// confidence floor is the pipeline's responsibility, not the engine's.
//
// An engine holds shared mutable state (a loaded model) and is a single
// logical resource: callers must not invoke Infer concurrently.
type Engine interface {
	Infer(ctx context.Context, input *slicing.ModelInput) ([]detection.RawCandidate, error)
	Close() error
}
