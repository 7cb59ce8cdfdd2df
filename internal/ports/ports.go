package ports

import (
	"context"

	"github.com/rgoncalves/smartcut/internal/domain/decisions"
	"github.com/rgoncalves/smartcut/internal/types"
)

// Advisor is the external, unreliable advisory scorer. Implementations
// encode every advisory-level failure (timeout, garbage output, empty
// response) in the returned Advice kind; the error return is reserved for
// caller cancellation.
type Advisor interface {
	Review(ctx context.Context, chunk []types.Segment, rules decisions.Rules, ectx decisions.Context) (types.Advice, error)
}

// TranscriptSource loads the ordered Segment Store produced by an
// upstream transcription collaborator.
type TranscriptSource interface {
	Load(ctx context.Context, path string) ([]types.Segment, error)
}

// MediaProber reports basic metadata about the source media file.
type MediaProber interface {
	Probe(ctx context.Context, path string) (types.MediaInfo, error)
}
