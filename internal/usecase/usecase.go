package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/rgoncalves/smartcut/internal/domain/chunker"
	"github.com/rgoncalves/smartcut/internal/domain/decisions"
	"github.com/rgoncalves/smartcut/internal/domain/timeline"
	"github.com/rgoncalves/smartcut/internal/domain/xmeml"
	"github.com/rgoncalves/smartcut/internal/ports"
	"github.com/rgoncalves/smartcut/internal/types"
)

type Deps struct {
	Advisor ports.Advisor
	Log     zerolog.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	Segments  []types.Segment
	Media     types.MediaInfo
	MediaPath string
	Rules     decisions.Rules
	Context   decisions.Context

	// ChunkBudget is the per-chunk advisory size budget in estimated
	// tokens; zero uses the default.
	ChunkBudget int

	// MaxConcurrent bounds parallel advisory calls; <=1 runs chunks
	// sequentially. RateLimitPerMin caps advisory request rate.
	MaxConcurrent   int
	RateLimitPerMin int
}

type Result struct {
	Editing types.EditingResult
	Clips   []types.TimelineClip
	XML     string
	Guide   string
}

// Run drives the whole pipeline: validate the store, chunk it, resolve
// every chunk (advisory with heuristic fallback), aggregate, synthesize
// the timeline, and serialize the interchange document plus the guide.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	if err := chunker.Validate(in.Segments); err != nil {
		return Result{}, fmt.Errorf("segment store: %w", err)
	}
	if in.Context.OriginalDuration <= 0 {
		in.Context.OriginalDuration = in.Media.Duration
	}

	chunks := chunker.Chunk(in.Segments, in.ChunkBudget)
	u.d.Log.Info().Int("segments", len(in.Segments)).Int("chunks", len(chunks)).Msg("transcript chunked")

	results, err := u.resolveChunks(ctx, chunks, in)
	if err != nil {
		return Result{}, err
	}

	editing := decisions.Aggregate(results, in.Segments, in.Rules, in.Context)
	u.d.Log.Info().
		Int("kept", len(editing.SelectedSegments)).
		Int("decisions", len(editing.Decisions)).
		Float64("compression", editing.CompressionAchieved).
		Float64("quality", editing.QualityScore).
		Msg("decisions aggregated")

	clips := timeline.Synthesize(editing.Decisions, in.Media)

	doc, err := xmeml.Generate(in.Media, clips, editing.Decisions, in.MediaPath)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Editing: editing,
		Clips:   clips,
		XML:     doc,
		Guide:   xmeml.Guide(in.Media, in.Context, editing),
	}, nil
}

// resolveChunks resolves chunks with bounded parallelism and an advisory
// rate limit. Chunks share no mutable state, so the only coordination
// needed is re-sequencing results by chunk index before aggregation.
func (u Usecase) resolveChunks(ctx context.Context, chunks [][]types.Segment, in Input) ([]decisions.ChunkResult, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if in.RateLimitPerMin > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(in.RateLimitPerMin)/60.0), 1)
	}

	maxConcurrent := in.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	var (
		mu      sync.Mutex
		results []decisions.ChunkResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return fmt.Errorf("rate limiter: %w", err)
			}

			advice, err := u.d.Advisor.Review(gctx, chunk, in.Rules, in.Context)
			if err != nil {
				// Only cancellation reaches here; advisory failures are
				// encoded in the advice kind.
				return err
			}

			resolved, warnings := decisions.Resolve(chunk, advice, in.Rules, in.Context)
			u.d.Log.Info().
				Int("chunk", i+1).
				Int("chunks", len(chunks)).
				Stringer("advice", advice.Kind).
				Int("decisions", len(resolved)).
				Msg("chunk resolved")

			mu.Lock()
			results = append(results, decisions.ChunkResult{Index: i, Decisions: resolved, Warnings: warnings})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(a, b int) bool { return results[a].Index < results[b].Index })
	return results, nil
}
