package chunker

import (
	"fmt"
	"strings"

	"github.com/rgoncalves/smartcut/internal/types"
)

// DefaultBudget is the per-chunk size budget in estimated tokens, sized
// for the advisory model's context window.
const DefaultBudget = 8000

// Validate checks the Segment Store invariants before chunking. A
// violation indicates a broken upstream contract and is surfaced to the
// caller instead of being silently repaired.
func Validate(segments []types.Segment) error {
	for i, s := range segments {
		if strings.TrimSpace(s.ID) == "" {
			return fmt.Errorf("segment %d: empty id", i)
		}
		if s.Start < 0 {
			return fmt.Errorf("segment %s: negative start %.3f", s.ID, s.Start)
		}
		if s.End <= s.Start {
			return fmt.Errorf("segment %s: end %.3f not after start %.3f", s.ID, s.End, s.Start)
		}
		if strings.TrimSpace(s.Text) == "" {
			return fmt.Errorf("segment %s: empty text", s.ID)
		}
		if i > 0 {
			prev := segments[i-1]
			if s.Start < prev.Start {
				return fmt.Errorf("segment %s: starts before preceding segment %s", s.ID, prev.ID)
			}
			if s.Start < prev.End {
				return fmt.Errorf("segment %s: overlaps preceding segment %s", s.ID, prev.ID)
			}
		}
	}
	return nil
}

// EstimateSize returns the advisory-cost proxy for one segment: roughly
// one token per four characters of text.
func EstimateSize(s types.Segment) int {
	return len(s.Text) / 4
}

// Chunk partitions the store into ordered, non-overlapping chunks whose
// accumulated estimated size stays within budget. A single segment larger
// than the budget still forms its own chunk; segments are never split.
// Concatenating the output reproduces the input exactly.
func Chunk(segments []types.Segment, budget int) [][]types.Segment {
	if budget <= 0 {
		budget = DefaultBudget
	}
	if len(segments) == 0 {
		return nil
	}

	var (
		chunks  [][]types.Segment
		current []types.Segment
		used    int
	)
	for _, s := range segments {
		size := EstimateSize(s)
		if used+size > budget && len(current) > 0 {
			chunks = append(chunks, current)
			current = []types.Segment{s}
			used = size
			continue
		}
		current = append(current, s)
		used += size
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}
