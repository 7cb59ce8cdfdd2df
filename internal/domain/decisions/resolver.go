package decisions

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rgoncalves/smartcut/internal/types"
)

// Resolve turns one chunk's advisory outcome into exactly one validated
// Decision per chunk segment, in chunk order. Advisory failures of any
// kind degrade to the deterministic fallback scorer and never surface as
// errors; the returned warnings describe repairs and drops.
func Resolve(chunk []types.Segment, advice types.Advice, rules Rules, ctx Context) ([]types.Decision, []string) {
	if len(chunk) == 0 {
		return nil, nil
	}
	if advice.Kind != types.AdviceParsed || len(advice.Items) == 0 {
		var warnings []string
		if advice.Kind != types.AdviceParsed {
			warnings = append(warnings, fmt.Sprintf("advisory response %s, scored %d segments heuristically", advice.Kind, len(chunk)))
		} else {
			warnings = append(warnings, fmt.Sprintf("advisory response contained no decisions, scored %d segments heuristically", len(chunk)))
		}
		return Fallback(chunk, rules, ctx), warnings
	}

	byID := make(map[string]types.Segment, len(chunk))
	for _, s := range chunk {
		byID[s.ID] = s
	}

	resolved := make(map[string]types.Decision, len(chunk))
	var warnings []string

	for _, item := range advice.Items {
		seg, warning, ok := bindSegment(item.SegmentID, chunk, byID)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("dropped advisory decision for unknown segment %q", item.SegmentID))
			continue
		}
		if warning != "" {
			warnings = append(warnings, warning)
		}
		if _, dup := resolved[seg.ID]; dup {
			warnings = append(warnings, fmt.Sprintf("duplicate advisory decision for segment %s ignored", seg.ID))
			continue
		}
		resolved[seg.ID] = normalize(item, seg, rules)
	}

	// Segments the advisor skipped still need a verdict; score them with
	// the same heuristic used for whole-chunk failures.
	var uncovered []types.Segment
	for _, s := range chunk {
		if _, ok := resolved[s.ID]; !ok {
			uncovered = append(uncovered, s)
		}
	}
	if len(uncovered) > 0 {
		warnings = append(warnings, fmt.Sprintf("advisory response missing %d of %d segments, scored heuristically", len(uncovered), len(chunk)))
		for _, d := range scoreSegments(uncovered, rules, ctx) {
			resolved[d.SegmentID] = d
		}
	}

	out := make([]types.Decision, 0, len(chunk))
	for _, s := range chunk {
		out = append(out, resolved[s.ID])
	}
	return out, warnings
}

// bindSegment resolves an advisory segment reference. Exact ids bind
// directly; references shaped like a raw time interval are repaired by
// picking the chunk segment with the nearest start time.
func bindSegment(ref string, chunk []types.Segment, byID map[string]types.Segment) (types.Segment, string, bool) {
	if seg, ok := byID[ref]; ok {
		return seg, "", true
	}
	start, ok := parseIntervalStart(ref)
	if !ok {
		return types.Segment{}, "", false
	}

	best := -1
	bestDiff := math.Inf(1)
	for i, s := range chunk {
		diff := math.Abs(s.Start - start)
		if diff < bestDiff {
			bestDiff = diff
			best = i
		}
	}
	if best < 0 {
		return types.Segment{}, "", false
	}
	seg := chunk[best]
	return seg, fmt.Sprintf("repaired advisory reference %q to segment %s by start time", ref, seg.ID), true
}

// parseIntervalStart detects references like "[12.5-15.0]" or "12.5-15.0s"
// and extracts the start time.
func parseIntervalStart(ref string) (float64, bool) {
	s := strings.TrimSpace(ref)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	s = strings.TrimSuffix(s, "s")
	head, _, found := strings.Cut(s, "-")
	if !found {
		return 0, false
	}
	start, err := strconv.ParseFloat(strings.TrimSpace(head), 64)
	if err != nil || start < 0 {
		return 0, false
	}
	return start, true
}

// normalize repairs one advisory item against its matched segment: missing
// fields get defaults, out-of-range values are clamped, and timestamps are
// always taken from the segment itself.
func normalize(item types.RawDecision, seg types.Segment, rules Rules) types.Decision {
	confidence := item.Confidence
	if confidence <= 0 || confidence > 1 {
		confidence = rules.DefaultConfidence
	}
	reasoning := strings.TrimSpace(item.Reasoning)
	if reasoning == "" {
		reasoning = "No reasoning provided by advisory analysis"
	}
	return types.Decision{
		SegmentID:    seg.ID,
		Type:         types.ParseDecisionType(strings.ToLower(strings.TrimSpace(item.DecisionType))),
		Function:     MapFunction(item.Function),
		Score:        clamp(item.Score, 0, 10),
		Confidence:   confidence,
		Reasoning:    reasoning,
		AppliedRules: []string{"ai_analysis"},
		StartTime:    seg.Start,
		EndTime:      seg.End,
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
