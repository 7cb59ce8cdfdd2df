package decisions

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgoncalves/smartcut/internal/types"
)

// Fallback scores every segment of a chunk deterministically, used
// whenever the advisory call is unavailable or unusable. It is total: one
// Decision per segment, same input always produces the same output.
func Fallback(chunk []types.Segment, rules Rules, ctx Context) []types.Decision {
	out := scoreSegments(chunk, rules, ctx)
	ensureMinimumKept(out, rules.MinKeptPerChunk)
	return out
}

func scoreSegments(segments []types.Segment, rules Rules, ctx Context) []types.Decision {
	keywords := append([]string(nil), rules.ImportantKeywords...)
	keywords = append(keywords, InstructionKeywords(ctx.CustomInstructions)...)

	out := make([]types.Decision, 0, len(segments))
	for _, seg := range segments {
		text := strings.ToLower(seg.Text)

		// Content-only scoring: duration deliberately does not factor in.
		keywordScore := 0.0
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				keywordScore += rules.KeywordWeight
			}
		}
		lengthScore := float64(len(seg.Text)) / rules.LengthDivisor
		if lengthScore > rules.LengthCap {
			lengthScore = rules.LengthCap
		}
		confidenceScore := seg.Confidence * rules.ConfidenceWeight

		raw := rules.BaseScore + keywordScore + lengthScore + confidenceScore
		total := clamp(raw, 0, 10)

		dt := types.DecisionRemove
		if total >= rules.KeepThreshold {
			dt = types.DecisionKeep
		}

		out = append(out, types.Decision{
			SegmentID:  seg.ID,
			Type:       dt,
			Function:   types.FunctionDevelopment,
			Score:      total,
			Confidence: rules.FallbackConfidence,
			Reasoning: fmt.Sprintf(
				"Heuristic analysis - score %.1f (base %.1f, keywords %.1f, length %.1f, confidence %.1f)",
				total, rules.BaseScore, keywordScore, lengthScore, confidenceScore,
			),
			AppliedRules: []string{"fallback"},
			StartTime:    seg.Start,
			EndTime:      seg.End,
		})
	}
	return out
}

// ensureMinimumKept promotes the top-scoring removals to keep until at
// least min(minKept, len(decisions)) segments survive, so a strict
// threshold cannot empty the narrative.
func ensureMinimumKept(decisions []types.Decision, minKept int) {
	kept := 0
	for _, d := range decisions {
		if d.Type == types.DecisionKeep {
			kept++
		}
	}
	if minKept > len(decisions) {
		minKept = len(decisions)
	}
	if kept >= minKept {
		return
	}

	order := make([]int, len(decisions))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return decisions[order[a]].Score > decisions[order[b]].Score
	})

	for _, i := range order {
		if kept >= minKept {
			break
		}
		if decisions[i].Type != types.DecisionKeep {
			decisions[i].Type = types.DecisionKeep
			decisions[i].Reasoning += " (kept for narrative flow)"
			kept++
		}
	}
}
