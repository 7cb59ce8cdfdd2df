package decisions

import (
	"fmt"

	"github.com/rgoncalves/smartcut/internal/types"
)

// ChunkResult pairs one chunk's resolved decisions with its position in
// the chunk sequence, so concurrent resolution can be re-sequenced.
type ChunkResult struct {
	Index     int
	Decisions []types.Decision
	Warnings  []string
}

// Aggregate merges per-chunk decisions, in chunk order, into one
// EditingResult. Durations are recomputed from the Segment Store rather
// than decision timestamps so advisory drift can never leak into the
// timeline.
func Aggregate(results []ChunkResult, store []types.Segment, rules Rules, ctx Context) types.EditingResult {
	var (
		decisions []types.Decision
		warnings  []string
	)
	for _, r := range results {
		decisions = append(decisions, r.Decisions...)
		warnings = append(warnings, r.Warnings...)
	}

	selected := make([]string, 0, len(decisions))
	for _, d := range decisions {
		if d.Type == types.DecisionKeep {
			selected = append(selected, d.SegmentID)
		}
	}

	selectedSet := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		selectedSet[id] = struct{}{}
	}
	finalDuration := 0.0
	for _, s := range store {
		if _, ok := selectedSet[s.ID]; ok {
			finalDuration += s.Duration()
		}
	}

	compression := 0.0
	if ctx.OriginalDuration > 0 {
		compression = clamp(finalDuration/ctx.OriginalDuration, 0, 1)
	}

	warnings = append(warnings, thresholdWarnings(decisions, rules)...)

	return types.EditingResult{
		Decisions:           decisions,
		SelectedSegments:    selected,
		FinalDuration:       finalDuration,
		CompressionAchieved: compression,
		QualityScore:        qualityScore(decisions),
		Warnings:            warnings,
		Stats:               stats(decisions, store),
	}
}

// qualityScore is the confidence-weighted average score over keep
// decisions. No decisions at all scores 0; kept decisions whose weights
// sum to zero fall back to a neutral 5.0 instead of dividing by zero.
func qualityScore(decisions []types.Decision) float64 {
	if len(decisions) == 0 {
		return 0
	}
	weighted, weight := 0.0, 0.0
	for _, d := range decisions {
		if d.Type == types.DecisionKeep {
			weighted += d.Score * d.Confidence
			weight += d.Confidence
		}
	}
	if weight <= 0 {
		return 5.0
	}
	return weighted / weight
}

func thresholdWarnings(decisions []types.Decision, rules Rules) []string {
	if len(decisions) == 0 {
		return nil
	}
	var out []string

	lowConfidence := 0
	kept := 0
	for _, d := range decisions {
		if d.Confidence < rules.LowConfidenceLevel {
			lowConfidence++
		}
		if d.Type == types.DecisionKeep {
			kept++
		}
	}
	if float64(lowConfidence) > float64(len(decisions))*rules.LowConfidenceFraction {
		out = append(out, fmt.Sprintf("too many low-confidence decisions (%d of %d)", lowConfidence, len(decisions)))
	}
	if float64(kept) < float64(len(decisions))*rules.MinKeptFraction {
		out = append(out, "compression is very aggressive and may hurt narrative quality")
	}
	return out
}

func stats(decisions []types.Decision, store []types.Segment) types.Stats {
	st := types.Stats{
		TotalSegments:  len(store),
		TotalDecisions: len(decisions),
	}
	if len(decisions) == 0 {
		return st
	}
	var confidenceSum, scoreSum float64
	for _, d := range decisions {
		switch d.Type {
		case types.DecisionKeep:
			st.KeptSegments++
		case types.DecisionRemove:
			st.RemovedSegments++
		case types.DecisionModify:
			st.ModifiedSegments++
		}
		confidenceSum += d.Confidence
		scoreSum += d.Score
	}
	st.AverageConfidence = confidenceSum / float64(len(decisions))
	st.AverageScore = scoreSum / float64(len(decisions))
	return st
}
