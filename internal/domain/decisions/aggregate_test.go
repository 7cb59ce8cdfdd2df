package decisions

import (
	"math"
	"strings"
	"testing"

	"github.com/rgoncalves/smartcut/internal/types"
)

func storeOf(n int, each float64) []types.Segment {
	out := make([]types.Segment, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, types.Segment{
			ID:         segID(i),
			Start:      float64(i) * each,
			End:        float64(i+1) * each,
			Text:       "segment text",
			Confidence: 0.9,
		})
	}
	return out
}

func segID(i int) string {
	return "segment_" + string(rune('0'+i))
}

func keepDecision(id string, score, confidence float64) types.Decision {
	return types.Decision{
		SegmentID: id, Type: types.DecisionKeep,
		Function: types.FunctionDevelopment,
		Score:    score, Confidence: confidence,
		Reasoning: "r", AppliedRules: []string{"ai_analysis"},
	}
}

func removeDecision(id string, score, confidence float64) types.Decision {
	d := keepDecision(id, score, confidence)
	d.Type = types.DecisionRemove
	return d
}

func TestAggregate_FullKeepCompression(t *testing.T) {
	t.Parallel()

	store := storeOf(4, 25) // 100s total
	results := []ChunkResult{{Index: 0, Decisions: []types.Decision{
		keepDecision(store[0].ID, 8, 0.9),
		keepDecision(store[1].ID, 7, 0.9),
		keepDecision(store[2].ID, 6, 0.9),
		keepDecision(store[3].ID, 9, 0.9),
	}}}

	res := Aggregate(results, store, DefaultRules(VideoGeneral), Context{OriginalDuration: 100})
	if res.FinalDuration != 100 {
		t.Fatalf("final duration = %v, want 100", res.FinalDuration)
	}
	if res.CompressionAchieved != 1.0 {
		t.Fatalf("keeping everything must yield compression 1.0, got %v", res.CompressionAchieved)
	}
	if len(res.SelectedSegments) != 4 {
		t.Fatalf("selected = %v", res.SelectedSegments)
	}
}

func TestAggregate_PartialKeep(t *testing.T) {
	t.Parallel()

	store := storeOf(4, 25)
	results := []ChunkResult{
		{Index: 0, Decisions: []types.Decision{
			keepDecision(store[0].ID, 8, 0.9),
			removeDecision(store[1].ID, 2, 0.9),
		}},
		{Index: 1, Decisions: []types.Decision{
			removeDecision(store[2].ID, 1, 0.9),
			removeDecision(store[3].ID, 1, 0.9),
		}},
	}

	res := Aggregate(results, store, DefaultRules(VideoGeneral), Context{OriginalDuration: 100})
	if res.FinalDuration != 25 {
		t.Fatalf("final duration = %v, want 25", res.FinalDuration)
	}
	if res.CompressionAchieved != 0.25 {
		t.Fatalf("compression = %v, want 0.25", res.CompressionAchieved)
	}
	// Durations come from the store, not from decision timestamps.
	if res.Stats.KeptSegments != 1 || res.Stats.RemovedSegments != 3 {
		t.Fatalf("stats wrong: %+v", res.Stats)
	}
}

func TestAggregate_QualityScoreWeighted(t *testing.T) {
	t.Parallel()

	store := storeOf(3, 10)
	results := []ChunkResult{{Decisions: []types.Decision{
		keepDecision(store[0].ID, 10, 0.8),
		keepDecision(store[1].ID, 5, 0.2),
		removeDecision(store[2].ID, 9, 1.0), // removals never count
	}}}

	res := Aggregate(results, store, DefaultRules(VideoGeneral), Context{OriginalDuration: 30})
	want := (10*0.8 + 5*0.2) / (0.8 + 0.2)
	if math.Abs(res.QualityScore-want) > 1e-9 {
		t.Fatalf("quality = %v, want %v", res.QualityScore, want)
	}
}

func TestAggregate_QualityScoreEdgeCases(t *testing.T) {
	t.Parallel()

	store := storeOf(1, 10)

	res := Aggregate(nil, store, DefaultRules(VideoGeneral), Context{OriginalDuration: 10})
	if res.QualityScore != 0 {
		t.Fatalf("no decisions should give quality 0, got %v", res.QualityScore)
	}

	zeroWeight := []ChunkResult{{Decisions: []types.Decision{
		keepDecision(store[0].ID, 8, 0),
	}}}
	res = Aggregate(zeroWeight, store, DefaultRules(VideoGeneral), Context{OriginalDuration: 10})
	if res.QualityScore != 5.0 {
		t.Fatalf("zero-weight keeps should give neutral 5.0, got %v", res.QualityScore)
	}
}

func TestAggregate_ZeroOriginalDuration(t *testing.T) {
	t.Parallel()

	store := storeOf(1, 10)
	results := []ChunkResult{{Decisions: []types.Decision{keepDecision(store[0].ID, 8, 0.9)}}}
	res := Aggregate(results, store, DefaultRules(VideoGeneral), Context{})
	if res.CompressionAchieved != 0 {
		t.Fatalf("unknown original duration must give compression 0, got %v", res.CompressionAchieved)
	}
}

func TestAggregate_LowConfidenceWarning(t *testing.T) {
	t.Parallel()

	store := storeOf(4, 10)
	results := []ChunkResult{{Decisions: []types.Decision{
		keepDecision(store[0].ID, 8, 0.3),
		keepDecision(store[1].ID, 8, 0.3),
		keepDecision(store[2].ID, 8, 0.9),
		keepDecision(store[3].ID, 8, 0.9),
	}}}

	res := Aggregate(results, store, DefaultRules(VideoGeneral), Context{OriginalDuration: 40})
	if !hasWarning(res.Warnings, "low-confidence") {
		t.Fatalf("expected low-confidence warning, got %v", res.Warnings)
	}
}

func TestAggregate_AggressiveCompressionWarning(t *testing.T) {
	t.Parallel()

	store := storeOf(5, 10)
	var ds []types.Decision
	for _, s := range store {
		ds = append(ds, removeDecision(s.ID, 1, 0.9))
	}
	res := Aggregate([]ChunkResult{{Decisions: ds}}, store, DefaultRules(VideoGeneral), Context{OriginalDuration: 50})
	if !hasWarning(res.Warnings, "aggressive") {
		t.Fatalf("expected aggressive-compression warning, got %v", res.Warnings)
	}
}

func TestAggregate_CarriesChunkWarnings(t *testing.T) {
	t.Parallel()

	store := storeOf(2, 10)
	results := []ChunkResult{
		{Index: 0, Decisions: []types.Decision{keepDecision(store[0].ID, 8, 0.9)}, Warnings: []string{"first chunk warning"}},
		{Index: 1, Decisions: []types.Decision{keepDecision(store[1].ID, 8, 0.9)}, Warnings: []string{"second chunk warning"}},
	}
	res := Aggregate(results, store, DefaultRules(VideoGeneral), Context{OriginalDuration: 20})
	if !hasWarning(res.Warnings, "first chunk warning") || !hasWarning(res.Warnings, "second chunk warning") {
		t.Fatalf("chunk warnings lost: %v", res.Warnings)
	}
	if res.Decisions[0].SegmentID != store[0].ID || res.Decisions[1].SegmentID != store[1].ID {
		t.Fatalf("decisions reordered: %+v", res.Decisions)
	}
}

func TestAggregate_Stats(t *testing.T) {
	t.Parallel()

	store := storeOf(3, 10)
	results := []ChunkResult{{Decisions: []types.Decision{
		keepDecision(store[0].ID, 8, 0.6),
		removeDecision(store[1].ID, 2, 0.8),
		{SegmentID: store[2].ID, Type: types.DecisionModify, Score: 5, Confidence: 0.7},
	}}}

	res := Aggregate(results, store, DefaultRules(VideoGeneral), Context{OriginalDuration: 30})
	st := res.Stats
	if st.TotalSegments != 3 || st.TotalDecisions != 3 {
		t.Fatalf("totals wrong: %+v", st)
	}
	if st.KeptSegments != 1 || st.RemovedSegments != 1 || st.ModifiedSegments != 1 {
		t.Fatalf("type counts wrong: %+v", st)
	}
	if math.Abs(st.AverageConfidence-0.7) > 1e-9 {
		t.Fatalf("average confidence = %v, want 0.7", st.AverageConfidence)
	}
	if math.Abs(st.AverageScore-5.0) > 1e-9 {
		t.Fatalf("average score = %v, want 5.0", st.AverageScore)
	}
}

func hasWarning(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}
