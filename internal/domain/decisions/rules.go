package decisions

import (
	"strings"

	"github.com/rgoncalves/smartcut/internal/types"
)

// VideoType selects the editing preset applied to a run.
type VideoType string

const (
	VideoGeneral     VideoType = "general"
	VideoYouTubeCuts VideoType = "youtube_cuts"
	VideoVSL         VideoType = "vsl"
	VideoEducational VideoType = "educational"
)

// ParseVideoType maps a raw string to a known video type, defaulting to
// general.
func ParseVideoType(s string) VideoType {
	switch VideoType(strings.ToLower(strings.TrimSpace(s))) {
	case VideoYouTubeCuts:
		return VideoYouTubeCuts
	case VideoVSL:
		return VideoVSL
	case VideoEducational:
		return VideoEducational
	default:
		return VideoGeneral
	}
}

// Rules carries every weight, threshold, and keyword list the resolver and
// aggregator consult. All state is explicit; nothing is read from process
// globals.
type Rules struct {
	VideoType    VideoType
	ContentFocus string

	// Suggested output duration range in seconds, advisory only.
	SuggestedMinDuration float64
	SuggestedMaxDuration float64

	// Fallback scoring.
	BaseScore          float64
	KeywordWeight      float64
	LengthCap          float64
	LengthDivisor      float64
	ConfidenceWeight   float64
	KeepThreshold      float64
	MinKeptPerChunk    int
	FallbackConfidence float64
	ImportantKeywords  []string

	// Advisory defaults.
	DefaultConfidence float64

	// Aggregate warning thresholds.
	LowConfidenceLevel    float64
	LowConfidenceFraction float64
	MinKeptFraction       float64

	RequiredFunctions []types.SegmentFunction
}

// baseKeywords indicate sales/strategy content the fallback scorer should
// favor, carried over from the production keyword list.
var baseKeywords = []string{
	"sell", "selling", "marketing", "offer", "client", "customer",
	"purchase", "buy", "urgency", "discount", "promotion", "strategy",
	"sales", "business", "money", "profit", "result", "results",
}

// DefaultRules returns the preset for a video type.
func DefaultRules(vt VideoType) Rules {
	r := Rules{
		VideoType:    vt,
		ContentFocus: "balanced_quality",

		SuggestedMinDuration: 180,
		SuggestedMaxDuration: 1800,

		BaseScore:          5.0,
		KeywordWeight:      2.0,
		LengthCap:          3.0,
		LengthDivisor:      20.0,
		ConfidenceWeight:   3.0,
		KeepThreshold:      2.0,
		MinKeptPerChunk:    3,
		FallbackConfidence: 0.3,
		ImportantKeywords:  append([]string(nil), baseKeywords...),

		DefaultConfidence: 0.5,

		LowConfidenceLevel:    0.5,
		LowConfidenceFraction: 0.3,
		MinKeptFraction:       0.1,
	}

	switch vt {
	case VideoYouTubeCuts:
		r.SuggestedMinDuration, r.SuggestedMaxDuration = 360, 720
		r.ContentFocus = "quality_over_duration"
		r.RequiredFunctions = []types.SegmentFunction{
			types.FunctionHook, types.FunctionDevelopment,
		}
	case VideoVSL:
		r.SuggestedMinDuration, r.SuggestedMaxDuration = 600, 1200
		r.ContentFocus = "conversion_quality"
		r.RequiredFunctions = []types.SegmentFunction{
			types.FunctionHook, types.FunctionProof, types.FunctionOffer,
			types.FunctionGuarantee, types.FunctionCTA,
		}
	case VideoEducational:
		r.SuggestedMinDuration, r.SuggestedMaxDuration = 300, 900
		r.ContentFocus = "educational_clarity"
		r.RequiredFunctions = []types.SegmentFunction{
			types.FunctionDefinition, types.FunctionExample, types.FunctionConclusion,
		}
	}
	return r
}

// Context carries per-run information about the source material.
type Context struct {
	VideoType          VideoType
	OriginalDuration   float64
	DetectedLanguage   string
	CustomInstructions string
}

// InstructionKeywords extracts scoring keywords from free-text custom
// instructions: lowercase words longer than three characters.
func InstructionKeywords(instructions string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(instructions)) {
		if len(w) > 3 {
			out = append(out, w)
		}
	}
	return out
}
