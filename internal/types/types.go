package types

// Segment is one atomic unit of transcribed speech, timed against the
// original media. Segments are produced by an upstream transcription
// collaborator and are read-only inside the pipeline.
type Segment struct {
	ID         string  `json:"id"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Duration returns the segment span in seconds.
func (s Segment) Duration() float64 { return s.End - s.Start }

// MediaInfo describes the source media file the transcript was taken from.
type MediaInfo struct {
	Filename   string  `json:"filename"`
	Duration   float64 `json:"duration"`
	FPS        float64 `json:"fps"`
	Resolution string  `json:"resolution"`
	HasAudio   bool    `json:"has_audio"`
}

type DecisionType string

const (
	DecisionKeep    DecisionType = "keep"
	DecisionRemove  DecisionType = "remove"
	DecisionReorder DecisionType = "reorder"
	DecisionModify  DecisionType = "modify"
)

// ParseDecisionType maps a raw advisory string to a known decision type.
// Unknown or empty values resolve to remove, the conservative default.
func ParseDecisionType(s string) DecisionType {
	switch DecisionType(s) {
	case DecisionKeep, DecisionRemove, DecisionReorder, DecisionModify:
		return DecisionType(s)
	default:
		return DecisionRemove
	}
}

// SegmentFunction classifies the narrative role a segment plays in the
// final cut. The vocabulary is closed; advisory labels outside it are
// mapped through a synonym table in the decisions package.
type SegmentFunction string

const (
	FunctionHook        SegmentFunction = "hook"
	FunctionDevelopment SegmentFunction = "development"
	FunctionExample     SegmentFunction = "example"
	FunctionDefinition  SegmentFunction = "definition"
	FunctionStatistic   SegmentFunction = "statistic"
	FunctionTransition  SegmentFunction = "transition"
	FunctionConclusion  SegmentFunction = "conclusion"
	FunctionCTA         SegmentFunction = "cta"
	FunctionGuarantee   SegmentFunction = "guarantee"
	FunctionProof       SegmentFunction = "proof"
	FunctionOffer       SegmentFunction = "offer"
)

// AdviceKind tags the outcome of one advisory call. Only Parsed carries
// usable items; every other kind routes the chunk to the fallback scorer.
type AdviceKind int

const (
	AdviceParsed AdviceKind = iota
	AdviceMalformed
	AdviceEmpty
	AdviceTimedOut
)

func (k AdviceKind) String() string {
	switch k {
	case AdviceParsed:
		return "parsed"
	case AdviceMalformed:
		return "malformed"
	case AdviceEmpty:
		return "empty"
	case AdviceTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// RawDecision is one advisory item exactly as the external scorer returned
// it: unvalidated, possibly referencing segments that do not exist.
type RawDecision struct {
	SegmentID    string  `json:"segment_id"`
	DecisionType string  `json:"decision_type"`
	Function     string  `json:"function"`
	Score        float64 `json:"score"`
	Reasoning    string  `json:"reasoning"`
	Confidence   float64 `json:"confidence"`
}

// Advice is the tagged result of one advisory call over a chunk.
type Advice struct {
	Kind  AdviceKind
	Items []RawDecision
}

// Decision is the validated resolution for one segment. Times are copied
// from the matched segment, never from advisory-reported numbers.
type Decision struct {
	SegmentID    string          `json:"segment_id"`
	Type         DecisionType    `json:"decision_type"`
	Function     SegmentFunction `json:"function,omitempty"`
	Score        float64         `json:"score"`
	Confidence   float64         `json:"confidence"`
	Reasoning    string          `json:"reasoning"`
	AppliedRules []string        `json:"applied_rules,omitempty"`
	StartTime    float64         `json:"start_time"`
	EndTime      float64         `json:"end_time"`
}

// Stats summarizes a decision set for reporting.
type Stats struct {
	TotalSegments     int     `json:"total_segments"`
	TotalDecisions    int     `json:"total_decisions"`
	KeptSegments      int     `json:"kept_segments"`
	RemovedSegments   int     `json:"removed_segments"`
	ModifiedSegments  int     `json:"modified_segments"`
	AverageConfidence float64 `json:"average_confidence"`
	AverageScore      float64 `json:"average_score"`
}

// EditingResult is the aggregate outcome of resolving every chunk.
type EditingResult struct {
	Decisions           []Decision `json:"decisions"`
	SelectedSegments    []string   `json:"selected_segments"`
	FinalDuration       float64    `json:"final_duration"`
	CompressionAchieved float64    `json:"compression_achieved"`
	QualityScore        float64    `json:"quality_score"`
	Warnings            []string   `json:"warnings,omitempty"`
	Stats               Stats      `json:"stats"`
}

type TrackKind string

const (
	TrackVideo TrackKind = "video"
	TrackAudio TrackKind = "audio"
)

// TimelineClip places one source range onto the contiguous output
// timeline. Video and audio clips for the same logical segment share the
// same Pair index so an editor can keep them linked.
type TimelineClip struct {
	SourceStart   float64   `json:"source_start"`
	SourceEnd     float64   `json:"source_end"`
	TimelineStart float64   `json:"timeline_start"`
	TimelineEnd   float64   `json:"timeline_end"`
	Track         TrackKind `json:"track"`
	Pair          int       `json:"pair"`
}

// Duration returns the clip length in seconds.
func (c TimelineClip) Duration() float64 { return c.SourceEnd - c.SourceStart }
