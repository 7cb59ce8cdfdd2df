package xmeml

import (
	"fmt"
	"strings"

	"github.com/rgoncalves/smartcut/internal/domain/decisions"
	"github.com/rgoncalves/smartcut/internal/types"
)

// Guide renders a human-readable cutting report derived from the editing
// result: source info, context, statistics, the reasoning behind every
// kept segment, and aggregate warnings.
func Guide(media types.MediaInfo, ctx decisions.Context, result types.EditingResult) string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	b.WriteString(rule + "\n")
	b.WriteString("CUTTING GUIDE - AI EDITOR\n")
	b.WriteString(rule + "\n\n")

	b.WriteString("SOURCE VIDEO:\n")
	fmt.Fprintf(&b, "  File: %s\n", media.Filename)
	fmt.Fprintf(&b, "  Original duration: %.1fs\n", media.Duration)
	fmt.Fprintf(&b, "  Final duration: %.1fs\n", result.FinalDuration)
	fmt.Fprintf(&b, "  Compression: %.1f%%\n", result.CompressionAchieved*100)
	fmt.Fprintf(&b, "  Resolution: %s\n", media.Resolution)
	fmt.Fprintf(&b, "  FPS: %g\n\n", media.FPS)

	b.WriteString("EDITING CONTEXT:\n")
	fmt.Fprintf(&b, "  Video type: %s\n", ctx.VideoType)
	if ctx.CustomInstructions != "" {
		fmt.Fprintf(&b, "  Instructions: %s\n", ctx.CustomInstructions)
	}
	b.WriteString("\n")

	b.WriteString("STATISTICS:\n")
	fmt.Fprintf(&b, "  Segments kept: %d\n", len(result.SelectedSegments))
	fmt.Fprintf(&b, "  Total decisions: %d\n", len(result.Decisions))
	fmt.Fprintf(&b, "  Quality score: %.1f/10\n\n", result.QualityScore)

	b.WriteString("EDITING DECISIONS:\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	for i, d := range result.Decisions {
		if d.Type != types.DecisionKeep {
			continue
		}
		fmt.Fprintf(&b, "#%03d - KEEP\n", i+1)
		fmt.Fprintf(&b, "  Function: %s\n", d.Function)
		fmt.Fprintf(&b, "  Score: %.1f/10\n", d.Score)
		fmt.Fprintf(&b, "  Confidence: %.0f%%\n", d.Confidence*100)
		fmt.Fprintf(&b, "  Reason: %s\n\n", d.Reasoning)
	}

	if len(result.Warnings) > 0 {
		b.WriteString("WARNINGS:\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "  ! %s\n", w)
		}
		b.WriteString("\n")
	}

	b.WriteString(rule + "\n")
	b.WriteString("Generated by smartcut\n")
	b.WriteString(rule + "\n")
	return b.String()
}
