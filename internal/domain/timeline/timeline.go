// Package timeline maps kept decisions from the original media timeline
// onto a new, contiguous output timeline.
package timeline

import (
	"github.com/rgoncalves/smartcut/internal/types"
)

// Synthesize emits paired video/audio clip placements for every keep
// decision, in decision order. Clips are concatenated without gaps or
// retiming: each clip's timeline span equals its source span, and clip i+1
// starts where clip i ends. With zero keep decisions the whole source is
// placed as a single clip so the output timeline is never unusable.
//
// Synthesis stays in seconds; frame conversion happens at serialization
// time to avoid compounding rounding error across clips.
func Synthesize(decisions []types.Decision, media types.MediaInfo) []types.TimelineClip {
	type span struct{ start, end float64 }

	var spans []span
	for _, d := range decisions {
		if d.Type != types.DecisionKeep {
			continue
		}
		if d.EndTime <= d.StartTime {
			continue
		}
		spans = append(spans, span{start: d.StartTime, end: d.EndTime})
	}
	if len(spans) == 0 {
		spans = []span{{start: 0, end: media.Duration}}
	}

	clips := make([]types.TimelineClip, 0, 2*len(spans))
	cursor := 0.0
	for i, sp := range spans {
		duration := sp.end - sp.start
		clip := types.TimelineClip{
			SourceStart:   sp.start,
			SourceEnd:     sp.end,
			TimelineStart: cursor,
			TimelineEnd:   cursor + duration,
			Track:         types.TrackVideo,
			Pair:          i,
		}
		clips = append(clips, clip)
		if media.HasAudio {
			clip.Track = types.TrackAudio
			clips = append(clips, clip)
		}
		cursor += duration
	}
	return clips
}

// VideoClips filters the synthesized list down to the video track,
// preserving order.
func VideoClips(clips []types.TimelineClip) []types.TimelineClip {
	return byTrack(clips, types.TrackVideo)
}

// AudioClips filters the synthesized list down to the audio track,
// preserving order.
func AudioClips(clips []types.TimelineClip) []types.TimelineClip {
	return byTrack(clips, types.TrackAudio)
}

func byTrack(clips []types.TimelineClip, track types.TrackKind) []types.TimelineClip {
	var out []types.TimelineClip
	for _, c := range clips {
		if c.Track == track {
			out = append(out, c)
		}
	}
	return out
}

// TotalDuration returns the output timeline length in seconds.
func TotalDuration(clips []types.TimelineClip) float64 {
	max := 0.0
	for _, c := range clips {
		if c.TimelineEnd > max {
			max = c.TimelineEnd
		}
	}
	return max
}
