package xmeml

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/rgoncalves/smartcut/internal/domain/timeline"
	"github.com/rgoncalves/smartcut/internal/types"
)

func testMedia() types.MediaInfo {
	return types.MediaInfo{
		Filename:   "talk.mp4",
		Duration:   120,
		FPS:        30,
		Resolution: "1920x1080",
		HasAudio:   true,
	}
}

func testDecisions() []types.Decision {
	return []types.Decision{
		{SegmentID: "segment_1", Type: types.DecisionKeep, StartTime: 10, EndTime: 20, Score: 8.5, Reasoning: "strong opener"},
		{SegmentID: "segment_2", Type: types.DecisionRemove, StartTime: 20, EndTime: 40, Score: 1, Reasoning: "filler"},
		{SegmentID: "segment_3", Type: types.DecisionKeep, StartTime: 40, EndTime: 50, Score: 7, Reasoning: "core content"},
	}
}

func generate(t *testing.T, media types.MediaInfo, decisions []types.Decision) string {
	t.Helper()
	clips := timeline.Synthesize(decisions, media)
	out, err := Generate(media, clips, decisions, "/videos/talk.mp4")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return out
}

func TestGenerate_HeaderAndStructure(t *testing.T) {
	t.Parallel()

	out := generate(t, testMedia(), testDecisions())
	if !strings.HasPrefix(out, Header) {
		t.Fatalf("output missing declaration/doctype header")
	}
	if err := Validate(out); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	var doc document
	if err := xml.Unmarshal([]byte(strings.TrimPrefix(out, Header)), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Project.Name != "AI_Edit_talk.mp4" {
		t.Fatalf("project name = %q", doc.Project.Name)
	}
	if got := doc.Project.Children.Sequence.Name; got != "talk.mp4_AI_Cuts" {
		t.Fatalf("sequence name = %q", got)
	}
	if len(doc.Project.Children.Bins) != 2 || doc.Project.Children.Bins[0].Name != "Media" {
		t.Fatalf("bins wrong: %+v", doc.Project.Children.Bins)
	}
	master := doc.Project.Children.Bins[0].Children.Clips[0]
	if master.ID != "master_clip" || master.File.ID != "master_media_file" {
		t.Fatalf("master clip ids wrong: %+v", master)
	}
	if master.File.PathURL != "file:////videos/talk.mp4" {
		t.Fatalf("pathurl = %q", master.File.PathURL)
	}
}

func TestGenerate_ByteStable(t *testing.T) {
	t.Parallel()

	first := generate(t, testMedia(), testDecisions())
	second := generate(t, testMedia(), testDecisions())
	if first != second {
		t.Fatalf("serialization is not byte-stable")
	}
}

func TestGenerate_FrameMath(t *testing.T) {
	t.Parallel()

	out := generate(t, testMedia(), testDecisions())
	var doc document
	if err := xml.Unmarshal([]byte(strings.TrimPrefix(out, Header)), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	items := doc.Project.Children.Sequence.Media.Video.Track.ClipItems
	if len(items) != 2 {
		t.Fatalf("expected 2 video clipitems, got %d", len(items))
	}
	// First keep spans 10-20s at 30fps.
	first := items[0]
	if first.In != 300 || first.Out != 600 || first.Start != 0 || first.End != 300 {
		t.Fatalf("frame math wrong: %+v", first)
	}
	second := items[1]
	if second.In != 1200 || second.Out != 1500 || second.Start != 300 || second.End != 600 {
		t.Fatalf("frame math wrong: %+v", second)
	}
	if doc.Project.Children.Sequence.Duration != 600 {
		t.Fatalf("sequence duration = %d, want 600", doc.Project.Children.Sequence.Duration)
	}
}

func TestGenerate_LinkedTracksAndComments(t *testing.T) {
	t.Parallel()

	out := generate(t, testMedia(), testDecisions())
	var d document
	if err := xml.Unmarshal([]byte(strings.TrimPrefix(out, Header)), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	video := d.Project.Children.Sequence.Media.Video.Track.ClipItems
	if d.Project.Children.Sequence.Media.Audio == nil {
		t.Fatalf("expected an audio track")
	}
	audio := d.Project.Children.Sequence.Media.Audio.Track.ClipItems

	if video[0].ID != "clipitem-1" || audio[0].ID != "audioclip-1" {
		t.Fatalf("clip ids wrong: %q / %q", video[0].ID, audio[0].ID)
	}
	if video[0].Link == nil || video[0].Link.LinkClipRef != "audioclip-1" {
		t.Fatalf("video clip not linked to its audio pair: %+v", video[0].Link)
	}
	if audio[1].Link == nil || audio[1].Link.LinkClipRef != "clipitem-2" {
		t.Fatalf("audio clip not linked to its video pair: %+v", audio[1].Link)
	}
	if !strings.Contains(video[0].Comments, "strong opener") || !strings.Contains(video[0].Comments, "8.5/10") {
		t.Fatalf("video comments wrong: %q", video[0].Comments)
	}
	if audio[0].Comments != "" {
		t.Fatalf("audio clips must not carry comments: %q", audio[0].Comments)
	}
	for _, item := range append(append([]clipItem(nil), video...), audio...) {
		if item.File.ID != "master_media_file" {
			t.Fatalf("clip %s does not reference the master file", item.ID)
		}
		if item.Enabled != "TRUE" {
			t.Fatalf("clip %s not enabled", item.ID)
		}
	}
}

func TestGenerate_NoAudio(t *testing.T) {
	t.Parallel()

	media := testMedia()
	media.HasAudio = false
	out := generate(t, media, testDecisions())

	var doc document
	if err := xml.Unmarshal([]byte(strings.TrimPrefix(out, Header)), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Project.Children.Sequence.Media.Audio != nil {
		t.Fatalf("silent media must not emit an audio track")
	}
	for _, item := range doc.Project.Children.Sequence.Media.Video.Track.ClipItems {
		if item.Link != nil {
			t.Fatalf("unlinked clip carries a link element: %+v", item)
		}
	}
	if doc.Project.Children.Bins[0].Children.Clips[0].File.Media.Audio != nil {
		t.Fatalf("master file must not declare an audio track")
	}
}

func TestGenerate_NTSCFlag(t *testing.T) {
	t.Parallel()

	media := testMedia()
	media.FPS = 29.97
	out := generate(t, media, testDecisions())
	var doc document
	if err := xml.Unmarshal([]byte(strings.TrimPrefix(out, Header)), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	r := doc.Project.Children.Sequence.Rate
	if r.Timebase != 29 || r.NTSC != "TRUE" {
		t.Fatalf("29.97fps rate = %+v", r)
	}

	out = generate(t, testMedia(), testDecisions())
	if err := xml.Unmarshal([]byte(strings.TrimPrefix(out, Header)), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Project.Children.Sequence.Rate.NTSC != "FALSE" {
		t.Fatalf("integer rates must not set NTSC")
	}
}

func TestGenerate_InvalidFPS(t *testing.T) {
	t.Parallel()

	media := testMedia()
	media.FPS = 0
	if _, err := Generate(media, nil, nil, "x.mp4"); err == nil {
		t.Fatalf("expected error for zero fps")
	}
}

func TestGenerate_ResolutionFallback(t *testing.T) {
	t.Parallel()

	media := testMedia()
	media.Resolution = ""
	out := generate(t, media, testDecisions())
	var doc document
	if err := xml.Unmarshal([]byte(strings.TrimPrefix(out, Header)), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	sc := doc.Project.Children.Sequence.Media.Video.Format.SampleCharacteristics
	if sc.Width != "1920" || sc.Height != "1080" {
		t.Fatalf("resolution fallback wrong: %sx%s", sc.Width, sc.Height)
	}
}

func TestValidate_RejectsGarbage(t *testing.T) {
	t.Parallel()

	if err := Validate("<xmeml version=\"3\"><project><name>x</name></project></xmeml>"); err == nil {
		t.Fatalf("expected version error")
	}
	if err := Validate("not xml at all"); err == nil {
		t.Fatalf("expected parse error")
	}
}
