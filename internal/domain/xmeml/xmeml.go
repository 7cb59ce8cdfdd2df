// Package xmeml serializes a synthesized timeline into an XMEML v4
// document consumable by Adobe Premiere and compatible editors.
package xmeml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/rgoncalves/smartcut/internal/domain/timeline"
	"github.com/rgoncalves/smartcut/internal/types"
)

// Header precedes the marshalled document. Premiere requires the DOCTYPE
// directly after the declaration with no whitespace in between.
const Header = `<?xml version="1.0" encoding="UTF-8"?><!DOCTYPE xmeml>`

const (
	masterClipID  = "master_clip"
	masterFileID  = "master_media_file"
	sequenceID    = "ai_sequence"
	defaultWidth  = "1920"
	defaultHeight = "1080"
)

type document struct {
	XMLName xml.Name `xml:"xmeml"`
	Version string   `xml:"version,attr"`
	Project project  `xml:"project"`
}

type project struct {
	Name     string   `xml:"name"`
	Children children `xml:"children"`
}

type children struct {
	Bins     []bin    `xml:"bin"`
	Sequence sequence `xml:"sequence"`
}

type bin struct {
	Name     string      `xml:"name"`
	Children binChildren `xml:"children"`
}

type binChildren struct {
	Clips []masterClip `xml:"clip"`
}

type masterClip struct {
	ID       string    `xml:"id,attr"`
	Name     string    `xml:"name"`
	Duration int       `xml:"duration"`
	Rate     rate      `xml:"rate"`
	File     mediaFile `xml:"file"`
}

type mediaFile struct {
	ID       string    `xml:"id,attr"`
	Name     string    `xml:"name"`
	PathURL  string    `xml:"pathurl"`
	Rate     rate      `xml:"rate"`
	Duration int       `xml:"duration"`
	Media    fileMedia `xml:"media"`
}

type fileMedia struct {
	Video *fileTrackHolder `xml:"video,omitempty"`
	Audio *fileTrackHolder `xml:"audio,omitempty"`
}

type fileTrackHolder struct {
	Track struct{} `xml:"track"`
}

type rate struct {
	Timebase int    `xml:"timebase"`
	NTSC     string `xml:"ntsc"`
}

type sequence struct {
	ID       string        `xml:"id,attr"`
	Name     string        `xml:"name"`
	Duration int           `xml:"duration"`
	Rate     rate          `xml:"rate"`
	Timecode timecode      `xml:"timecode"`
	Media    sequenceMedia `xml:"media"`
}

type timecode struct {
	Rate          rate   `xml:"rate"`
	String        string `xml:"string"`
	Frame         int    `xml:"frame"`
	DisplayFormat string `xml:"displayformat"`
}

type sequenceMedia struct {
	Video videoTrack  `xml:"video"`
	Audio *audioTrack `xml:"audio,omitempty"`
}

type videoTrack struct {
	Format format `xml:"format"`
	Track  track  `xml:"track"`
}

type audioTrack struct {
	Track track `xml:"track"`
}

type format struct {
	SampleCharacteristics sampleCharacteristics `xml:"samplecharacteristics"`
}

type sampleCharacteristics struct {
	Rate             rate   `xml:"rate"`
	Width            string `xml:"width"`
	Height           string `xml:"height"`
	PixelAspectRatio string `xml:"pixelaspectratio"`
}

type track struct {
	ClipItems []clipItem `xml:"clipitem"`
}

type clipItem struct {
	ID          string      `xml:"id,attr"`
	Name        string      `xml:"name"`
	Enabled     string      `xml:"enabled"`
	Duration    int         `xml:"duration"`
	Start       int         `xml:"start"`
	End         int         `xml:"end"`
	In          int         `xml:"in"`
	Out         int         `xml:"out"`
	File        fileRef     `xml:"file"`
	SourceTrack sourceTrack `xml:"sourcetrack"`
	Comments    string      `xml:"comments,omitempty"`
	Link        *link       `xml:"link,omitempty"`
}

type fileRef struct {
	ID string `xml:"id,attr"`
}

type sourceTrack struct {
	MediaType  string `xml:"mediatype"`
	TrackIndex int    `xml:"trackindex"`
}

type link struct {
	LinkClipRef string `xml:"linkclipref"`
	MediaType   string `xml:"mediatype"`
	TrackIndex  int    `xml:"trackindex"`
	ClipIndex   int    `xml:"clipindex"`
}

// Generate renders the project document binding the synthesized clips to
// one master media reference. Output is byte-stable for the same inputs:
// ids derive from clip positions and nothing else.
func Generate(media types.MediaInfo, clips []types.TimelineClip, decisions []types.Decision, mediaPath string) (string, error) {
	if media.FPS <= 0 {
		return "", fmt.Errorf("xmeml: non-positive frame rate %.3f", media.FPS)
	}

	doc := document{
		Version: "4",
		Project: project{
			Name: "AI_Edit_" + media.Filename,
			Children: children{
				Bins: []bin{
					mediaBin(media, mediaPath),
					{Name: "AI Edited Clips"},
				},
				Sequence: buildSequence(media, clips, decisions),
			},
		},
	}

	b, err := xml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("xmeml: marshal: %w", err)
	}
	return Header + string(b), nil
}

func mediaBin(media types.MediaInfo, mediaPath string) bin {
	fm := fileMedia{Video: &fileTrackHolder{}}
	if media.HasAudio {
		fm.Audio = &fileTrackHolder{}
	}
	r := mediaRate(media.FPS)
	total := frames(media.Duration, media.FPS)
	return bin{
		Name: "Media",
		Children: binChildren{
			Clips: []masterClip{{
				ID:       masterClipID,
				Name:     media.Filename,
				Duration: total,
				Rate:     r,
				File: mediaFile{
					ID:       masterFileID,
					Name:     media.Filename,
					PathURL:  pathURL(mediaPath),
					Rate:     r,
					Duration: total,
					Media:    fm,
				},
			}},
		},
	}
}

func buildSequence(media types.MediaInfo, clips []types.TimelineClip, decisions []types.Decision) sequence {
	r := mediaRate(media.FPS)
	video := timeline.VideoClips(clips)
	audio := timeline.AudioClips(clips)

	kept := keptDecisions(decisions)

	sm := sequenceMedia{
		Video: videoTrack{
			Format: format{SampleCharacteristics: sampleCharacteristics{
				Rate:             r,
				Width:            resolutionPart(media.Resolution, 0),
				Height:           resolutionPart(media.Resolution, 1),
				PixelAspectRatio: "square",
			}},
			Track: track{ClipItems: clipItems(video, kept, media.FPS, types.TrackVideo, len(audio) > 0)},
		},
	}
	if len(audio) > 0 {
		sm.Audio = &audioTrack{
			Track: track{ClipItems: clipItems(audio, kept, media.FPS, types.TrackAudio, true)},
		}
	}

	return sequence{
		ID:       sequenceID,
		Name:     media.Filename + "_AI_Cuts",
		Duration: frames(timeline.TotalDuration(clips), media.FPS),
		Rate:     r,
		Timecode: timecode{
			Rate:          r,
			String:        "00:00:00:00",
			Frame:         0,
			DisplayFormat: "NDF",
		},
		Media: sm,
	}
}

func clipItems(clips []types.TimelineClip, kept []types.Decision, fps float64, trackKind types.TrackKind, linked bool) []clipItem {
	items := make([]clipItem, 0, len(clips))
	for i, c := range clips {
		item := clipItem{
			ID:       clipID(trackKind, i),
			Name:     fmt.Sprintf("Clip %d", i+1),
			Enabled:  "TRUE",
			Duration: frames(c.Duration(), fps),
			Start:    frames(c.TimelineStart, fps),
			End:      frames(c.TimelineEnd, fps),
			In:       frames(c.SourceStart, fps),
			Out:      frames(c.SourceEnd, fps),
			File:     fileRef{ID: masterFileID},
			SourceTrack: sourceTrack{
				MediaType:  string(trackKind),
				TrackIndex: 1,
			},
		}
		if trackKind == types.TrackVideo {
			item.Comments = clipComments(kept, c.Pair)
		}
		if linked {
			other := types.TrackAudio
			if trackKind == types.TrackAudio {
				other = types.TrackVideo
			}
			item.Link = &link{
				LinkClipRef: clipID(other, i),
				MediaType:   string(other),
				TrackIndex:  1,
				ClipIndex:   1,
			}
		}
		items = append(items, item)
	}
	return items
}

func keptDecisions(decisions []types.Decision) []types.Decision {
	var out []types.Decision
	for _, d := range decisions {
		if d.Type == types.DecisionKeep {
			out = append(out, d)
		}
	}
	return out
}

func clipComments(kept []types.Decision, pair int) string {
	if pair < 0 || pair >= len(kept) {
		return ""
	}
	d := kept[pair]
	return fmt.Sprintf("Reason: %s\nRelevance: %.1f/10", d.Reasoning, d.Score)
}

func clipID(track types.TrackKind, i int) string {
	if track == types.TrackAudio {
		return fmt.Sprintf("audioclip-%d", i+1)
	}
	return fmt.Sprintf("clipitem-%d", i+1)
}

func mediaRate(fps float64) rate {
	ntsc := "FALSE"
	if fps == 29.97 {
		ntsc = "TRUE"
	}
	return rate{Timebase: int(fps), NTSC: ntsc}
}

func frames(seconds, fps float64) int {
	return int(seconds * fps)
}

func pathURL(mediaPath string) string {
	return "file:///" + strings.ReplaceAll(mediaPath, `\`, "/")
}

func resolutionPart(resolution string, idx int) string {
	parts := strings.SplitN(resolution, "x", 2)
	if len(parts) == 2 {
		p := strings.TrimSpace(parts[idx])
		if p != "" {
			return p
		}
	}
	if idx == 0 {
		return defaultWidth
	}
	return defaultHeight
}

// Validate parses a generated document and checks the structural pieces
// Premiere refuses to open without.
func Validate(content string) error {
	body := strings.TrimPrefix(content, Header)
	var doc document
	if err := xml.Unmarshal([]byte(body), &doc); err != nil {
		return fmt.Errorf("xmeml: parse: %w", err)
	}
	if doc.Version != "4" {
		return fmt.Errorf("xmeml: unsupported version %q", doc.Version)
	}
	if doc.Project.Name == "" {
		return errors.New("xmeml: missing project name")
	}
	if doc.Project.Children.Sequence.ID == "" {
		return errors.New("xmeml: missing sequence")
	}
	return nil
}
