// Package whisperjson loads a Segment Store from transcript JSON produced
// by a whisper-style transcription run.
package whisperjson

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rgoncalves/smartcut/internal/types"
)

// Adapter reads `{"segments":[...]}` transcript files. Segments may carry
// their own ids and confidences; missing ids are assigned positionally and
// missing confidences default to a neutral value.
type Adapter struct{}

func New() *Adapter { return &Adapter{} }

const defaultConfidence = 0.8

type rawSegment struct {
	ID         string   `json:"id"`
	Start      float64  `json:"start"`
	End        float64  `json:"end"`
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence"`
}

func (a *Adapter) Load(ctx context.Context, path string) ([]types.Segment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	var doc struct {
		Segments []rawSegment `json:"segments"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse transcript %s: %w", path, err)
	}
	if len(doc.Segments) == 0 {
		return nil, fmt.Errorf("transcript %s contains no segments", path)
	}

	out := make([]types.Segment, 0, len(doc.Segments))
	n := 0
	for _, rs := range doc.Segments {
		text := strings.TrimSpace(rs.Text)
		if text == "" {
			continue
		}
		n++
		id := strings.TrimSpace(rs.ID)
		if id == "" {
			id = fmt.Sprintf("segment_%d", n)
		}
		confidence := defaultConfidence
		if rs.Confidence != nil {
			confidence = *rs.Confidence
		}
		out = append(out, types.Segment{
			ID:         id,
			Start:      rs.Start,
			End:        rs.End,
			Text:       text,
			Confidence: confidence,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("transcript %s contains only empty segments", path)
	}
	return out, nil
}
