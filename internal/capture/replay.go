package capture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rickeysan/hiit-score-app/internal/pose"
)

// Recording is a captured sequence of detections.
type Recording struct {
	ExerciseID *int            `json:"exercise_id,omitempty"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Frames     []RecordedFrame `json:"frames"`
}

// RecordedFrame holds the detector output for one frame. A non-empty Error
// replays a failed detection.
type RecordedFrame struct {
	Poses []pose.Pose `json:"poses"`
	Error string      `json:"error,omitempty"`
}

func LoadRecording(path string) (*Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("capture: failed to read recording: %w", err)
	}
	var rec Recording
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("capture: failed to decode recording: %w", err)
	}
	return &rec, nil
}

// Replay plays a Recording back as both camera and detector.
type Replay struct {
	rec  *Recording
	pos  int
	open bool
}

func NewReplay(rec *Recording) *Replay {
	return &Replay{rec: rec}
}

func (r *Replay) Open(ctx context.Context) error {
	if r.rec == nil {
		return ErrDeviceNotFound
	}
	r.open = true
	r.pos = 0
	return nil
}

func (r *Replay) Read(ctx context.Context) (Frame, error) {
	if !r.open {
		return Frame{}, ErrStreamEnded
	}
	if r.pos >= len(r.rec.Frames) {
		return Frame{}, ErrStreamEnded
	}
	f := Frame{
		Seq:       uint64(r.pos),
		Timestamp: time.Now(),
		Width:     r.rec.Width,
		Height:    r.rec.Height,
	}
	r.pos++
	return f, nil
}

func (r *Replay) Close() error {
	r.open = false
	return nil
}

func (r *Replay) Load(ctx context.Context) error { return nil }

func (r *Replay) EstimatePoses(ctx context.Context, f Frame) ([]pose.Pose, error) {
	if int(f.Seq) >= len(r.rec.Frames) {
		return nil, fmt.Errorf("capture: frame %d not in recording", f.Seq)
	}
	rf := r.rec.Frames[f.Seq]
	if rf.Error != "" {
		return nil, errors.New(rf.Error)
	}
	return rf.Poses, nil
}
