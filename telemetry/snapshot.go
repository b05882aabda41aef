package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/cloth/physics"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot is a JSON dump of the cloth at one frame, written for offline
// inspection of bookmarked moments. It is never read back.
type Snapshot struct {
	Version int   `json:"version"`
	Frame   int32 `json:"frame"`

	Gravity    [2]float64 `json:"gravity"`
	Friction   float64    `json:"friction"`
	Iterations int        `json:"iterations"`
	SubSteps   int        `json:"sub_steps"`

	Particles []ParticleState `json:"particles"`
	Links     []LinkState     `json:"links"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// ParticleState holds one particle's complete state.
type ParticleState struct {
	ID     int     `json:"id"` // handle at capture time
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	PrevX  float64 `json:"prev_x"`
	PrevY  float64 `json:"prev_y"`
	VelX   float64 `json:"vel_x"`
	VelY   float64 `json:"vel_y"`
	Mass   float64 `json:"mass"`
	Pinned bool    `json:"pinned,omitempty"`
}

// LinkState holds one link, with endpoints given as particle IDs.
type LinkState struct {
	A             int     `json:"a"`
	B             int     `json:"b"`
	RestLength    float64 `json:"rest_length"`
	Stiffness     float64 `json:"stiffness"`
	MaxElongation float64 `json:"max_elongation"`
	Elongation    float64 `json:"elongation"`
}

// Capture records the solver state. Broken links and links with a missing
// endpoint are skipped.
func Capture(s *physics.Solver, frame int32, bookmark *Bookmark) *Snapshot {
	cfg := s.Config()
	snap := &Snapshot{
		Version:    SnapshotVersion,
		Frame:      frame,
		Gravity:    [2]float64{cfg.Gravity.X, cfg.Gravity.Y},
		Friction:   cfg.Friction,
		Iterations: cfg.Iterations,
		SubSteps:   cfg.SubSteps,
		Particles:  make([]ParticleState, 0, s.Particles().Len()),
		Links:      make([]LinkState, 0, s.Links().Len()),
		Bookmark:   bookmark,
	}

	for h, p := range s.Particles().All() {
		snap.Particles = append(snap.Particles, ParticleState{
			ID:     int(h),
			X:      p.Position.X,
			Y:      p.Position.Y,
			PrevX:  p.PrevPosition.X,
			PrevY:  p.PrevPosition.Y,
			VelX:   p.Velocity.X,
			VelY:   p.Velocity.Y,
			Mass:   p.Mass,
			Pinned: !p.Movable,
		})
	}
	for _, l := range s.Links().All() {
		if !l.IsValid(s.Particles()) {
			continue
		}
		snap.Links = append(snap.Links, LinkState{
			A:             int(l.A),
			B:             int(l.B),
			RestLength:    l.RestLength,
			Stiffness:     l.Stiffness,
			MaxElongation: l.MaxElongation,
			Elongation:    l.Elongation(s.Particles()),
		})
	}
	return snap
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Frame)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Frame, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}
