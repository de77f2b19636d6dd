package stage

import (
	"time"

	"gioibon/internal/audiocache"
	"gioibon/internal/document"
	"gioibon/internal/publish"
)

// Run is the state threaded through one build. Each stage reads what earlier
// stages produced and fills in its own part.
type Run struct {
	ID      string
	Started time.Time

	// SourcePath is the markdown document being built.
	SourcePath string
	// Segments is filled by the parse stage; later stages only attach audio.
	Segments []document.Segment

	Audio   audiocache.Stats
	Publish publish.Result
}

// Summary is the operator-facing report of a finished run.
type Summary struct {
	RunID            string        `json:"run_id"`
	Source           string        `json:"source"`
	Segments         int           `json:"segments"`
	Synthesized      int           `json:"synthesized"`
	Reused           int           `json:"reused"`
	Skipped          int           `json:"skipped"`
	Missing          int           `json:"missing"`
	Failed           int           `json:"failed"`
	Pruned           int           `json:"pruned"`
	StoreChanged     bool          `json:"store_changed"`
	VersionRewritten bool          `json:"version_rewritten"`
	Version          string        `json:"version"`
	Duration         time.Duration `json:"duration"`
}

// Summary reports the run's counters.
func (r *Run) Summary() Summary {
	return Summary{
		RunID:            r.ID,
		Source:           r.SourcePath,
		Segments:         len(r.Segments),
		Synthesized:      r.Audio.Synthesized,
		Reused:           r.Audio.Reused,
		Skipped:          r.Audio.Skipped,
		Missing:          r.Audio.Missing,
		Failed:           r.Audio.Failed,
		Pruned:           r.Audio.Pruned,
		StoreChanged:     r.Publish.StoreChanged,
		VersionRewritten: r.Publish.VersionRewritten,
		Version:          r.Publish.Version,
		Duration:         time.Since(r.Started),
	}
}
