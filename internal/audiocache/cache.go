package audiocache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gioibon/internal/document"
	"gioibon/internal/fileutil"
	"gioibon/internal/logging"
	"gioibon/internal/ttsrules"
)

// Synthesizer turns normalized text into audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Options configures a Cache.
type Options struct {
	StagingDir string
	OutputDir  string
	Voice      string
	Language   string
	Normalizer *ttsrules.Normalizer
	// Synthesizer may be nil, in which case cache misses resolve to skip.
	Synthesizer Synthesizer
	// Tagger may be nil to leave artifacts untagged.
	Tagger Tagger
	Album  string
	Artist string
}

// Request describes one segment to resolve.
type Request struct {
	UID   int
	Text  string
	Label string
	HTML  string
	// Speech overrides Text as the normalization input when set.
	Speech string
}

// Cache resolves segments to artifact names for one build.
type Cache struct {
	opts       Options
	logger     *slog.Logger
	stats      Stats
	referenced map[string]struct{}
}

// New prepares the staging and output directories.
func New(opts Options, logger *slog.Logger) (*Cache, error) {
	if strings.TrimSpace(opts.StagingDir) == "" || strings.TrimSpace(opts.OutputDir) == "" {
		return nil, errors.New("audio cache: staging and output directories are required")
	}
	for _, dir := range []string{opts.StagingDir, opts.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("audio cache: create %s: %w", dir, err)
		}
	}
	if opts.Normalizer == nil {
		opts.Normalizer = ttsrules.NewNormalizer(ttsrules.DefaultRules())
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Cache{
		opts:       opts,
		logger:     logging.NewComponentLogger(logger, "audiocache"),
		referenced: make(map[string]struct{}),
	}, nil
}

// Stats returns the counters accumulated so far.
func (c *Cache) Stats() Stats { return c.stats }

// Referenced returns the artifact names resolved by this build.
func (c *Cache) Referenced() map[string]struct{} {
	out := make(map[string]struct{}, len(c.referenced))
	for name := range c.referenced {
		out[name] = struct{}{}
	}
	return out
}

// Resolve returns the artifact name for a segment, or document.AudioSkip.
// It never fails: provider and file errors are logged and degrade the segment.
func (c *Cache) Resolve(ctx context.Context, req Request) string {
	source := req.Text
	if req.Speech != "" {
		source = req.Speech
	}
	normalized := c.opts.Normalizer.Normalize(source)
	if reason := skipReason(normalized, req.Label, req.HTML); reason != "" {
		c.stats.Skipped++
		c.logger.Debug("audio skipped",
			logging.Int(logging.FieldUID, req.UID),
			logging.String(logging.FieldLabel, req.Label),
			logging.String("reason", reason),
		)
		return document.AudioSkip
	}

	name := ArtifactName(Key(normalized, c.opts.Voice, c.opts.Language))
	staged := filepath.Join(c.opts.StagingDir, name)
	output := filepath.Join(c.opts.OutputDir, name)

	if _, seen := c.referenced[name]; seen {
		c.stats.Reused++
		return name
	}

	hit, err := c.restore(staged, output, req)
	if err != nil {
		c.stats.Failed++
		logging.WarnWithContext(c.logger, "audio cache copy failed", "audio_copy_failed",
			logging.Int(logging.FieldUID, req.UID),
			logging.String("artifact", name),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check audio_dir and audio_cache_dir permissions"),
			logging.String(logging.FieldImpact, "segment plays without pre-built audio"),
		)
		return document.AudioSkip
	}
	if hit {
		c.stats.Reused++
		c.referenced[name] = struct{}{}
		return name
	}

	if c.opts.Synthesizer == nil {
		c.stats.Missing++
		c.logger.Debug("audio missing and synthesis disabled",
			logging.Int(logging.FieldUID, req.UID),
			logging.String("artifact", name),
		)
		return document.AudioSkip
	}

	audio, err := c.opts.Synthesizer.Synthesize(ctx, normalized)
	if err == nil && len(audio) == 0 {
		err = errors.New("provider returned no audio")
	}
	if err != nil {
		c.stats.Failed++
		logging.WarnWithContext(c.logger, "audio synthesis failed", "tts_failed",
			logging.Int(logging.FieldUID, req.UID),
			logging.String(logging.FieldLabel, req.Label),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check GOOGLE_TTS_API_KEY and provider quota"),
			logging.String(logging.FieldImpact, "segment marked skip"),
		)
		return document.AudioSkip
	}

	if err := fileutil.WriteFileAtomic(staged, audio, 0o644); err != nil {
		c.stats.Failed++
		logging.WarnWithContext(c.logger, "audio staging write failed", "audio_write_failed",
			logging.String("artifact", name),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check audio_cache_dir permissions and free space"),
			logging.String(logging.FieldImpact, "segment marked skip"),
		)
		return document.AudioSkip
	}
	if err := fileutil.CopyFile(staged, output); err != nil {
		c.stats.Failed++
		logging.WarnWithContext(c.logger, "audio output copy failed", "audio_copy_failed",
			logging.String("artifact", name),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check audio_dir permissions"),
			logging.String(logging.FieldImpact, "segment marked skip"),
		)
		return document.AudioSkip
	}
	c.tag(output, req)
	c.stats.Synthesized++
	c.referenced[name] = struct{}{}
	c.logger.Debug("audio synthesized",
		logging.Int(logging.FieldUID, req.UID),
		logging.String("artifact", name),
		logging.Int("bytes", len(audio)),
	)
	return name
}

// restore makes the artifact available in the output directory from whichever
// copy exists. It reports false when neither copy exists.
func (c *Cache) restore(staged, output string, req Request) (bool, error) {
	stagedOK, err := fileutil.Exists(staged)
	if err != nil {
		return false, err
	}
	outputOK, err := fileutil.Exists(output)
	if err != nil {
		return false, err
	}
	switch {
	case stagedOK && outputOK:
		return true, nil
	case stagedOK:
		if err := fileutil.CopyFile(staged, output); err != nil {
			return false, err
		}
		c.tag(output, req)
		return true, nil
	case outputOK:
		return true, fileutil.CopyFile(output, staged)
	default:
		return false, nil
	}
}

func (c *Cache) tag(path string, req Request) {
	if c.opts.Tagger == nil {
		return
	}
	meta := Metadata{
		Lyrics: req.Text,
		Title:  fmt.Sprintf("%03d_%s", req.UID, req.Label),
		Album:  c.opts.Album,
		Artist: c.opts.Artist,
		Track:  req.UID,
	}
	if err := c.opts.Tagger.Tag(path, meta); err != nil {
		c.stats.TagFailures++
		logging.WarnWithContext(c.logger, "audio tagging failed", "audio_tag_failed",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "artifact is still usable; inspect the file with an ID3 tool"),
			logging.String(logging.FieldImpact, "artifact lacks lyrics and title metadata"),
		)
	}
}

// ResolveAll fills the Audio field of every segment in order. It stops early
// only when ctx is cancelled.
func (c *Cache) ResolveAll(ctx context.Context, segments []document.Segment) error {
	for i := range segments {
		if err := ctx.Err(); err != nil {
			return err
		}
		seg := &segments[i]
		seg.Audio = c.Resolve(ctx, Request{UID: seg.UID, Text: seg.Text, Label: seg.Label, HTML: seg.HTML, Speech: seg.SpeechText()})
	}
	return nil
}

// Prune removes artifacts in the output directory that this build did not
// reference, so the output set equals the referenced set.
func (c *Cache) Prune() (int, error) {
	entries, err := os.ReadDir(c.opts.OutputDir)
	if err != nil {
		return 0, fmt.Errorf("audio prune: %w", err)
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
			continue
		}
		if _, ok := c.referenced[entry.Name()]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(c.opts.OutputDir, entry.Name())); err != nil {
			return removed, fmt.Errorf("audio prune %s: %w", entry.Name(), err)
		}
		removed++
	}
	c.stats.Pruned = removed
	return removed, nil
}
