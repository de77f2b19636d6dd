package publish

import (
	"context"
	"log/slog"
	"time"

	"gioibon/internal/document"
	"gioibon/internal/logging"
	"gioibon/internal/services"
	"gioibon/internal/store"
)

// Options configures a Publisher.
type Options struct {
	TSVPath    string
	DBPath     string
	IndexLabel bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// Result reports what Save changed on disk.
type Result struct {
	Rows             int
	Version          string
	StoreChanged     bool
	VersionRewritten bool
}

// Publisher writes segments to the export, the database and the descriptor.
type Publisher struct {
	opts   Options
	logger *slog.Logger
}

// New returns a Publisher.
func New(opts Options, logger *slog.Logger) *Publisher {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Publisher{opts: opts, logger: logging.NewComponentLogger(logger, "publish")}
}

// Save writes every output. Any failure is fatal to the build and is tagged
// services.ErrStore; the live database is either replaced whole or untouched.
func (p *Publisher) Save(ctx context.Context, segments []document.Segment) (Result, error) {
	result := Result{Rows: len(segments)}

	if err := WriteTSV(p.opts.TSVPath, segments); err != nil {
		return result, services.Wrap(services.ErrStore, "publish", "write tsv", p.opts.TSVPath, err)
	}
	p.logger.Info("tsv written",
		logging.String("path", p.opts.TSVPath),
		logging.Int("rows", len(segments)),
	)

	hash, changed, err := publishDatabase(ctx, p.opts.DBPath, segments, store.WriteOptions{IndexLabel: p.opts.IndexLabel})
	if err != nil {
		return result, services.Wrap(services.ErrStore, "publish", "write database", p.opts.DBPath, err)
	}
	result.Version = hash
	result.StoreChanged = changed
	if changed {
		attrs := logging.DecisionAttrs("database_publish", "replaced", "content fingerprint changed")
		attrs = append(attrs, logging.String("path", p.opts.DBPath), logging.String("version", hash))
		p.logger.Info("database replaced", logging.Args(attrs...)...)
	} else {
		attrs := logging.DecisionAttrs("database_publish", "kept", "content fingerprint unchanged")
		attrs = append(attrs, logging.String("path", p.opts.DBPath))
		p.logger.Info("database unchanged, keeping existing file", logging.Args(attrs...)...)
	}

	versionPath := VersionPath(p.opts.DBPath)
	rewritten, err := stampVersion(versionPath, hash, p.opts.Now())
	if err != nil {
		return result, services.Wrap(services.ErrStore, "publish", "write version", versionPath, err)
	}
	result.VersionRewritten = rewritten
	if rewritten {
		p.logger.Info("version descriptor updated",
			logging.String("path", versionPath),
			logging.String("version", hash),
		)
	}
	return result, nil
}
