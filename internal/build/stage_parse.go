package build

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"gioibon/internal/config"
	"gioibon/internal/document"
	"gioibon/internal/logging"
	"gioibon/internal/services"
	"gioibon/internal/stage"
)

type parseStage struct {
	cfg       *config.Config
	logger    *slog.Logger
	ruleNames document.RuleNames
}

func newParseStage(cfg *config.Config) *parseStage {
	return &parseStage{cfg: cfg, logger: logging.NewNop()}
}

func (s *parseStage) SetLogger(logger *slog.Logger) { s.logger = logger }

func (s *parseStage) Prepare(_ context.Context, run *stage.Run) error {
	path, err := s.cfg.SourceDocument()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return services.Wrap(services.ErrInputMissing, "parse", "resolve source", s.cfg.Paths.Source, err)
		}
		return services.Wrap(services.ErrConfiguration, "parse", "resolve source", s.cfg.Paths.Source, err)
	}
	run.SourcePath = path

	s.ruleNames = nil
	if s.cfg.Paths.RuleNames == "" {
		return nil
	}
	names, err := document.LoadRuleNames(s.cfg.Paths.RuleNames)
	if err != nil {
		logging.WarnWithContext(s.logger, "rule names unavailable", "rule_names_unavailable",
			logging.String("path", s.cfg.Paths.RuleNames),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "fix paths.rule_names or leave it empty"),
			logging.String(logging.FieldImpact, "rule-name segments omitted"),
		)
		return nil
	}
	s.ruleNames = names
	s.logger.Debug("rule names loaded", logging.Int("count", len(names)))
	return nil
}

func (s *parseStage) Execute(_ context.Context, run *stage.Run) error {
	raw, err := os.ReadFile(run.SourcePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return services.Wrap(services.ErrInputMissing, "parse", "read source", run.SourcePath, err)
		}
		return services.Wrap(services.ErrValidation, "parse", "read source", run.SourcePath, err)
	}
	parser := document.NewParser(document.Options{RuleNames: s.ruleNames}, s.logger)
	run.Segments = parser.Parse(string(raw))
	if len(run.Segments) == 0 {
		return services.Wrap(services.ErrValidation, "parse", "parse source", "document produced no segments", nil)
	}
	s.logger.Info("document parsed",
		logging.String("source", run.SourcePath),
		logging.Int("segments", len(run.Segments)),
		logging.Int("labels", len(document.LabelCounts(run.Segments))),
	)
	return nil
}

func (s *parseStage) HealthCheck(context.Context) stage.Health {
	const name = "parse"
	path, err := s.cfg.SourceDocument()
	if err != nil {
		return stage.Unhealthy(name, err.Error())
	}
	return stage.Health{Name: name, Ready: true, Detail: path}
}
