package build_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"gioibon/internal/audiocache"
	"gioibon/internal/build"
	"gioibon/internal/document"
	"gioibon/internal/publish"
	"gioibon/internal/services"
	"gioibon/internal/testsupport"
)

const sourceDoc = `---
title: test
---

# PHẦN MỞ ĐẦU

Bạch chư Tăng, xin lắng nghe. Hôm nay là ngày Bố-tát.

# THUYẾT GIỚI ƯNG ĐỐI TRỊ

1\. Vị nào nói dối thì phạm.
`

func fixedClock() time.Time { return time.Unix(1700000000, 0) }

func TestRunBuildsAllOutputs(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSource(sourceDoc))
	synth := &testsupport.FakeSynthesizer{}

	summary, err := build.New(cfg, nil, build.WithSynthesizer(synth), build.WithClock(fixedClock)).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Segments != 5 || summary.Synthesized != 3 || summary.Skipped != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if !summary.StoreChanged || !summary.VersionRewritten || summary.RunID == "" {
		t.Fatalf("expected first build to publish, got %+v", summary)
	}
	if len(synth.Calls()) != 3 {
		t.Fatalf("expected 3 provider calls, got %v", synth.Calls())
	}

	rows := testsupport.MustReadSegments(t, cfg.Paths.DBOut)
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.Audio == document.AudioUnresolved {
			t.Fatalf("row %d left unresolved", row.UID)
		}
	}
	if rows[0].Audio != document.AudioSkip || rows[4].Label != "Pc 1" || !audiocache.IsArtifactName(rows[4].Audio) {
		t.Fatalf("unexpected rows %+v", rows)
	}

	if got := testsupport.ListNames(t, cfg.Paths.AudioDir); len(got) != 3 {
		t.Fatalf("expected 3 artifacts in output, got %v", got)
	}
	if _, err := os.Stat(cfg.Paths.TSVOut); err != nil {
		t.Fatalf("expected tsv export: %v", err)
	}
	v, err := publish.ReadVersion(publish.VersionPath(cfg.Paths.DBOut))
	if err != nil {
		t.Fatalf("expected version descriptor: %v", err)
	}
	if v.Version != summary.Version || v.GeneratedAt != 1700000000 {
		t.Fatalf("unexpected descriptor %+v", v)
	}
}

func TestRunUnchangedInputReusesEverything(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSource(sourceDoc))
	synth := &testsupport.FakeSynthesizer{}
	ctx := context.Background()

	if _, err := build.New(cfg, nil, build.WithSynthesizer(synth)).Run(ctx); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(cfg.Paths.DBOut)
	if err != nil {
		t.Fatal(err)
	}

	summary, err := build.New(cfg, nil, build.WithSynthesizer(synth)).Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Synthesized != 0 || summary.Reused != 3 {
		t.Fatalf("expected full reuse, got %+v", summary)
	}
	if summary.StoreChanged || summary.VersionRewritten {
		t.Fatalf("expected no publish changes, got %+v", summary)
	}
	if len(synth.Calls()) != 3 {
		t.Fatalf("expected no new provider calls, got %v", synth.Calls())
	}
	after, err := os.Stat(cfg.Paths.DBOut)
	if err != nil {
		t.Fatal(err)
	}
	if !after.ModTime().Equal(info.ModTime()) {
		t.Fatal("expected database mtime preserved")
	}
}

func TestRunMissingSourceWritesNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	_, err := build.New(cfg, nil, build.WithSynthesizer(&testsupport.FakeSynthesizer{})).Run(context.Background())
	if !errors.Is(err, services.ErrInputMissing) {
		t.Fatalf("expected input missing, got %v", err)
	}
	if services.ExitCode(err) != 2 {
		t.Fatalf("unexpected exit code %d", services.ExitCode(err))
	}
	for _, path := range []string{cfg.Paths.DBOut, cfg.Paths.TSVOut, cfg.Paths.AudioDir, cfg.Paths.AudioCacheDir} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("expected %s not to be created", path)
		}
	}
}

func TestRunProviderFailureDegradesSegment(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSource(sourceDoc))
	synth := &testsupport.FakeSynthesizer{FailOn: "dối"}

	summary, err := build.New(cfg, nil, build.WithSynthesizer(synth)).Run(context.Background())
	if err != nil {
		t.Fatalf("provider failure must not fail the build: %v", err)
	}
	if summary.Failed != 1 || summary.Synthesized != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	rows := testsupport.MustReadSegments(t, cfg.Paths.DBOut)
	if rows[4].Audio != document.AudioSkip {
		t.Fatalf("expected failed segment marked skip, got %q", rows[4].Audio)
	}
}

func TestRunWithoutSynthesizerUsesCacheOnly(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSource(sourceDoc))
	summary, err := build.New(cfg, nil, build.WithSynthesizer(nil)).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if summary.Missing != 3 || summary.Synthesized != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestRunPrunesUnreferencedOutput(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSource(sourceDoc))
	synth := &testsupport.FakeSynthesizer{}
	ctx := context.Background()
	if _, err := build.New(cfg, nil, build.WithSynthesizer(synth)).Run(ctx); err != nil {
		t.Fatal(err)
	}

	testsupport.WriteText(t, cfg.Paths.Source, `# PHẦN MỞ ĐẦU

Bạch chư Tăng, xin lắng nghe.
`)
	summary, err := build.New(cfg, nil, build.WithSynthesizer(synth)).Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Pruned != 2 || !summary.StoreChanged {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if got := testsupport.ListNames(t, cfg.Paths.AudioDir); len(got) != 1 {
		t.Fatalf("expected 1 artifact left in output, got %v", got)
	}
	staged, err := audiocache.List(cfg.Paths.AudioCacheDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(staged) != 3 {
		t.Fatalf("staging must keep every artifact until gc, got %d", len(staged))
	}
}

func TestRunFailsWhenCacheLocked(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSource(sourceDoc))
	lock, err := audiocache.AcquireLock(cfg.Paths.AudioCacheDir)
	if err != nil {
		t.Fatal(err)
	}
	defer lock.Release()

	_, err = build.New(cfg, nil, build.WithSynthesizer(&testsupport.FakeSynthesizer{})).Run(context.Background())
	if !errors.Is(err, audiocache.ErrLocked) {
		t.Fatalf("expected lock error, got %v", err)
	}
	if _, err := os.Stat(cfg.Paths.DBOut); !os.IsNotExist(err) {
		t.Fatal("expected no database while locked")
	}
}

func TestRunMalformedTTSRulesIsConfigurationError(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSource(sourceDoc), testsupport.WithTTSRules("{"))
	_, err := build.New(cfg, nil, build.WithSynthesizer(&testsupport.FakeSynthesizer{})).Run(context.Background())
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestRunAppliesTTSRulesToProviderText(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithSource(sourceDoc),
		testsupport.WithTTSRules(`{"collapse_spaces": true, "phonetics": {"Bố-tát": "Bố tát"}}`),
	)
	synth := &testsupport.FakeSynthesizer{}
	if _, err := build.New(cfg, nil, build.WithSynthesizer(synth)).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	calls := synth.Calls()
	if len(calls) != 3 || calls[1] != "Hôm nay là ngày Bố tát." {
		t.Fatalf("unexpected provider texts %v", calls)
	}
}

func TestRunSpeaksUppercaseUnitsFromOriginalCasing(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithSource("# PHẦN MỞ ĐẦU\n\nĐẠI ĐỨC TĂNG HÃY LẮNG NGHE.\n"),
		testsupport.WithTTSRules(`{"collapse_spaces": true, "capitalize_upper": true}`),
	)
	synth := &testsupport.FakeSynthesizer{}
	if _, err := build.New(cfg, nil, build.WithSynthesizer(synth)).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	calls := synth.Calls()
	if len(calls) != 1 || calls[0] != "Đại đức tăng hãy lắng nghe." {
		t.Fatalf("unexpected provider texts %v", calls)
	}

	rows := testsupport.MustReadSegments(t, cfg.Paths.DBOut)
	if len(rows) != 2 || rows[1].Text != "Đại Đức Tăng Hãy Lắng Nghe." {
		t.Fatalf("expected title-cased display text, got %+v", rows)
	}
	want := audiocache.ArtifactName(audiocache.Key("Đại đức tăng hãy lắng nghe.", cfg.TTS.Voice, cfg.TTS.Language))
	if rows[1].Audio != want {
		t.Fatalf("audio = %q, want %q", rows[1].Audio, want)
	}
}

func TestHealthReportsDisabledSynthesis(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSource(sourceDoc))
	health := build.New(cfg, nil, build.WithSynthesizer(nil)).Health(context.Background())
	if len(health) != 3 {
		t.Fatalf("expected 3 stages, got %+v", health)
	}
	if !health[0].Ready || health[0].Detail != cfg.Paths.Source {
		t.Fatalf("unexpected parse health %+v", health[0])
	}
	if !health[1].Ready || health[1].Detail == "" {
		t.Fatalf("expected degraded audio health, got %+v", health[1])
	}
}
