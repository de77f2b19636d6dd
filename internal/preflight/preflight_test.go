package preflight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"gioibon/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_Creatable(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "a", "b"))
	if !result.Passed {
		t.Fatalf("expected missing dir under writable parent to pass, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckTTSRules(t *testing.T) {
	dir := t.TempDir()
	missing := CheckTTSRules(filepath.Join(dir, "none.json"))
	if missing.Passed || !missing.Optional {
		t.Fatalf("expected optional failure for missing rules, got %+v", missing)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if r := CheckTTSRules(bad); r.Passed || r.Optional {
		t.Fatalf("expected required failure for invalid rules, got %+v", r)
	}

	good := filepath.Join(dir, "good.json")
	if err := os.WriteFile(good, []byte(`{"phonetics":{"Pātimokkha":"Pa-ti-mốc"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if r := CheckTTSRules(good); !r.Passed {
		t.Fatalf("expected pass, got %+v", r)
	}
}

func TestCheckSpeechAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "good-key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"audioContent": "SUQz"})
	}))
	defer srv.Close()

	cfg := config.Default().TTS
	cfg.BaseURL = srv.URL
	cfg.APIKey = "good-key"
	r := CheckSpeechAPI(context.Background(), cfg)
	if !r.Passed {
		t.Fatalf("expected pass, got %+v", r)
	}
	if want := "reachable (voice " + cfg.Voice + ", " + cfg.Language + ")"; r.Detail != want {
		t.Fatalf("detail = %q, want %q", r.Detail, want)
	}
	cfg.APIKey = "bad-key"
	if r := CheckSpeechAPI(context.Background(), cfg); r.Passed {
		t.Fatal("expected failure for rejected key")
	}
}

func TestRunAllReportsMissingSource(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.Source = filepath.Join(base, "missing.md")
	cfg.Paths.RuleNames = ""
	cfg.Paths.TTSRules = ""
	cfg.Paths.AudioDir = filepath.Join(base, "audio")
	cfg.Paths.AudioCacheDir = filepath.Join(base, "cache")
	cfg.TTS.Enabled = false

	results := RunAll(context.Background(), &cfg, false)
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "Source document" {
		t.Fatalf("expected only the source check to fail, got %+v", failed)
	}
}
